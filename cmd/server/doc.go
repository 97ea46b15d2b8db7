// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package main is the entry point for the Fleetrelay server.

Fleetrelay accepts location reports from authenticated driver devices over a
websocket, keeps the latest position of every driver in memory and fans each
accepted position out to every connected dashboard.

Component initialization order:

 1. Configuration: koanf with defaults, optional YAML file and environment
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Driver directory: BadgerDB store behind a circuit breaker and LRU cache
 4. Identity verifier: HS256 JWT manager
 5. Location table, websocket hub and relay pipeline
 6. Supervisor tree: hub and sweeper in messaging-layer, HTTP in api-layer

# Configuration

	HTTP_PORT=3000               # listen port
	JWT_SECRET=<32+ chars>       # required
	CORS_ORIGINS=https://dispatch.example.com
	DIRECTORY_PATH=/data/directory
	DIRECTORY_IN_MEMORY=false
	RELAY_STALE_AFTER=0          # e.g. 10m to expire silent drivers
	LOG_LEVEL=info
	LOG_FORMAT=json

A YAML file is read from CONFIG_PATH, ./config.yaml or
/etc/fleetrelay/config.yaml when present. Environment variables win.

# Shutdown

SIGINT or SIGTERM cancels the root context. The HTTP server stops accepting
requests, the hub closes every websocket with a going-away frame and the
directory database is closed after the tree has stopped.
*/
package main
