// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package config loads and validates Fleetrelay configuration.
//
// Configuration is layered with Koanf v2. Later layers override earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. Optional YAML file: $CONFIG_PATH, ./config.yaml or /etc/fleetrelay/config.yaml
//  3. Environment variables, mapped through an explicit table
//
// Unknown environment variables are ignored.
//
// # Environment Variables
//
//	HTTP_PORT, HTTP_HOST, HTTP_TIMEOUT, ENVIRONMENT
//	JWT_SECRET (required, >= 32 chars), TOKEN_TTL
//	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT, CORS_ORIGINS
//	RELAY_REPORT_RATE, RELAY_REPORT_BURST, RELAY_MAX_IN_FLIGHT
//	RELAY_STALE_AFTER, RELAY_SWEEP_INTERVAL, RELAY_SEND_BUFFER, RELAY_PROCESS_TIMEOUT
//	DIRECTORY_PATH, DIRECTORY_IN_MEMORY, DIRECTORY_CACHE_SIZE, DIRECTORY_CACHE_TTL
//	DIRECTORY_BREAKER_* (circuit breaker tuning)
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// # Example YAML
//
//	server:
//	  port: 3000
//	security:
//	  jwt_secret: "..."
//	  cors_origins: ["https://dispatch.example.org"]
//	relay:
//	  stale_after: 10m
//	directory:
//	  path: /var/lib/fleetrelay/directory
package config
