// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package logging provides the process-wide zerolog logger for Fleetrelay.
//
// Every component logs through this package so that the relay pipeline, the
// websocket hub, the HTTP layer and the supervisor tree all emit the same
// structured JSON (or console output during development).
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("total_clients", n).Msg("Client connected")
//	logging.Ctx(ctx).Warn().Int64("subject_id", id).Str("reason", "unauthenticated").Msg("Report rejected")
//
// # Configuration
//
// The logging section of the service configuration maps onto Config:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Connection and Request Correlation
//
// HTTP requests carry a request_id (see ContextWithRequestID). Websocket
// connections carry a conn_id (see ContextWithConnID) which is attached to
// every log line produced while processing a report from that connection.
//
// # Suture Integration
//
// NewSlogLogger returns a *slog.Logger backed by zerolog so that
// sutureslog can route supervisor events into the same stream.
package logging
