// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package services adapts the relay's components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete type so
// this package does not import websocket, relay or net/http servers directly
// and the wrappers can be tested with doubles.
package services
