// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package models holds the wire and domain types shared across Fleetrelay.
//
// Location types:
//   - PositionReport: inbound, untrusted, transient
//   - LocationRecord: the latest accepted position per subject (server time)
//   - LocationUpdateEvent / LocationExpiredEvent: outbound broadcasts
//   - SnapshotEntry: {latitude, longitude, timestamp(ms)} in snapshot maps
//   - ReportAck: per-report outcome, sent to the reporter only
//
// Directory types:
//   - Driver and the register/login request and response bodies
//
// HTTP envelope:
//   - APIResponse, Metadata, APIError
package models
