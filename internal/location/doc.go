// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package location implements the in-memory Location Table: at most one
// LocationRecord per subject, replaced on every accepted report.
//
// The table owns its synchronization. Callers never hold its lock while
// doing I/O; verification and directory lookups finish before Commit is
// called.
//
// Commit is the production write path: the relay never calls Upsert
// directly. Commit runs the ticket check and then performs the upsert.
// Upsert itself is the unconditional replace, used to seed a table.
//
// Commit takes an ordering ticket and only applies a record whose ticket is
// newer than the stored one, which gives last-write-wins in acceptance order
// even when reports for one subject finish the pipeline out of order.
//
// Records live until process teardown unless ExpireOlderThan is driven by the
// relay's staleness sweeper.
package location
