// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package directory is the driver directory: the store of driver records and the
lookup the relay uses to attach a display name to a location update.

# Layers

Lookups used by the relay pass through three layers:

	CachedDirectory  -> LRU of positive results (internal/cache)
	BreakerDirectory -> gobreaker circuit breaker
	BadgerStore      -> BadgerDB key-value store

NotFound is an answer, not a failure: it is never cached as a failure and
never counts against the breaker. Any other error is reported to callers
as ErrUnavailable so the relay can reject the single report without
affecting others.

# Storage Layout

	driver:<20-digit id>          JSON driver record, including password hash
	driver_username:<lowercase>   driver id (8 bytes, big endian)
	seq:driver_id                 badger sequence for id allocation
*/
package directory
