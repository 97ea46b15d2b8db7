// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package relay validates driver position reports, commits accepted ones to the
location table and broadcasts them to every observer.

# Pipeline

Each report is handled independently:

 1. Parse and validate the payload (malformed)
 2. Verify the credential (unauthenticated)
 3. Compare the verified subject with the claimed one (identity_mismatch)
 4. Take an ordering ticket
 5. Resolve the display name (unknown_subject, directory_unavailable)
 6. Commit with the ticket and enqueue the broadcast (superseded)

A rejected report changes nothing and is reported to its sender only.

# Ordering

Tickets come from one process-wide counter and are taken after
authentication, so for any subject the applied order is the order in which
reports passed authentication. Commit and broadcast enqueue share one lock,
so observers see updates for a subject in table order. No table lock is held
while the verifier or the directory is called.

# Staleness

Records live until process exit unless relay.stale_after is set, in which
case a Sweeper removes them and broadcasts location_expired.
*/
package relay
