// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package websocket is the connection registry of the relay.

The Hub owns the set of live connections and fans every broadcast out to all
of them from a single goroutine, so two broadcasts enqueued in order reach
every connection in that order. Each Client has a read pump and a write pump;
the read pump hands driver_location messages to a ReportProcessor and sends
the resulting acknowledgement back on the same connection only. Each report
takes its ordering ticket on the read pump, in arrival order, and is then
processed on its own goroutine.

# Wire Format

Every frame is a JSON envelope:

	{"type": "<message type>", "data": <payload>}

Inbound: driver_location, ping. Any other frame is acknowledged with a
report_ack rejected as malformed.
Outbound: location_update, location_expired, snapshot, report_ack, pong.

# Slow Observers

Broadcast never blocks on a connection. A connection whose send buffer is
full is dropped and deregistered; its write pump sends a close frame and
exits. Register and Unregister are idempotent.
*/
package websocket
