// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package supervisor runs the relay's long-lived services under a suture v4
tree.

	RootSupervisor ("fleetrelay")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── websocket-hub
	│   └── location-sweeper (only when relay.stale_after > 0)
	└── APISupervisor ("api-layer")
	    └── http-server

A crashed service is restarted by its layer supervisor with backoff. A
crash in the HTTP server does not drop websocket connections and a hub
restart does not stop the HTTP listener.

Supervisor events are logged through sutureslog with the slog logger from
the logging package.
*/
package supervisor
