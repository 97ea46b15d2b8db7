// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package api is the HTTP surface of the relay: driver registration and login,
location snapshots, health checks, Prometheus metrics and the websocket
upgrade.

Routes:

	GET  /api/v1/health/live     liveness
	GET  /api/v1/health/ready    readiness (directory reachable)
	POST /api/v1/drivers         register a driver
	GET  /api/v1/drivers         list drivers
	POST /api/v1/drivers/login   issue a driver token
	GET  /api/v1/locations       snapshot in the APIResponse envelope
	GET  /driverLocations        snapshot as a bare map
	GET  /ws                     websocket for reports and live updates
	GET  /metrics                Prometheus exposition

JSON endpoints answer with models.APIResponse, except /driverLocations which
returns {"<subjectId>": {"latitude", "longitude", "timestamp"}} so existing
dashboards can read it unchanged.
*/
package api
