// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"net/http"
)

// Locations handles GET /api/v1/locations.
func (h *Handler) Locations(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.table.SnapshotMap())
}

// DriverLocations handles GET /driverLocations. The body is the bare
// snapshot map without an envelope.
func (h *Handler) DriverLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.table.SnapshotMap())
}
