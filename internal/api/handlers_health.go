// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status          string  `json:"status"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`
	DirectoryOK     bool    `json:"directoryOk"`
	Connections     int     `json:"connections"`
	TrackedSubjects int     `json:"trackedSubjects"`
}

// HealthLive handles GET /api/v1/health/live. It succeeds while the process
// can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &HealthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /api/v1/health/ready. It fails when the driver
// directory cannot be reached.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:          "ready",
		UptimeSeconds:   time.Since(h.startTime).Seconds(),
		DirectoryOK:     true,
		Connections:     h.wsHub.GetClientCount(),
		TrackedSubjects: h.table.Len(),
	}

	if err := h.store.Ping(ctx); err != nil {
		status.Status = "not_ready"
		status.DirectoryOK = false
		respondJSON(w, r, http.StatusServiceUnavailable, status)
		return
	}
	respondJSON(w, r, http.StatusOK, status)
}
