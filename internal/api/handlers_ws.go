// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"net/http"
	"time"

	gorillaws "github.com/gorilla/websocket"

	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	ws "github.com/tomtom215/fleetrelay/internal/websocket"
)

func (h *Handler) upgrader() *gorillaws.Upgrader {
	return &gorillaws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      h.checkOrigin,
	}
}

// checkOrigin accepts requests without an Origin header (driver devices are
// not browsers) and browser requests from a configured CORS origin.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	origins := h.config.Security.CORSOrigins
	if len(origins) == 0 {
		return !h.config.IsProduction()
	}
	for _, allowed := range origins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Ctx(r.Context()).Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket origin rejected")
	return false
}

// WebSocket handles GET /ws. A connection both observes broadcasts and may
// submit driver_location reports.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader().Upgrade(w, r, nil)
	if err != nil {
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn, h.processor, h.clientOpts)
	if !client.Start() {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket rejected, hub is shutting down")
		return
	}

	logging.Ctx(r.Context()).Debug().
		Uint64("conn_id", client.ID()).
		Str("remote_addr", sanitizeLogValue(r.RemoteAddr)).
		Msg("WebSocket connected")
}
