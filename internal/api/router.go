// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/fleetrelay/internal/middleware"
)

// Router builds the chi route tree.
type Router struct {
	handler *Handler
	chiMw   *ChiMiddleware
}

// NewRouter creates a router for handler.
func NewRouter(handler *Handler) *Router {
	return &Router{
		handler: handler,
		chiMw:   NewChiMiddleware(&handler.config.Security),
	}
}

// Setup returns the HTTP handler for every route.
//
// /ws is mounted outside the Prometheus and rate-limit group so the
// upgrade sees the raw ResponseWriter and long-lived connections are not
// counted as in-flight requests.
func (router *Router) Setup() http.Handler {
	h := router.handler
	limit := router.chiMw.RateLimit()
	loginLimit := router.chiMw.RateLimitLogin()
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMw.CORS())

	r.Get("/ws", h.WebSocket)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/health", func(r chi.Router) {
				r.Get("/live", h.HealthLive)
				r.Get("/ready", h.HealthReady)
			})

			r.Route("/drivers", func(r chi.Router) {
				r.With(limit).Get("/", h.ListDrivers)
				r.With(limit).Post("/", h.RegisterDriver)
				r.With(loginLimit).Post("/login", h.Login)
			})

			r.With(limit).Get("/locations", h.Locations)
		})

		r.With(limit).Get("/driverLocations", h.DriverLocations)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
