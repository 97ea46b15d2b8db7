// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/middleware"
)

// ChiMiddleware holds the chi-compatible middleware built from configuration.
type ChiMiddleware struct {
	corsOrigins     []string
	rateLimitReqs   int
	rateLimitWindow time.Duration
	rateLimitOff    bool
}

// NewChiMiddleware creates middleware from the security configuration.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	reqs := cfg.RateLimitReqs
	if reqs <= 0 {
		reqs = 100
	}
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return &ChiMiddleware{
		corsOrigins:     cfg.CORSOrigins,
		rateLimitReqs:   reqs,
		rateLimitWindow: window,
		rateLimitOff:    cfg.RateLimitDisabled,
	}
}

// CORS returns the go-chi/cors handler for the configured origins.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	origins := m.corsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			// Browsers refuse credentials with a wildcard origin.
			allowCredentials = false
			break
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}

// RateLimit limits general API traffic per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.rateLimitReqs, m.rateLimitWindow)
}

// RateLimitLogin is the stricter limit for credential endpoints.
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	reqs := m.rateLimitReqs / 10
	if reqs < 5 {
		reqs = 5
	}
	return m.limit(reqs, m.rateLimitWindow)
}

func (m *ChiMiddleware) limit(reqs int, window time.Duration) func(http.Handler) http.Handler {
	if m.rateLimitOff {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		reqs,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logging.Ctx(r.Context()).Warn().
				Str("path", sanitizeLogValue(r.URL.Path)).
				Msg("Rate limit exceeded")
			respondError(w, r, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests", nil)
		}),
	)
}
