// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

/*
Package middleware provides HTTP middleware for request tracking and
Prometheus instrumentation.

  - RequestID: reuses or generates X-Request-ID and puts it in the logging context
  - PrometheusMetrics: records api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by chi route pattern
*/
package middleware
