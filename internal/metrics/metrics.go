// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Report outcomes.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

var (
	// Relay Pipeline Metrics
	RelayReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_reports_total",
			Help: "Total number of position reports processed, by outcome and reject reason",
		},
		[]string{"outcome", "reason"},
	)

	RelayReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relay_report_duration_seconds",
			Help:    "Time from report receipt to accept or reject",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
		},
	)

	// Location Table Metrics
	LocationTableEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "location_table_entries",
			Help: "Current number of subjects with a known position",
		},
	)

	LocationRecordsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_records_expired_total",
			Help: "Total number of location records removed by the staleness sweeper",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_received_total",
			Help: "Total number of WebSocket messages received",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"}, // "read", "write", "decode", "upgrade"
	)

	BroadcastDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "broadcast_dropped_total",
			Help: "Total number of observers dropped or events discarded during fan-out",
		},
		[]string{"reason"}, // "send_buffer_full", "hub_queue_full", "client_closed"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Directory Cache Metrics
	DirectoryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "directory_cache_hits_total",
			Help: "Total number of driver directory lookups served from cache",
		},
	)

	DirectoryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "directory_cache_misses_total",
			Help: "Total number of driver directory lookups that reached the store",
		},
	)
)

// RecordReport records the outcome of one position report. reason is empty
// for accepted reports.
func RecordReport(outcome, reason string, duration time.Duration) {
	RelayReportsTotal.WithLabelValues(outcome, reason).Inc()
	RelayReportDuration.Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
