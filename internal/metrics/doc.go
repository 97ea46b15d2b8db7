// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

// Package metrics defines the Prometheus collectors exported on /metrics.
//
// Collectors are registered with the default registry through promauto at
// package init. Components update them directly or through the Record*
// helpers.
//
// # Relay
//
//	relay_reports_total{outcome,reason}   accepted / rejected reports
//	relay_report_duration_seconds         receipt to decision latency
//	location_table_entries                subjects with a known position
//	location_records_expired_total        records removed by the sweeper
//
// # WebSocket
//
//	websocket_connections
//	websocket_messages_sent_total
//	websocket_messages_received_total
//	websocket_errors_total{error_type}
//	broadcast_dropped_total{reason}
//
// # HTTP, Circuit Breaker, Directory Cache
//
//	api_requests_total{method,endpoint,status_code}
//	api_request_duration_seconds{method,endpoint}
//	api_active_requests
//	circuit_breaker_state{name}
//	circuit_breaker_requests_total{name,result}
//	circuit_breaker_state_transitions_total{name,from_state,to_state}
//	directory_cache_hits_total, directory_cache_misses_total
package metrics
