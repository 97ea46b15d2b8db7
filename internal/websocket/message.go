// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package websocket

import "github.com/goccy/go-json"

// Message types.
const (
	MessageTypeDriverLocation  = "driver_location"
	MessageTypePing            = "ping"
	MessageTypePong            = "pong"
	MessageTypeLocationUpdate  = "location_update"
	MessageTypeLocationExpired = "location_expired"
	MessageTypeSnapshot        = "snapshot"
	MessageTypeReportAck       = "report_ack"
)

// Message is an outbound envelope.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// inboundMessage keeps the payload raw so the processor decodes it.
type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalMessage encodes msg as a JSON frame.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
