// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package relay

import (
	"errors"
	"fmt"

	"github.com/tomtom215/fleetrelay/internal/websocket"
)

// Reject reasons reported to the sender.
const (
	ReasonMalformed            = websocket.ReasonMalformed
	ReasonUnauthenticated      = "unauthenticated"
	ReasonIdentityMismatch     = "identity_mismatch"
	ReasonUnknownSubject       = "unknown_subject"
	ReasonDirectoryUnavailable = "directory_unavailable"
	ReasonSuperseded           = "superseded"
	ReasonRateLimited          = websocket.ReasonRateLimited
	ReasonOverloaded           = websocket.ReasonOverloaded
)

// RejectError is returned for a report that was not applied.
type RejectError struct {
	Reason string
	Err    error
}

func (e *RejectError) Error() string {
	if e.Err == nil {
		return "report rejected: " + e.Reason
	}
	return fmt.Sprintf("report rejected: %s: %v", e.Reason, e.Err)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

func reject(reason string, err error) *RejectError {
	return &RejectError{Reason: reason, Err: err}
}

// ReasonOf returns the reject reason carried by err, or "" if err is not a
// RejectError.
func ReasonOf(err error) string {
	var rejectErr *RejectError
	if errors.As(err, &rejectErr) {
		return rejectErr.Reason
	}
	return ""
}
