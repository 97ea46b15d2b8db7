// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package models

import "time"

// PositionReport is an untrusted location ping sent by a driver device.
// Fields are pointers so that a missing field can be told apart from a zero
// value (latitude 0 is a real place).
type PositionReport struct {
	SubjectID  *int64   `json:"subjectId" validate:"required"`
	Credential *string  `json:"credential" validate:"required,min=1"`
	Latitude   *float64 `json:"latitude" validate:"required,latitude"`
	Longitude  *float64 `json:"longitude" validate:"required,longitude"`
}

// LocationRecord is the latest accepted position for one subject.
// ObservedAt is always server time.
type LocationRecord struct {
	SubjectID  int64     `json:"subjectId"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	ObservedAt time.Time `json:"observedAt"`

	// Seq is the ordering ticket the record was committed with.
	Seq uint64 `json:"-"`
}

// SnapshotEntry is the per-subject value in a snapshot map.
// Timestamp is Unix milliseconds of ObservedAt.
type SnapshotEntry struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// NewSnapshotEntry converts a record to its snapshot form.
func NewSnapshotEntry(r LocationRecord) SnapshotEntry {
	return SnapshotEntry{
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		Timestamp: r.ObservedAt.UnixMilli(),
	}
}

// LocationUpdateEvent is broadcast to every observer after a report is accepted.
type LocationUpdateEvent struct {
	SubjectID int64   `json:"subjectId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
}

// LocationExpiredEvent is broadcast when a stale record is removed.
type LocationExpiredEvent struct {
	SubjectID int64 `json:"subjectId"`
}

// Report acknowledgement statuses.
const (
	AckAccepted = "accepted"
	AckRejected = "rejected"
)

// ReportAck is sent to the reporting connection only.
// SubjectID is nil when the report was too malformed to carry one.
type ReportAck struct {
	SubjectID *int64 `json:"subjectId"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}
