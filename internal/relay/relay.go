// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fleetrelay/internal/directory"
	"github.com/tomtom215/fleetrelay/internal/location"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
	"github.com/tomtom215/fleetrelay/internal/validation"
)

// Verifier resolves a credential to the subject it proves.
type Verifier interface {
	Verify(ctx context.Context, credential string) (int64, error)
}

// Broadcaster fans events out to every observer without blocking.
type Broadcaster interface {
	BroadcastLocationUpdate(event models.LocationUpdateEvent)
	BroadcastLocationExpired(event models.LocationExpiredEvent)
}

// Relay runs the report pipeline.
type Relay struct {
	verifier    Verifier
	directory   directory.Resolver
	table       *location.Table
	broadcaster Broadcaster

	ticket atomic.Uint64

	// commitMu orders table writes with their broadcast enqueue.
	commitMu sync.Mutex
}

// New creates a relay.
//
//	r := relay.New(jwtManager, resolver, table, hub)
func New(verifier Verifier, resolver directory.Resolver, table *location.Table, broadcaster Broadcaster) *Relay {
	return &Relay{
		verifier:    verifier,
		directory:   resolver,
		table:       table,
		broadcaster: broadcaster,
	}
}

// NextTicket hands out the ordering ticket for a report that has just
// arrived. Tickets are taken in arrival order; a report whose ticket is older
// than the stored record for its subject is rejected as superseded.
func (r *Relay) NextTicket() uint64 {
	return r.ticket.Add(1)
}

// Submit takes a ticket for report now and runs it through SubmitWithTicket.
func (r *Relay) Submit(ctx context.Context, report *models.PositionReport) (models.LocationRecord, error) {
	return r.SubmitWithTicket(ctx, report, r.NextTicket())
}

// SubmitWithTicket runs a decoded report through verification, resolution
// and commit under a ticket taken from NextTicket when the report arrived.
// On success the committed record is returned and an update has been queued
// for broadcast. Every failure is a *RejectError.
func (r *Relay) SubmitWithTicket(ctx context.Context, report *models.PositionReport, ticket uint64) (models.LocationRecord, error) {
	if verr := validation.ValidateStruct(report); verr != nil {
		return models.LocationRecord{}, reject(ReasonMalformed, verr)
	}
	claimed := *report.SubjectID

	verified, err := r.verifier.Verify(ctx, *report.Credential)
	if err != nil {
		return models.LocationRecord{}, reject(ReasonUnauthenticated, err)
	}
	if verified != claimed {
		return models.LocationRecord{}, reject(ReasonIdentityMismatch,
			fmt.Errorf("credential proves subject %d, report claims %d", verified, claimed))
	}

	ident, err := r.directory.Lookup(ctx, claimed)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			return models.LocationRecord{}, reject(ReasonUnknownSubject, err)
		}
		return models.LocationRecord{}, reject(ReasonDirectoryUnavailable, err)
	}

	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	rec, applied := r.table.Commit(claimed, *report.Latitude, *report.Longitude, ticket)
	if !applied {
		return models.LocationRecord{}, reject(ReasonSuperseded,
			fmt.Errorf("ticket %d is older than the stored record", ticket))
	}

	r.broadcaster.BroadcastLocationUpdate(models.LocationUpdateEvent{
		SubjectID: rec.SubjectID,
		Latitude:  rec.Latitude,
		Longitude: rec.Longitude,
		FirstName: ident.FirstName,
		LastName:  ident.LastName,
	})
	return rec, nil
}

// Process decodes one driver_location payload, runs it through
// SubmitWithTicket and returns the acknowledgement for the sender.
func (r *Relay) Process(ctx context.Context, payload []byte, ticket uint64) models.ReportAck {
	start := time.Now()

	var report models.PositionReport
	var err error
	if decodeErr := json.Unmarshal(payload, &report); decodeErr != nil {
		err = reject(ReasonMalformed, decodeErr)
	} else {
		_, err = r.SubmitWithTicket(ctx, &report, ticket)
	}

	if err != nil {
		reason := ReasonOf(err)
		if reason == "" {
			reason = ReasonMalformed
		}
		metrics.RecordReport(metrics.OutcomeRejected, reason, time.Since(start))
		logReject(ctx, report.SubjectID, reason, err)
		return models.ReportAck{SubjectID: report.SubjectID, Status: models.AckRejected, Reason: reason}
	}

	metrics.RecordReport(metrics.OutcomeAccepted, "", time.Since(start))
	logging.Ctx(ctx).Debug().
		Int64("subject_id", *report.SubjectID).
		Float64("latitude", *report.Latitude).
		Float64("longitude", *report.Longitude).
		Msg("report accepted")
	return models.ReportAck{SubjectID: report.SubjectID, Status: models.AckAccepted}
}

// Reject acknowledges a report refused before the pipeline ran.
func (r *Relay) Reject(ctx context.Context, payload []byte, reason string) models.ReportAck {
	subjectID := peekSubjectID(payload)
	metrics.RecordReport(metrics.OutcomeRejected, reason, 0)
	logReject(ctx, subjectID, reason, nil)
	return models.ReportAck{SubjectID: subjectID, Status: models.AckRejected, Reason: reason}
}

// ExpireStale removes records older than maxAge and broadcasts their removal.
func (r *Relay) ExpireStale(maxAge time.Duration) []int64 {
	r.commitMu.Lock()
	defer r.commitMu.Unlock()

	removed := r.table.ExpireOlderThan(r.table.Now().Add(-maxAge))
	for _, id := range removed {
		r.broadcaster.BroadcastLocationExpired(models.LocationExpiredEvent{SubjectID: id})
	}
	if len(removed) > 0 {
		metrics.LocationRecordsExpired.Add(float64(len(removed)))
		logging.Info().Int("expired", len(removed)).Dur("max_age", maxAge).Msg("expired stale locations")
	}
	return removed
}

func peekSubjectID(payload []byte) *int64 {
	var partial struct {
		SubjectID *int64 `json:"subjectId"`
	}
	if err := json.Unmarshal(payload, &partial); err != nil {
		return nil
	}
	return partial.SubjectID
}

func logReject(ctx context.Context, subjectID *int64, reason string, err error) {
	event := logging.Ctx(ctx).Warn().Str("reason", reason)
	if subjectID != nil {
		event = event.Int64("subject_id", *subjectID)
	}
	if err != nil {
		event = event.Err(err)
	}
	event.Msg("report rejected")
}
