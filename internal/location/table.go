// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package location

import (
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

// Table holds the latest accepted position per subject.
//
// Records are stored by value, so every read returns a copy and no caller can
// observe a half-written record. The lock is only ever held for map access.
type Table struct {
	mu      sync.RWMutex
	records map[int64]models.LocationRecord
	now     func() time.Time

	// expiredSeq keeps the ticket of expired records so a late report
	// cannot bring back an older position.
	expiredSeq map[int64]uint64
}

// Option configures a Table.
type Option func(*Table)

// WithClock replaces the server clock. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		t.now = now
	}
}

// NewTable creates an empty table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		records:    make(map[int64]models.LocationRecord),
		now:        time.Now,
		expiredSeq: make(map[int64]uint64),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Upsert unconditionally replaces the position for subjectID. The stored
// ticket is kept, so a later Commit still orders against it.
func (t *Table) Upsert(subjectID int64, lat, lng float64, at time.Time) models.LocationRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.upsertLocked(subjectID, lat, lng, at, t.records[subjectID].Seq)
}

// Commit is the write path of the relay. It applies the position through the
// same upsert as Upsert, stamped with server time, but only if seq is newer
// than the ticket of the stored record. It returns false, leaving the table
// unchanged, when a newer report for the subject has already been applied.
func (t *Table) Commit(subjectID int64, lat, lng float64, seq uint64) (models.LocationRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.records[subjectID]; ok && prev.Seq >= seq {
		return prev, false
	}
	if floor, ok := t.expiredSeq[subjectID]; ok {
		if floor >= seq {
			return models.LocationRecord{}, false
		}
		delete(t.expiredSeq, subjectID)
	}

	return t.upsertLocked(subjectID, lat, lng, t.now(), seq), true
}

// upsertLocked must be called with mu held.
func (t *Table) upsertLocked(subjectID int64, lat, lng float64, at time.Time, seq uint64) models.LocationRecord {
	rec := models.LocationRecord{
		SubjectID:  subjectID,
		Latitude:   lat,
		Longitude:  lng,
		ObservedAt: at,
		Seq:        seq,
	}
	t.store(rec)
	return rec
}

// store must be called with mu held.
func (t *Table) store(rec models.LocationRecord) {
	t.records[rec.SubjectID] = rec
	metrics.LocationTableEntries.Set(float64(len(t.records)))
}

// Get returns the record for subjectID.
func (t *Table) Get(subjectID int64) (models.LocationRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[subjectID]
	return rec, ok
}

// Snapshot returns a point-in-time copy of every record, ordered by subject.
func (t *Table) Snapshot() []models.LocationRecord {
	t.mu.RLock()
	out := make([]models.LocationRecord, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].SubjectID < out[j].SubjectID
	})
	return out
}

// SnapshotMap returns the snapshot keyed by subject id, in wire form.
func (t *Table) SnapshotMap() map[int64]models.SnapshotEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[int64]models.SnapshotEntry, len(t.records))
	for id, rec := range t.records {
		out[id] = models.NewSnapshotEntry(rec)
	}
	return out
}

// Len returns the number of subjects with a known position.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

// ExpireOlderThan removes records observed before cutoff and returns the
// removed subject ids in ascending order.
func (t *Table) ExpireOlderThan(cutoff time.Time) []int64 {
	t.mu.Lock()
	var removed []int64
	for id, rec := range t.records {
		if rec.ObservedAt.Before(cutoff) {
			delete(t.records, id)
			t.expiredSeq[id] = rec.Seq
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		metrics.LocationTableEntries.Set(float64(len(t.records)))
	}
	t.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

// Now returns the table's server clock reading.
func (t *Table) Now() time.Time {
	return t.now()
}
