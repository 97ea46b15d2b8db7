// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package location

import (
	"sync"
	"testing"
	"time"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestUpsertReplaces(t *testing.T) {
	t.Parallel()

	table := NewTable()
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	table.Upsert(42, 39.75, -104.99, t0)
	rec := table.Upsert(42, 39.80, -105.00, t0.Add(time.Second))

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}
	got, ok := table.Get(42)
	if !ok {
		t.Fatal("Get(42) not found")
	}
	if got != rec || got.Latitude != 39.80 || got.Longitude != -105.00 {
		t.Errorf("Get(42) = %+v, want latest upsert", got)
	}
}

func TestCommitStampsServerTime(t *testing.T) {
	t.Parallel()

	server := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewTable(WithClock(fixedClock(server)))

	rec, applied := table.Commit(42, 39.75, -104.99, 1)
	if !applied {
		t.Fatal("first commit not applied")
	}
	if !rec.ObservedAt.Equal(server) {
		t.Errorf("ObservedAt = %v, want server time %v", rec.ObservedAt, server)
	}
}

func TestCommitLastWriteWinsByTicket(t *testing.T) {
	t.Parallel()

	table := NewTable()

	if _, ok := table.Commit(7, 1, 1, 5); !ok {
		t.Fatal("ticket 5 should apply to empty table")
	}
	if _, ok := table.Commit(7, 2, 2, 3); ok {
		t.Error("older ticket 3 must not overwrite ticket 5")
	}
	if _, ok := table.Commit(7, 2, 2, 5); ok {
		t.Error("equal ticket must not re-apply")
	}
	rec, ok := table.Commit(7, 3, 3, 9)
	if !ok {
		t.Fatal("newer ticket 9 should apply")
	}
	if rec.Latitude != 3 {
		t.Errorf("Latitude = %v, want 3", rec.Latitude)
	}

	// Tickets are per subject: another subject is unaffected.
	if _, ok := table.Commit(8, 0, 0, 1); !ok {
		t.Error("subject 8 ticket 1 should apply")
	}
}

func TestSnapshotIsCopyAndOrdered(t *testing.T) {
	t.Parallel()

	table := NewTable()
	now := time.Now()
	table.Upsert(3, 3, 3, now)
	table.Upsert(1, 1, 1, now)
	table.Upsert(2, 2, 2, now)

	snap := table.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len(Snapshot()) = %d, want 3", len(snap))
	}
	for i, want := range []int64{1, 2, 3} {
		if snap[i].SubjectID != want {
			t.Errorf("snap[%d].SubjectID = %d, want %d", i, snap[i].SubjectID, want)
		}
	}

	snap[0].Latitude = 99
	if rec, _ := table.Get(1); rec.Latitude != 1 {
		t.Error("mutating a snapshot changed the table")
	}
}

func TestSnapshotMap(t *testing.T) {
	t.Parallel()

	at := time.UnixMilli(1_772_000_000_123)
	table := NewTable(WithClock(fixedClock(at)))
	table.Commit(42, 39.75, -104.99, 1)

	m := table.SnapshotMap()
	entry, ok := m[42]
	if !ok {
		t.Fatal("subject 42 missing from snapshot map")
	}
	if entry.Timestamp != 1_772_000_000_123 {
		t.Errorf("Timestamp = %d", entry.Timestamp)
	}
}

func TestExpireOlderThan(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewTable()
	table.Upsert(1, 0, 0, base)
	table.Upsert(2, 0, 0, base.Add(10*time.Minute))
	table.Upsert(3, 0, 0, base.Add(-time.Minute))

	removed := table.ExpireOlderThan(base.Add(time.Minute))
	if len(removed) != 2 || removed[0] != 1 || removed[1] != 3 {
		t.Errorf("removed = %v, want [1 3]", removed)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}
	if _, ok := table.Get(2); !ok {
		t.Error("fresh record 2 was removed")
	}
}

// Each writer commits lat == lng; a snapshot must never see them differ.
func TestSnapshotNeverTorn(t *testing.T) {
	t.Parallel()

	table := NewTable()
	const writers = 8
	const perWriter = 500

	var wg sync.WaitGroup
	var seq sync.Mutex
	var next uint64

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				seq.Lock()
				next++
				ticket := next
				seq.Unlock()
				v := float64(w*perWriter + i)
				table.Commit(int64(i%4), v, v, ticket)
			}
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	for {
		for _, rec := range table.Snapshot() {
			if rec.Latitude != rec.Longitude {
				t.Fatalf("torn record for subject %d: lat=%v lng=%v", rec.SubjectID, rec.Latitude, rec.Longitude)
			}
		}
		select {
		case <-done:
			if table.Len() != 4 {
				t.Errorf("Len() = %d, want 4", table.Len())
			}
			return
		default:
		}
	}
}

func TestExpiredTicketCannotResurrect(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	table := NewTable(WithClock(func() time.Time { return now }))

	table.Commit(7, 1, 1, 5)
	now = now.Add(time.Hour)
	if removed := table.ExpireOlderThan(now.Add(-time.Minute)); len(removed) != 1 {
		t.Fatalf("removed = %v, want [7]", removed)
	}

	if _, applied := table.Commit(7, 2, 2, 4); applied {
		t.Error("ticket older than the expired record was applied")
	}
	if _, ok := table.Get(7); ok {
		t.Error("expired subject reappeared")
	}

	if _, applied := table.Commit(7, 3, 3, 6); !applied {
		t.Error("newer ticket after expiry was not applied")
	}
}

func TestUpsertKeepsTicketForCommit(t *testing.T) {
	t.Parallel()

	table := NewTable()
	if _, ok := table.Commit(42, 1, 1, 5); !ok {
		t.Fatal("Commit(seq 5) not applied")
	}

	seeded := table.Upsert(42, 2, 2, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if seeded.Seq != 5 {
		t.Errorf("Upsert Seq = %d, want stored ticket 5", seeded.Seq)
	}

	if _, ok := table.Commit(42, 3, 3, 4); ok {
		t.Error("Commit(seq 4) applied after Upsert, want rejected")
	}
	rec, ok := table.Commit(42, 4, 4, 6)
	if !ok || rec.Latitude != 4 || rec.Seq != 6 {
		t.Errorf("Commit(seq 6) = %+v,%v, want applied", rec, ok)
	}
}
