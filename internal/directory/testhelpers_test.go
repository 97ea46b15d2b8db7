// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "error", Output: io.Discard})
}

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}

	store, err := NewBadgerStore(db)
	if err != nil {
		_ = db.Close()
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// countingResolver answers from a fixed map and counts calls.
type countingResolver struct {
	drivers map[int64]models.DisplayIdentity
	err     error
	calls   atomic.Int64
}

func (r *countingResolver) Lookup(_ context.Context, id int64) (models.DisplayIdentity, error) {
	r.calls.Add(1)
	if r.err != nil {
		return models.DisplayIdentity{}, r.err
	}
	ident, ok := r.drivers[id]
	if !ok {
		return models.DisplayIdentity{}, ErrNotFound
	}
	return ident, nil
}
