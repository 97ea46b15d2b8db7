// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

func TestCachedDirectory_CachesHits(t *testing.T) {
	next := &countingResolver{drivers: map[int64]models.DisplayIdentity{42: {FirstName: "Jane", LastName: "Doe"}}}
	c := NewCachedDirectory(next, 10, time.Minute)
	ctx := context.Background()

	hitsBefore := testutil.ToFloat64(metrics.DirectoryCacheHits)

	for i := 0; i < 3; i++ {
		ident, err := c.Lookup(ctx, 42)
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if ident.LastName != "Doe" {
			t.Errorf("Lookup() = %+v", ident)
		}
	}

	if got := next.calls.Load(); got != 1 {
		t.Errorf("store calls = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.DirectoryCacheHits) - hitsBefore; got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}
}

func TestCachedDirectory_DoesNotCacheMisses(t *testing.T) {
	next := &countingResolver{drivers: map[int64]models.DisplayIdentity{}}
	c := NewCachedDirectory(next, 10, time.Minute)
	ctx := context.Background()

	if _, err := c.Lookup(ctx, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Lookup() = %v, want ErrNotFound", err)
	}

	// Driver registered after the first miss.
	next.drivers = map[int64]models.DisplayIdentity{5: {FirstName: "New", LastName: "Driver"}}
	ident, err := c.Lookup(ctx, 5)
	if err != nil {
		t.Fatalf("Lookup() after registration error = %v", err)
	}
	if ident.FirstName != "New" {
		t.Errorf("Lookup() = %+v", ident)
	}
}

func TestCachedDirectory_Invalidate(t *testing.T) {
	next := &countingResolver{drivers: map[int64]models.DisplayIdentity{1: {FirstName: "A", LastName: "B"}}}
	c := NewCachedDirectory(next, 10, time.Minute)
	ctx := context.Background()

	_, _ = c.Lookup(ctx, 1)
	c.Invalidate(1)
	_, _ = c.Lookup(ctx, 1)

	if got := next.calls.Load(); got != 2 {
		t.Errorf("store calls = %d, want 2", got)
	}
}

func TestNew_FullChainOverBadger(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d := &models.Driver{FirstName: "Jane", LastName: "Doe", MdtUsername: "jdoe"}
	if err := store.Create(ctx, d); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	resolver := New(store, &config.DirectoryConfig{
		CacheSize:           100,
		CacheTTL:            time.Minute,
		BreakerMaxRequests:  1,
		BreakerInterval:     time.Minute,
		BreakerTimeout:      time.Second,
		BreakerFailureRatio: 0.6,
		BreakerMinRequests:  5,
	})

	ident, err := resolver.Lookup(ctx, d.ID)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if ident != (models.DisplayIdentity{FirstName: "Jane", LastName: "Doe"}) {
		t.Errorf("Lookup() = %+v", ident)
	}
	if _, err := resolver.Lookup(ctx, d.ID+1); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(missing) = %v, want ErrNotFound", err)
	}
}
