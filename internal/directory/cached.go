// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"time"

	"github.com/tomtom215/fleetrelay/internal/cache"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

// CachedDirectory caches successful lookups. Misses and errors are never
// cached, so a driver registered after a NotFound is seen on the next report.
type CachedDirectory struct {
	next  Resolver
	cache *cache.LRU[int64, models.DisplayIdentity]
}

// NewCachedDirectory wraps next with an LRU of size entries, each kept for ttl.
func NewCachedDirectory(next Resolver, size int, ttl time.Duration) *CachedDirectory {
	return &CachedDirectory{
		next:  next,
		cache: cache.NewLRU[int64, models.DisplayIdentity](size, ttl),
	}
}

// Lookup returns the cached identity or asks the next resolver.
func (c *CachedDirectory) Lookup(ctx context.Context, subjectID int64) (models.DisplayIdentity, error) {
	if ident, ok := c.cache.Get(subjectID); ok {
		metrics.DirectoryCacheHits.Inc()
		return ident, nil
	}
	metrics.DirectoryCacheMisses.Inc()

	ident, err := c.next.Lookup(ctx, subjectID)
	if err != nil {
		return models.DisplayIdentity{}, err
	}
	c.cache.Add(subjectID, ident)
	return ident, nil
}

// Invalidate drops subjectID from the cache.
func (c *CachedDirectory) Invalidate(subjectID int64) {
	c.cache.Remove(subjectID)
}

// Stats returns cache hit and miss counts and the current size.
func (c *CachedDirectory) Stats() (hits, misses int64, size int) {
	return c.cache.Stats()
}
