// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"errors"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/models"
)

var (
	// ErrNotFound is returned when no driver has the requested id or username.
	ErrNotFound = errors.New("driver not found")

	// ErrUnavailable is returned when the directory cannot answer right now.
	ErrUnavailable = errors.New("driver directory unavailable")

	// ErrConflict is returned when a username is already registered.
	ErrConflict = errors.New("driver username already exists")
)

// Resolver resolves a subject id to the name shown on the dashboard.
type Resolver interface {
	Lookup(ctx context.Context, subjectID int64) (models.DisplayIdentity, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, subjectID int64) (models.DisplayIdentity, error)

// Lookup calls f.
func (f ResolverFunc) Lookup(ctx context.Context, subjectID int64) (models.DisplayIdentity, error) {
	return f(ctx, subjectID)
}

// New builds the full lookup chain over store.
//
//	resolver := directory.New(store, &cfg.Directory)
func New(store Resolver, cfg *config.DirectoryConfig) *CachedDirectory {
	return NewCachedDirectory(NewBreakerDirectory(store, BreakerConfigFrom(cfg)), cfg.CacheSize, cfg.CacheTTL)
}
