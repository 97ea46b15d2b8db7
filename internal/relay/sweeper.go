// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package relay

import (
	"context"
	"time"

	"github.com/tomtom215/fleetrelay/internal/logging"
)

// Sweeper periodically expires records older than StaleAfter.
type Sweeper struct {
	relay      *Relay
	staleAfter time.Duration
	interval   time.Duration
}

// NewSweeper creates a sweeper. interval defaults to staleAfter/2 when unset.
func NewSweeper(r *Relay, staleAfter, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = staleAfter / 2
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Sweeper{relay: r, staleAfter: staleAfter, interval: interval}
}

// RunWithContext sweeps every interval until ctx is canceled.
func (s *Sweeper) RunWithContext(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log := logging.WithComponent("location-sweeper")
	log.Info().
		Dur("stale_after", s.staleAfter).
		Dur("interval", s.interval).
		Msg("location sweeper started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("location sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.relay.ExpireStale(s.staleAfter)
		}
	}
}
