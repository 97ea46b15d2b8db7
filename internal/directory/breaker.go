// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/metrics"
	"github.com/tomtom215/fleetrelay/internal/models"
)

// BreakerConfig configures the directory circuit breaker.
type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

// BreakerConfigFrom derives breaker settings from the directory configuration.
func BreakerConfigFrom(cfg *config.DirectoryConfig) BreakerConfig {
	return BreakerConfig{
		Name:         "driver-directory",
		MaxRequests:  cfg.BreakerMaxRequests,
		Interval:     cfg.BreakerInterval,
		Timeout:      cfg.BreakerTimeout,
		FailureRatio: cfg.BreakerFailureRatio,
		MinRequests:  cfg.BreakerMinRequests,
	}
}

// BreakerDirectory guards a Resolver with a circuit breaker. While the
// breaker is open lookups fail fast with ErrUnavailable.
type BreakerDirectory struct {
	next Resolver
	cb   *gobreaker.CircuitBreaker[models.DisplayIdentity]
	name string
}

// NewBreakerDirectory wraps next.
func NewBreakerDirectory(next Resolver, cfg BreakerConfig) *BreakerDirectory {
	if cfg.Name == "" {
		cfg.Name = "driver-directory"
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = 1
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[models.DisplayIdentity](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", cfg.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		// NotFound and caller cancellation do not count as failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerDirectory{next: next, cb: cb, name: cfg.Name}
}

// Lookup resolves subjectID through the breaker. ErrNotFound passes through
// unchanged; every other failure wraps ErrUnavailable.
func (b *BreakerDirectory) Lookup(ctx context.Context, subjectID int64) (models.DisplayIdentity, error) {
	ident, err := b.cb.Execute(func() (models.DisplayIdentity, error) {
		return b.next.Lookup(ctx, subjectID)
	})

	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return ident, nil
	case errors.Is(err, ErrNotFound):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return models.DisplayIdentity{}, err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return models.DisplayIdentity{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		if errors.Is(err, ErrUnavailable) {
			return models.DisplayIdentity{}, err
		}
		return models.DisplayIdentity{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerDirectory) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
