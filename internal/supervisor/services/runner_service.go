// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package services

import (
	"context"
)

// ContextRunner is anything with a blocking, context-bound run loop.
// Satisfied by *websocket.Hub and *relay.Sweeper.
type ContextRunner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService adapts a ContextRunner to suture.Service with a name for
// supervisor logs.
type RunnerService struct {
	runner ContextRunner
	name   string
}

// NewWebSocketHubService wraps the websocket hub.
func NewWebSocketHubService(hub ContextRunner) *RunnerService {
	return &RunnerService{runner: hub, name: "websocket-hub"}
}

// NewSweeperService wraps the stale location sweeper.
func NewSweeperService(sweeper ContextRunner) *RunnerService {
	return &RunnerService{runner: sweeper, name: "location-sweeper"}
}

// Serve implements suture.Service.
func (s *RunnerService) Serve(ctx context.Context) error {
	return s.runner.RunWithContext(ctx)
}

// String names the service in supervisor logs.
func (s *RunnerService) String() string {
	return s.name
}
