// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package api

import (
	"context"
	"time"

	"github.com/tomtom215/fleetrelay/internal/auth"
	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/location"
	"github.com/tomtom215/fleetrelay/internal/models"
	ws "github.com/tomtom215/fleetrelay/internal/websocket"
)

// DriverStore is the persistent side of the driver directory.
type DriverStore interface {
	Create(ctx context.Context, d *models.Driver) error
	FindByUsername(ctx context.Context, username string) (*models.Driver, error)
	List(ctx context.Context) ([]models.Driver, error)
	Ping(ctx context.Context) error
}

// Handler serves every HTTP endpoint.
type Handler struct {
	config     *config.Config
	store      DriverStore
	jwtManager *auth.JWTManager
	table      *location.Table
	wsHub      *ws.Hub
	processor  ws.ReportProcessor
	clientOpts ws.ClientOptions
	startTime  time.Time
}

// NewHandler creates a Handler. processor may be nil, in which case
// websocket connections can observe but not report.
func NewHandler(
	cfg *config.Config,
	store DriverStore,
	jwtManager *auth.JWTManager,
	table *location.Table,
	wsHub *ws.Hub,
	processor ws.ReportProcessor,
) *Handler {
	return &Handler{
		config:     cfg,
		store:      store,
		jwtManager: jwtManager,
		table:      table,
		wsHub:      wsHub,
		processor:  processor,
		clientOpts: ws.ClientOptionsFrom(&cfg.Relay),
		startTime:  time.Now(),
	}
}
