// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fleetrelay/internal/api"
	"github.com/tomtom215/fleetrelay/internal/auth"
	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/directory"
	"github.com/tomtom215/fleetrelay/internal/location"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/relay"
	"github.com/tomtom215/fleetrelay/internal/supervisor"
	"github.com/tomtom215/fleetrelay/internal/supervisor/services"
	ws "github.com/tomtom215/fleetrelay/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Bool("directory_in_memory", cfg.Directory.InMemory).
		Dur("stale_after", cfg.Relay.StaleAfter).
		Msg("Starting Fleetrelay")

	if !cfg.IsProduction() {
		for _, origin := range cfg.Security.CORSOrigins {
			if origin == "*" {
				logging.Warn().Msg("CORS_ORIGINS is '*': any website may open a dashboard connection")
				break
			}
		}
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	store, err := directory.OpenBadgerStore(&cfg.Directory)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open driver directory")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing driver directory")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	table := location.NewTable()
	wsHub := ws.NewHub(ws.WithSnapshot(func() interface{} { return table.SnapshotMap() }))
	relayer := relay.New(jwtManager, directory.New(store, &cfg.Directory), table, wsHub)

	handler := api.NewHandler(cfg, store, jwtManager, table, wsHub, relayer)
	router := api.NewRouter(handler)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: 10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// ReadTimeout and WriteTimeout are not set: they would apply to hijacked
	// websocket connections. The client pumps manage their own deadlines.
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	if cfg.Relay.StaleAfter > 0 {
		sweeper := relay.NewSweeper(relayer, cfg.Relay.StaleAfter, cfg.Relay.SweepInterval)
		tree.AddMessagingService(services.NewSweeperService(sweeper))
		logging.Info().
			Dur("stale_after", cfg.Relay.StaleAfter).
			Msg("Stale location sweeper enabled")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree stopped with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}

	logging.Info().
		Int("tracked_subjects", table.Len()).
		Msg("Fleetrelay stopped")
}
