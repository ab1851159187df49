// Bookmatch - Content-Based Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookmatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/bookmatch/internal/api"
	"github.com/tomtom215/bookmatch/internal/auth"
	"github.com/tomtom215/bookmatch/internal/config"
	"github.com/tomtom215/bookmatch/internal/logging"
	"github.com/tomtom215/bookmatch/internal/supervisor"
	"github.com/tomtom215/bookmatch/internal/supervisor/services"
)

var _ api.Rebuilder = (*services.IndexService)(nil)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})
	logging.Info().Str("config", cfg.String()).Msg("Starting Bookmatch")

	watchConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := initSnapshotStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open snapshot store")
	}
	if snapshots != nil {
		defer func() {
			if err := snapshots.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot store")
			}
		}()
	}

	popular, err := initPopularity(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize popularity store")
	}
	if popular != nil {
		defer func() {
			if err := popular.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing popularity store")
			}
		}()
	}

	components, err := initRecommend(cfg, snapshots, popular)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	audit := logging.NewAuditLogger()
	guard := initGuard(cfg, audit)

	deps := api.HandlerDeps{
		Rebuilder:      components.Service,
		Audit:          audit,
		RequestTimeout: cfg.Server.Timeout,
	}
	if popular != nil {
		deps.Popularity = popular
	}
	handler := api.NewHandler(components.Engine, deps)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)), guard)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(components.Service)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Component("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Bookmatch stopped")
}

// initGuard protects the admin endpoints when a JWT secret is configured.
func initGuard(cfg *config.Config, audit *logging.AuditLogger) *auth.Middleware {
	if !cfg.AuthEnabled() {
		logging.Warn().Msg("JWT_SECRET is not set: index rebuild and invalidate endpoints are open")
		return auth.NewMiddleware(nil, audit, api.WriteError)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	logging.Info().Msg("JWT authentication enabled for admin endpoints")
	return auth.NewMiddleware(jwtManager, audit, api.WriteError)
}

// watchConfig applies log level changes from the config file without a
// restart. Everything else needs a restart.
func watchConfig() {
	path := config.ConfigFile()
	if path == "" {
		return
	}

	err := config.WatchConfigFile(path, func() {
		reloaded, err := config.LoadFrom(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		logging.SetLevelString(reloaded.Logging.Level)
		logging.Info().Str("level", reloaded.Logging.Level).Msg("Log level reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}
