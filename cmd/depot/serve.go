// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/depot-store/depot/internal/auth"
	authpg "github.com/depot-store/depot/internal/auth/postgres"
	"github.com/depot-store/depot/internal/catalog"
	catalogpg "github.com/depot-store/depot/internal/catalog/postgres"
	"github.com/depot-store/depot/internal/config"
	"github.com/depot-store/depot/internal/health"
	"github.com/depot-store/depot/internal/httpapi"
	"github.com/depot-store/depot/internal/logging"
	"github.com/depot-store/depot/internal/observability"
	"github.com/depot-store/depot/internal/store"
)

// Timeout for draining in-flight requests on shutdown.
const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the storefront API server",
		Long: `Start the HTTP API server serving the product catalog,
sessions, and password resets, plus a separate metrics endpoint.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", config.DefaultAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics HTTP address (empty = disabled)")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("depot", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("starting storefront server", "addr", cfg.Addr, "log_format", cfg.LogFormat)

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "open migration source").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("closing migrator failed", "error", closeErr)
		}
	}()

	if pending, pendErr := migrator.PendingMigrations(); pendErr != nil {
		slog.Warn("could not determine pending migrations", "error", pendErr)
	} else if len(pending) > 0 {
		slog.Warn("database schema is behind, run 'depot migrate'", "pending", len(pending))
	}

	catalogSvc, err := catalog.NewService(catalogpg.NewProductRepository(pool))
	if err != nil {
		return err
	}

	hasher := auth.NewArgon2idHasher()
	authSvc, err := auth.NewService(authpg.NewUserRepository(pool), authpg.NewSessionRepository(pool), hasher)
	if err != nil {
		return err
	}

	signer, err := auth.NewResetTokenSigner([]byte(cfg.SecretKey))
	if err != nil {
		return err
	}
	resetSvc, err := auth.NewPasswordResetService(authpg.NewUserRepository(pool), signer, hasher)
	if err != nil {
		return err
	}

	opts := httpapi.Options{
		Addr:    cfg.Addr,
		Catalog: catalogSvc,
		Auth:    authSvc,
		Resets:  resetSvc,
		Health:  health.NewReporter(pool, migrator),
	}

	var metricsErrs <-chan error
	var metricsServer *observability.Server
	if cfg.MetricsAddr != "" {
		metricsServer = observability.NewServer(cfg.MetricsAddr)
		metricsErrs, err = metricsServer.Start()
		if err != nil {
			return oops.Code("METRICS_START_FAILED").With("operation", "start metrics server").Wrap(err)
		}
		opts.Metrics = metricsServer.Metrics()
		slog.Info("metrics server listening", "addr", metricsServer.Addr())
	}

	api, err := httpapi.NewServer(opts)
	if err != nil {
		return err
	}

	apiErrs, err := api.Start()
	if err != nil {
		return oops.Code("SERVER_START_FAILED").With("operation", "start API server").Wrap(err)
	}
	slog.Info("API server listening", "addr", api.Addr())

	// metricsErrs is nil when metrics are disabled; receiving from a nil
	// channel blocks forever, so that select arm never fires.
	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case runErr = <-apiErrs:
		slog.Error("API server failed", "error", runErr)
	case runErr = <-metricsErrs:
		slog.Error("metrics server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := api.Stop(shutdownCtx); stopErr != nil {
		slog.Warn("API server shutdown failed", "error", stopErr)
	}
	if metricsServer != nil {
		if stopErr := metricsServer.Stop(shutdownCtx); stopErr != nil {
			slog.Warn("metrics server shutdown failed", "error", stopErr)
		}
	}

	slog.Info("server stopped")
	return runErr
}
