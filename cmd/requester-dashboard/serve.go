package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/journal"
	"requester-dashboard/internal/metrics"
	"requester-dashboard/internal/web"
)

const sessionSweepInterval = time.Minute

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateServer(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *cfg, newLogger(cfg.LogLevel, os.Stdout))
		},
	}
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logConfig(logger, cfg)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	gw, err := newGateway(cfg, logger, m)
	if err != nil {
		logger.Error("failed to create backend client", "err", err)
		return err
	}

	store := journal.Open(string(cfg.Storage), cfg.StoragePath, cfg.StorageMaxRows, logger)
	if store != nil {
		defer store.Close()
	}

	registry := dashboard.NewRegistry(dashboard.Deps{
		Gateway: gw,
		Journal: store,
		Metrics: m,
		Logger:  logger,
	}, cfg.SessionTTL, cfg.MaxSessions)

	ui, err := web.NewServer(cfg, registry, store, logger)
	if err != nil {
		logger.Error("failed to build web server", "err", err)
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           ui.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go registry.Run(ctx, sessionSweepInterval)

	logger.Info("starting requester-dashboard", "listen", cfg.ListenAddr, "backend", cfg.BackendURL)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server error", "err", err)
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
