package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/gateway"
	"requester-dashboard/internal/metrics"
)

func main() {
	os.Exit(exitCode(newRootCmd(config.Parse).Execute()))
}

// configError marks a configuration failure; the process exits with status 2.
type configError struct{ err error }

func (e *configError) Error() string { return "config error: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ce *configError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &ce):
		return 2
	default:
		return 1
	}
}

// newRootCmd reads configuration with load before any subcommand runs. Each
// subcommand then validates only the settings it uses, so help and the client
// commands are not blocked by server-only settings.
func newRootCmd(load func() (config.Config, error)) *cobra.Command {
	cfg := new(config.Config)
	cmd := &cobra.Command{
		Use:          "requester-dashboard",
		Short:        "Dashboard for filing and tracking procurement requests",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := load()
			if err != nil {
				return &configError{err}
			}
			*cfg = c
			return nil
		},
	}
	cmd.AddCommand(
		newServeCmd(cfg),
		newListCmd(cfg),
		newSubmitCmd(cfg),
	)
	return cmd
}

func validateServer(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return &configError{err}
	}
	return nil
}

func validateClient(cfg *config.Config) error {
	if err := cfg.ValidateClient(); err != nil {
		return &configError{err}
	}
	return nil
}

func newGateway(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*gateway.Client, error) {
	return gateway.NewClient(cfg.BackendURL,
		gateway.WithTimeout(cfg.BackendTimeout),
		gateway.WithRequestIDHeader(cfg.RequestIDHeader),
		gateway.WithLogger(logger),
		gateway.WithMetrics(m),
	)
}

func newLogger(level string, w io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	switch strings.ToLower(level) {
	case "debug":
		lvl.Set(slog.LevelDebug)
	case "warn", "warning":
		lvl.Set(slog.LevelWarn)
	case "error":
		lvl.Set(slog.LevelError)
	default:
		lvl.Set(slog.LevelInfo)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h)
}

func logConfig(logger *slog.Logger, cfg config.Config) {
	timeout := "none"
	if cfg.BackendTimeout > 0 {
		timeout = cfg.BackendTimeout.String()
	}
	logger.Info("configuration",
		"listen_addr", cfg.ListenAddr,
		"backend_url", cfg.BackendURL,
		"backend_timeout", timeout,
		"request_id_header", cfg.RequestIDHeader,
		"storage", string(cfg.Storage),
		"storage_path", cfg.StoragePath,
		"storage_max_rows", cfg.StorageMaxRows,
		"session_ttl", cfg.SessionTTL,
		"max_sessions", cfg.MaxSessions,
		"max_upload_memory", cfg.MaxUploadMemory.String(),
		"cors_allow_origin", cfg.CORSAllowOrigin,
		"metrics_enabled", cfg.MetricsEnabled,
		"log_level", cfg.LogLevel,
	)
}
