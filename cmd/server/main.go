package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/core"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/logging"
	"github.com/JonMunkholm/vidsheet/internal/metrics"
	"github.com/JonMunkholm/vidsheet/internal/source"
	"github.com/JonMunkholm/vidsheet/internal/store"
	"github.com/JonMunkholm/vidsheet/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"store_driver", cfg.Store.Driver,
		"refresh_interval", cfg.Source.RefreshInterval,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	fetcher, err := source.NewHTTPFetcher(source.Options{
		URL:          cfg.Source.SheetURL,
		Timeout:      cfg.Source.Timeout,
		UserAgent:    cfg.Source.UserAgent,
		MaxBodySize:  cfg.Source.MaxBodySize,
		MaxRedirects: cfg.Source.MaxRedirects,
		CacheBust:    cfg.Source.CacheBust,
	})
	if err != nil {
		slog.Error("failed to create sheet fetcher", "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	ingestOpts := ingest.DefaultOptions()
	ingestOpts.HeaderScanRows = cfg.Source.HeaderScanRows

	service := core.NewService(fetcher, st, core.Options{
		Ingest:  ingestOpts,
		Metrics: m,
	})

	// Serve the last stored snapshot until the first fetch lands.
	if err := service.Warm(ctx); err != nil {
		slog.Warn("could not restore snapshot", "error", err)
	}

	go service.StartRefreshScheduler(ctx, cfg.Source.RefreshInterval)

	server := web.NewServer(service, cfg, m)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
			st.Close()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	if err := service.DrainPreviews(shutdownCtx); err != nil {
		slog.Warn("previews did not complete in time", "error", err)
	}

	slog.Info("server stopped")
}
