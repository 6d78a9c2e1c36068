package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/brianvoe/gofakeit/v6"

	"unilang/internal/app"
	"unilang/internal/config"
	"unilang/internal/dataset"
	"unilang/internal/domain"
	"unilang/internal/translate"
	httpTransport "unilang/internal/transport/http"
)

//go:embed web
var embedded embed.FS

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting unilang server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"dataset", cfg.Dataset.Path,
	)

	// Load the translation table
	table, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Error("failed to load dataset", "path", cfg.Dataset.Path, "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded", "entries", table.Len(), "languages", table.Targets())

	lookup, err := translate.New(table, gofakeit.New(cfg.Translate.Seed), translate.Options{
		FallbackCacheSize: cfg.Translate.FallbackCacheSize,
	})
	if err != nil {
		logger.Error("failed to build lookup", "error", err)
		os.Exit(1)
	}
	defer lookup.Close()

	// Create session hub
	hub := app.NewSessionHub(lookup, app.HubConfig{
		Session: app.SessionOptions{
			TopCountries: cfg.Session.TopCountries,
			Preload:      cfg.Session.Preload,
			Catalog:      domain.DefaultCatalog(),
		},
		Seed:            cfg.Session.Seed,
		IdleTimeout:     cfg.Session.IdleTimeout,
		CleanupInterval: cfg.Session.CleanupInterval,
	}, logger)
	defer hub.Close()

	webFS, err := fs.Sub(embedded, "web")
	if err != nil {
		logger.Error("failed to open web assets", "error", err)
		os.Exit(1)
	}

	// Create HTTP server
	server := httpTransport.NewServer(cfg, hub, lookup, logger, webFS)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func newLogger(cfg config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
