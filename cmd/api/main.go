package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/api/handler"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/config"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/database"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/face"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/metrics"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/provider"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/repository"
	"github.com/prathamm-k/IDentifyMe-FaceRecognition-App/internal/service"
)

// version is set by -ldflags at build time.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting IDentifyMe API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("gallery_backend", cfg.GalleryBackend),
		slog.String("encoder", cfg.Encoder),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	enc, err := face.NewEncoder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create encoder: %w", err)
	}
	enc = m.InstrumentEncoder(enc)
	defer func() {
		if c, ok := enc.(provider.Closer); ok {
			_ = c.Close()
		}
	}()

	store, err := face.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open gallery store: %w", err)
	}
	defer func() {
		if c, ok := store.(io.Closer); ok {
			_ = c.Close()
		}
	}()

	agg := metrics.NewAggregator(store, m, logger, cfg.MetricsSampleInterval)
	go agg.Start(ctx)
	defer agg.Stop()

	router := api.NewRouter(logger, &api.Dependencies{
		Config:     cfg,
		Gallery:    service.NewGalleryManager(store, enc),
		Recognizer: service.NewRecognizer(store, enc),
		Metrics:    m,
		Checks:     readinessChecks(cfg.GalleryBackend, store, enc),
		Version:    version,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down server...")
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(10 * time.Second):
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}

// readinessChecks reports the gallery as ready once a snapshot has been saved
// and the backing services answer.
func readinessChecks(backend string, store repository.GalleryStore, enc provider.Encoder) []handler.Check {
	checks := []handler.Check{{
		Name: "gallery",
		Ping: func(ctx context.Context) error {
			_, err := store.Load(ctx)
			return err
		},
	}}
	if p, ok := store.(provider.HealthChecker); ok {
		ping := p.Ping
		if backend == config.BackendPostgres {
			ping = func(ctx context.Context) error { return database.HealthCheck(ctx, p) }
		}
		checks = append(checks, handler.Check{Name: "storage", Ping: ping})
	}
	if p, ok := enc.(provider.HealthChecker); ok {
		checks = append(checks, handler.Check{Name: "encoder", Ping: p.Ping})
	}
	return checks
}
