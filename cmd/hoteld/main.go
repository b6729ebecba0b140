package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"hotel-ops-backend/config"
	"hotel-ops-backend/internal/api"
	"hotel-ops-backend/internal/db"
	"hotel-ops-backend/internal/logging"
	"hotel-ops-backend/internal/metrics"
	"hotel-ops-backend/internal/monitor"
	"hotel-ops-backend/internal/notification"
	"hotel-ops-backend/internal/seed"
	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration from %s: %v\n", configPath, err)
		os.Exit(1)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	metrics.Register()

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, logging.Component(logger, "db"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Seed.Enabled {
		if _, err := seed.Run(ctx, appStore, time.Now().UTC(), logging.Component(logger, "seed")); err != nil {
			logger.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	webpushOptions := webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	notifier := startNotifier(ctx, cfg, appStore, &webpushOptions, logger)

	svc := service.New(appStore, notifier, logging.Component(logger, "service"))

	monitorSvc := monitor.NewService(cfg.Monitor, appStore, notifier, svc.Now, logging.Component(logger, "monitor"))
	go monitorSvc.Run(ctx)

	var vapid *webpush.Options
	if cfg.Push.Enabled() {
		vapid = &webpushOptions
	}
	handler := api.NewHandler(svc, appStore, vapid, logging.Component(logger, "api"))
	router := api.NewRouter(handler, cfg.Server, logging.Component(logger, "http"))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server Shutdown")
		return
	}

	logger.Info().Msg("server gracefully stopped")
}

// startNotifier runs the web push workers, or discards notices when no VAPID
// keys are configured.
func startNotifier(ctx context.Context, cfg *config.Config, st store.Store, opts *webpush.Options, logger *zerolog.Logger) notification.Notifier {
	if !cfg.Push.Enabled() {
		logger.Warn().Msg("VAPID keys not configured, push notifications disabled")
		return notification.Discard{}
	}
	pool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, st, opts, logging.Component(logger, "push"))
	pool.Start(ctx)
	return pool
}
