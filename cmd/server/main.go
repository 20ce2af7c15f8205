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

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fare/internal/app"
	"fare/internal/config"
	"fare/internal/handler"
	internalRedis "fare/internal/redis"
	"fare/internal/service"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg.AppEnv, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so Redis can be instrumented.
	nrApp := app.NewNewRelic(cfg.NewRelic, log)
	if nrApp != nil {
		defer nrApp.Shutdown(5 * time.Second)
	}

	// Redis is optional; without it sessions are tracked in process.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("connected to redis", zap.String("addr", cfg.Redis.Addr))
	}

	server := wireServer(redisClient, nrApp, cfg, log)

	// Start server in goroutine.
	go func() {
		log.Info("starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("default_mode", cfg.Prediction.Mode),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log *zap.Logger) *http.Server {
	var tracker service.Tracker
	if redisClient != nil {
		tracker = internalRedis.NewRequestTracker(redisClient, cfg.Redis.SessionTTL)
	} else {
		tracker = service.NewMemoryTracker(cfg.Redis.SessionTTL)
	}

	// Initialize services.
	fareService := app.NewFareService(cfg, log)
	sessions := service.NewSessionEstimator(fareService, tracker, log)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		FareHandler:   handler.NewFareHandler(sessions, log),
		StreamHandler: handler.NewStreamHandler(sessions, log),
		Logger:        log,
		NewRelicApp:   nrApp,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
