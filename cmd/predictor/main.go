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

	"go.uber.org/zap"

	"fare/internal/app"
	"fare/internal/config"
	"fare/internal/handler"
)

// The predictor serves the prediction contract used by remote mode,
// priced with the local formula. It stands in for the model service in
// development and end-to-end tests.
func main() {
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

	router := app.NewRouter(app.RouterDeps{
		PredictHandler: handler.NewPredictHandler(app.NewLocalEstimator(cfg.Pricing), log),
		Logger:         log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Predictor.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting predictor", zap.String("port", cfg.Predictor.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("predictor error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("predictor forced to shutdown", zap.Error(err))
	}
}
