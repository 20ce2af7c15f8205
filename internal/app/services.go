package app

import (
	"go.uber.org/zap"

	"fare/internal/config"
	"fare/internal/service"
)

// NewLocalEstimator builds the formula-based estimator from pricing config.
func NewLocalEstimator(cfg config.PricingConfig) *service.LocalEstimator {
	windows := make([]service.HourWindow, 0, len(cfg.PeakWindows))
	for _, w := range cfg.PeakWindows {
		windows = append(windows, service.HourWindow{Start: w.Start, End: w.End})
	}

	opts := []service.LocalOption{}
	if cfg.Location != nil {
		opts = append(opts, service.WithLocation(cfg.Location))
	}

	return service.NewLocalEstimator(
		service.NewTravelTimeEstimator(cfg.AverageSpeedKmh),
		service.NewSurgePolicy(service.SurgeConfig{
			PeakWindows:    windows,
			PeakMultiplier: cfg.SurgeMultiplier,
		}),
		service.NewFareCalculator(service.FareRates{
			BaseFare:  cfg.BaseFare,
			PerKm:     cfg.PerKm,
			PerMinute: cfg.PerMinute,
		}),
		opts...,
	)
}

// NewFareService builds the strategy selector. The remote strategy is only
// available when a prediction URL is configured.
func NewFareService(cfg *config.Config, log *zap.Logger) *service.FareService {
	local := NewLocalEstimator(cfg.Pricing)

	var remote service.Estimator
	if cfg.Prediction.URL != "" {
		remote = service.NewRemoteEstimator(
			cfg.Prediction.URL,
			cfg.Prediction.Timeout,
			service.NewTravelTimeEstimator(cfg.Pricing.AverageSpeedKmh),
			nil,
			log.Named("remote"),
		)
	}

	return service.NewFareService(local, remote, service.Mode(cfg.Prediction.Mode), log)
}
