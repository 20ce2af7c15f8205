package app

import (
	"github.com/newrelic/go-agent/v3/newrelic"
	"go.uber.org/zap"

	"fare/internal/config"
)

// NewNewRelic starts the New Relic agent when it is enabled and licensed.
// A nil application disables instrumentation everywhere it is passed.
func NewNewRelic(cfg config.NewRelicConfig, log *zap.Logger) *newrelic.Application {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return nil
	}

	nrApp, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigDistributedTracerEnabled(true),
		newrelic.ConfigAppLogForwardingEnabled(true),
	)
	if err != nil {
		log.Warn("failed to initialize New Relic", zap.Error(err))
		return nil
	}

	log.Info("New Relic enabled", zap.String("app", cfg.AppName))
	return nrApp
}
