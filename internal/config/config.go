package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv     string
	Server     ServerConfig
	Log        LogConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	Pricing    PricingConfig
	Prediction PredictionConfig
	Predictor  PredictorConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level string
}

// RedisConfig holds Redis configuration. When disabled, sessions are tracked in memory.
type RedisConfig struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// PeakWindow is an inclusive range of hours of the day.
type PeakWindow struct {
	Start int
	End   int
}

// PricingConfig holds the local fare formula parameters.
type PricingConfig struct {
	BaseFare        float64
	PerKm           float64
	PerMinute       float64
	AverageSpeedKmh float64
	SurgeMultiplier float64
	PeakWindows     []PeakWindow
	// Location is the time zone in which the hour of day is read for surge.
	Location *time.Location
}

// PredictionConfig holds remote estimation configuration.
type PredictionConfig struct {
	// Mode is the default estimation mode, "local" or "remote".
	Mode    string
	URL     string
	Timeout time.Duration
}

// PredictorConfig holds configuration for the reference prediction service.
type PredictorConfig struct {
	Port string
}

const defaultPeakHours = "7-9,17-19"

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	windows, err := ParsePeakWindows(getEnv("SURGE_PEAK_HOURS", defaultPeakHours))
	if err != nil {
		return nil, fmt.Errorf("SURGE_PEAK_HOURS: %w", err)
	}

	loc, err := time.LoadLocation(getEnv("SURGE_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("SURGE_TIMEZONE: %w", err)
	}

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Enabled:    getBoolEnv("REDIS_ENABLED", false),
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getIntEnv("REDIS_DB", 0),
			SessionTTL: getDurationEnv("SESSION_TTL", 10*time.Minute),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "fare-estimator"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		Pricing: PricingConfig{
			BaseFare:        getFloatEnv("FARE_BASE", 3.0),
			PerKm:           getFloatEnv("FARE_PER_KM", 1.5),
			PerMinute:       getFloatEnv("FARE_PER_MINUTE", 0.25),
			AverageSpeedKmh: getFloatEnv("FARE_AVERAGE_SPEED_KMH", 40.0),
			SurgeMultiplier: getFloatEnv("SURGE_MULTIPLIER", 1.5),
			PeakWindows:     windows,
			Location:        loc,
		},
		Prediction: PredictionConfig{
			Mode:    strings.ToLower(getEnv("ESTIMATOR_MODE", "local")),
			URL:     getEnv("PREDICTION_URL", ""),
			Timeout: getDurationEnv("PREDICTION_TIMEOUT", 5*time.Second),
		},
		Predictor: PredictorConfig{
			Port: getEnv("PREDICTOR_PORT", "5000"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a usable estimator.
func (c *Config) Validate() error {
	var errs []error

	p := c.Pricing
	if p.BaseFare < 0 {
		errs = append(errs, errors.New("FARE_BASE must not be negative"))
	}
	if p.PerKm <= 0 {
		errs = append(errs, errors.New("FARE_PER_KM must be positive"))
	}
	if p.PerMinute <= 0 {
		errs = append(errs, errors.New("FARE_PER_MINUTE must be positive"))
	}
	if p.AverageSpeedKmh <= 0 {
		errs = append(errs, errors.New("FARE_AVERAGE_SPEED_KMH must be positive"))
	}
	if p.SurgeMultiplier < 1 {
		errs = append(errs, errors.New("SURGE_MULTIPLIER must be at least 1"))
	}

	switch c.Prediction.Mode {
	case "local":
	case "remote":
		if c.Prediction.URL == "" {
			errs = append(errs, errors.New("PREDICTION_URL is required when ESTIMATOR_MODE is remote"))
		}
	default:
		errs = append(errs, fmt.Errorf("ESTIMATOR_MODE %q is not one of local, remote", c.Prediction.Mode))
	}
	if c.Prediction.Timeout <= 0 {
		errs = append(errs, errors.New("PREDICTION_TIMEOUT must be positive"))
	}

	return errors.Join(errs...)
}

// ParsePeakWindows parses a comma separated list of inclusive hour ranges
// such as "7-9,17-19". A single hour ("22") is a one-hour window. An empty
// string means no peak hours.
func ParsePeakWindows(text string) ([]PeakWindow, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var windows []PeakWindow
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		startText, endText, isRange := strings.Cut(part, "-")
		if !isRange {
			endText = startText
		}

		start, err := parseHour(startText)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", part, err)
		}
		end, err := parseHour(endText)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", part, err)
		}
		if start > end {
			return nil, fmt.Errorf("window %q: start after end", part)
		}
		windows = append(windows, PeakWindow{Start: start, End: end})
	}
	return windows, nil
}

func parseHour(text string) (int, error) {
	hour, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("invalid hour %q", text)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("hour %d out of range 0-23", hour)
	}
	return hour, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
