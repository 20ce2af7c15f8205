package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"fare/internal/domain"
)

// Mode selects the estimation strategy.
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
)

// ParseMode parses a mode name case-insensitively. Empty text yields def.
func ParseMode(text string, def Mode) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(text))) {
	case "":
		return def, nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeRemote:
		return ModeRemote, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, text)
	}
}

// Estimator is the contract shared by every estimation strategy.
type Estimator interface {
	Estimate(ctx context.Context, req domain.RideRequest) (*domain.FareQuote, error)
}

// Ensure both strategies implement Estimator.
var (
	_ Estimator = (*LocalEstimator)(nil)
	_ Estimator = (*RemoteEstimator)(nil)
)

// FareService exposes one estimation contract over the local and remote strategies.
type FareService struct {
	local       Estimator
	remote      Estimator
	defaultMode Mode
	logger      *zap.Logger
}

// NewFareService creates a new FareService. remote may be nil when no
// prediction endpoint is configured.
func NewFareService(local, remote Estimator, defaultMode Mode, logger *zap.Logger) *FareService {
	if defaultMode == "" {
		defaultMode = ModeLocal
	}
	return &FareService{
		local:       local,
		remote:      remote,
		defaultMode: defaultMode,
		logger:      logger,
	}
}

// DefaultMode returns the mode used when callers do not pick one.
func (s *FareService) DefaultMode() Mode {
	return s.defaultMode
}

// Estimate prices a validated request with the strategy named by mode.
func (s *FareService) Estimate(ctx context.Context, req domain.RideRequest, mode Mode) (*domain.FareQuote, error) {
	if mode == "" {
		mode = s.defaultMode
	}

	var estimator Estimator
	switch mode {
	case ModeLocal:
		estimator = s.local
	case ModeRemote:
		if s.remote == nil {
			return nil, ErrRemoteNotConfigured
		}
		estimator = s.remote
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	quote, err := estimator.Estimate(ctx, req)
	if err != nil {
		s.logFailure(mode, err)
		return nil, err
	}

	s.logger.Info("fare estimated",
		zap.String("mode", string(mode)),
		zap.String("source", string(quote.Source)),
		zap.Float64("amount_usd", quote.AmountUSD),
		zap.Float64("distance_km", quote.DistanceKm),
		zap.Bool("surge_applied", quote.SurgeApplied),
	)
	return quote, nil
}

// EstimateRaw validates untrusted input and prices it. Validation failures
// return a *domain.ValidationError before any distance or fare is computed.
func (s *FareService) EstimateRaw(ctx context.Context, raw RawRideRequest, mode Mode) (*domain.FareQuote, error) {
	req, err := ValidateRideRequest(raw)
	if err != nil {
		s.logger.Debug("ride request rejected", zap.Error(err))
		return nil, err
	}
	return s.Estimate(ctx, req, mode)
}

func (s *FareService) logFailure(mode Mode, err error) {
	fields := []zap.Field{zap.String("mode", string(mode)), zap.Error(err)}

	var remoteErr *RemoteEstimationError
	if errors.As(err, &remoteErr) {
		fields = append(fields, zap.String("kind", string(remoteErr.Kind)))
	}
	s.logger.Warn("fare estimation failed", fields...)
}
