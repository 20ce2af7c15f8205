package service

import (
	"context"
	"time"

	"fare/internal/domain"
	"fare/internal/geo"
)

// LocalEstimator prices a ride with the in-process formula:
// distance -> travel time -> surge -> fare.
type LocalEstimator struct {
	travel   TravelTimeEstimator
	surge    *SurgePolicy
	fares    *FareCalculator
	now      func() time.Time
	location *time.Location
}

// LocalOption configures a LocalEstimator.
type LocalOption func(*LocalEstimator)

// WithClock sets the clock used to pick the surge hour.
func WithClock(now func() time.Time) LocalOption {
	return func(e *LocalEstimator) { e.now = now }
}

// WithLocation sets the time zone in which the surge hour is read.
func WithLocation(loc *time.Location) LocalOption {
	return func(e *LocalEstimator) { e.location = loc }
}

// NewLocalEstimator creates a new LocalEstimator.
func NewLocalEstimator(
	travel TravelTimeEstimator,
	surge *SurgePolicy,
	fares *FareCalculator,
	opts ...LocalOption,
) *LocalEstimator {
	e := &LocalEstimator{
		travel:   travel,
		surge:    surge,
		fares:    fares,
		now:      time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate prices req at the current hour of the estimator's clock.
func (e *LocalEstimator) Estimate(ctx context.Context, req domain.RideRequest) (*domain.FareQuote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	quote := e.EstimateAt(req, e.CurrentHour())
	return &quote, nil
}

// EstimateAt prices req as if requested during hour (0..23).
func (e *LocalEstimator) EstimateAt(req domain.RideRequest, hour int) domain.FareQuote {
	km, minutes := e.Route(req)
	return e.fares.Quote(km, minutes, e.surge.Multiplier(hour))
}

// Route returns the distance and travel time between the request's endpoints.
func (e *LocalEstimator) Route(req domain.RideRequest) (distanceKm, minutes float64) {
	distanceKm = geo.Distance(req.Pickup(), req.Dropoff()).Kilometers()
	return distanceKm, e.travel.EstimateMinutes(distanceKm)
}

// CurrentHour returns the clock hour in the estimator's time zone.
func (e *LocalEstimator) CurrentHour() int {
	return e.now().In(e.location).Hour()
}
