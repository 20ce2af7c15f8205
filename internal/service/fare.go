package service

import (
	"math"

	"fare/internal/domain"
)

// FareRates holds the local pricing formula constants, in USD.
type FareRates struct {
	BaseFare  float64
	PerKm     float64
	PerMinute float64
}

// DefaultFareRates returns the standard rates.
func DefaultFareRates() FareRates {
	return FareRates{
		BaseFare:  3.0,
		PerKm:     1.5,
		PerMinute: 0.25,
	}
}

// FareCalculator applies the local pricing formula:
//
//	amount = (BaseFare + km*PerKm + minutes*PerMinute) * surgeMultiplier
type FareCalculator struct {
	rates FareRates
}

// NewFareCalculator creates a new FareCalculator.
func NewFareCalculator(rates FareRates) *FareCalculator {
	return &FareCalculator{rates: rates}
}

// ComputeFare returns the fare in USD. Inputs are assumed already valid.
func (c *FareCalculator) ComputeFare(distanceKm, minutes, surgeMultiplier float64) float64 {
	subtotal := c.rates.BaseFare + distanceKm*c.rates.PerKm + minutes*c.rates.PerMinute
	return subtotal * surgeMultiplier
}

// Quote computes the fare and packages it as a local quote.
func (c *FareCalculator) Quote(distanceKm, minutes, surgeMultiplier float64) domain.FareQuote {
	return domain.FareQuote{
		AmountUSD:         c.ComputeFare(distanceKm, minutes, surgeMultiplier),
		DistanceKm:        distanceKm,
		TravelTimeMinutes: minutes,
		SurgeApplied:      surgeMultiplier > 1.0,
		Source:            domain.SourceLocal,
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
