package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurgePolicy_Multiplier(t *testing.T) {
	policy := NewSurgePolicy(DefaultSurgeConfig())

	tests := []struct {
		hour int
		want float64
	}{
		{hour: 0, want: 1.0},
		{hour: 6, want: 1.0},
		{hour: 7, want: 1.5},
		{hour: 8, want: 1.5},
		{hour: 9, want: 1.5},
		{hour: 10, want: 1.0},
		{hour: 12, want: 1.0},
		{hour: 16, want: 1.0},
		{hour: 17, want: 1.5},
		{hour: 18, want: 1.5},
		{hour: 19, want: 1.5},
		{hour: 20, want: 1.0},
		{hour: 23, want: 1.0},
		{hour: -1, want: 1.0},
		{hour: 24, want: 1.0},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, policy.Multiplier(test.hour), "hour %d", test.hour)
	}
	assert.True(t, policy.IsPeak(8))
	assert.False(t, policy.IsPeak(12))
}

func TestSurgePolicy_CustomWindows(t *testing.T) {
	policy := NewSurgePolicy(SurgeConfig{
		PeakWindows:    []HourWindow{{Start: 22, End: 23}},
		PeakMultiplier: 2.0,
	})
	assert.Equal(t, 2.0, policy.Multiplier(22))
	assert.Equal(t, 1.0, policy.Multiplier(8))
}

func TestTravelTimeEstimator_EstimateMinutes(t *testing.T) {
	est := NewTravelTimeEstimator(DefaultAverageSpeedKmh)

	assert.Equal(t, 0.0, est.EstimateMinutes(0))
	assert.Equal(t, 0.0, est.EstimateMinutes(-3))
	assert.InDelta(t, 60.0, est.EstimateMinutes(40), 1e-9)

	// linear with slope 60/40
	for _, km := range []float64{0.5, 1, 6.4, 12.25, 100, 1234.5} {
		assert.InDelta(t, km*1.5, est.EstimateMinutes(km), 1e-9, "km %v", km)
	}

	assert.Equal(t, DefaultAverageSpeedKmh, NewTravelTimeEstimator(0).AverageSpeedKmh)
}

func TestFareCalculator_ComputeFare(t *testing.T) {
	calc := NewFareCalculator(DefaultFareRates())

	assert.InDelta(t, 3.0, calc.ComputeFare(0, 0, 1.0), 1e-9)
	assert.InDelta(t, 3.0+6.4*1.5+9.6*0.25, calc.ComputeFare(6.4, 9.6, 1.0), 1e-9)
	assert.InDelta(t, (3.0+6.4*1.5+9.6*0.25)*1.5, calc.ComputeFare(6.4, 9.6, 1.5), 1e-9)
}

func TestFareCalculator_Monotonic(t *testing.T) {
	calc := NewFareCalculator(DefaultFareRates())

	prev := calc.ComputeFare(0, 10, 1.0)
	for km := 0.5; km <= 50; km += 0.5 {
		got := calc.ComputeFare(km, 10, 1.0)
		assert.Greater(t, got, prev, "not increasing in distance at %v km", km)
		prev = got
	}

	prev = calc.ComputeFare(5, 0, 1.5)
	for min := 1.0; min <= 120; min++ {
		got := calc.ComputeFare(5, min, 1.5)
		assert.Greater(t, got, prev, "not increasing in minutes at %v", min)
		prev = got
	}
}

func TestFareCalculator_Quote(t *testing.T) {
	calc := NewFareCalculator(DefaultFareRates())

	q := calc.Quote(2, 3, 1.0)
	assert.False(t, q.SurgeApplied)
	assert.Equal(t, "LOCAL", string(q.Source))
	assert.Equal(t, 2.0, q.DistanceKm)
	assert.Equal(t, 3.0, q.TravelTimeMinutes)

	surged := calc.Quote(2, 3, 1.5)
	assert.True(t, surged.SurgeApplied)
	assert.InDelta(t, q.AmountUSD*1.5, surged.AmountUSD, 1e-9)
}
