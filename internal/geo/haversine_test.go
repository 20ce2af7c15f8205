package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"fare/internal/domain"
)

func TestDistance_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      domain.Coordinate
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         domain.Coordinate{Latitude: 25.033, Longitude: 121.565},
			b:         domain.Coordinate{Latitude: 25.033, Longitude: 121.565},
			wantKm:    0,
			tolerance: 1e-9,
		},
		{
			name:      "lower to midtown manhattan",
			a:         domain.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
			b:         domain.Coordinate{Latitude: 40.7306, Longitude: -73.9352},
			wantKm:    6.286,
			tolerance: 0.01,
		},
		{
			name:      "new york to los angeles",
			a:         domain.Coordinate{Latitude: 40.7128, Longitude: -74.0060},
			b:         domain.Coordinate{Latitude: 34.0522, Longitude: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
		{
			name:      "antipodes on the equator",
			a:         domain.Coordinate{Latitude: 0, Longitude: 0},
			b:         domain.Coordinate{Latitude: 0, Longitude: 180},
			wantKm:    math.Pi * EarthRadiusKm,
			tolerance: 1e-6,
		},
		{
			name:      "pole to pole",
			a:         domain.Coordinate{Latitude: 90, Longitude: 0},
			b:         domain.Coordinate{Latitude: -90, Longitude: 0},
			wantKm:    math.Pi * EarthRadiusKm,
			tolerance: 1e-6,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Distance(test.a, test.b).Kilometers()
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, test.wantKm, got, test.tolerance)
		})
	}
}

func TestDistance_Symmetry(t *testing.T) {
	points := []domain.Coordinate{
		{Latitude: 25.0, Longitude: 121.0},
		{Latitude: 26.0, Longitude: 122.0},
		{Latitude: -33.8688, Longitude: 151.2093},
		{Latitude: 51.5074, Longitude: -0.1278},
		{Latitude: 90, Longitude: 45},
		{Latitude: -89.9999, Longitude: -179.9999},
	}

	for _, a := range points {
		for _, b := range points {
			d1 := Distance(a, b).Kilometers()
			d2 := Distance(b, a).Kilometers()
			assert.InDelta(t, d1, d2, 1e-9, "distance(%v,%v) not symmetric", a, b)
		}
		assert.InDelta(t, 0, Distance(a, a).Kilometers(), 1e-9)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, clamp(-1e-17, 0, 1))
	assert.Equal(t, 1.0, clamp(1+1e-15, 0, 1))
	assert.Equal(t, 0.5, clamp(0.5, 0, 1))
}

func BenchmarkDistance(b *testing.B) {
	a := domain.Coordinate{Latitude: 37.967349, Longitude: 23.730235}
	c := domain.Coordinate{Latitude: 37.967348, Longitude: 23.730235}
	for n := 0; n < b.N; n++ {
		Distance(a, c)
	}
}
