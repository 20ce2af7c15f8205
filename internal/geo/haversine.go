// Package geo computes great-circle distances between coordinates.
package geo

import (
	"math"

	"fare/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// DistanceResult is a great-circle distance produced by Distance.
type DistanceResult struct {
	km float64
}

// Kilometers returns the distance in kilometres.
func (d DistanceResult) Kilometers() float64 {
	return d.km
}

// Distance returns the haversine distance between a and b.
// It never returns NaN for valid coordinates, including antipodes and poles.
func Distance(a, b domain.Coordinate) DistanceResult {
	return DistanceResult{km: haversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)}
}

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := degreesToRadians(lat2 - lat1)
	dLng := degreesToRadians(lng2 - lng1)

	rLat1 := degreesToRadians(lat1)
	rLat2 := degreesToRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// rounding can push a slightly outside [0,1] near the poles and antipodes
	a = clamp(a, 0, 1)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
