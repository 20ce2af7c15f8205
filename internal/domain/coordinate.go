package domain

import "math"

// Coordinate bounds in decimal degrees.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// Coordinate is a point on the Earth's surface in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// IsFinite reports whether both components are real numbers (not NaN or ±Inf).
func (c Coordinate) IsFinite() bool {
	return isFinite(c.Latitude) && isFinite(c.Longitude)
}

// IsValidLatitude reports whether lat is finite and within [-90, 90].
func IsValidLatitude(lat float64) bool {
	return isFinite(lat) && lat >= MinLatitude && lat <= MaxLatitude
}

// IsValidLongitude reports whether lng is finite and within [-180, 180].
func IsValidLongitude(lng float64) bool {
	return isFinite(lng) && lng >= MinLongitude && lng <= MaxLongitude
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
