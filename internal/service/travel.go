package service

// DefaultAverageSpeedKmh is the assumed constant driving speed.
const DefaultAverageSpeedKmh = 40.0

// TravelTimeEstimator converts a distance into an estimated driving time.
type TravelTimeEstimator struct {
	AverageSpeedKmh float64
}

// NewTravelTimeEstimator creates a TravelTimeEstimator. A non-positive speed
// falls back to DefaultAverageSpeedKmh.
func NewTravelTimeEstimator(averageSpeedKmh float64) TravelTimeEstimator {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = DefaultAverageSpeedKmh
	}
	return TravelTimeEstimator{AverageSpeedKmh: averageSpeedKmh}
}

// EstimateMinutes returns the travel time in minutes for distanceKm.
func (e TravelTimeEstimator) EstimateMinutes(distanceKm float64) float64 {
	if distanceKm <= 0 {
		return 0
	}
	return distanceKm / e.AverageSpeedKmh * 60
}
