package domain

// Source identifies which strategy produced a quote.
type Source string

const (
	SourceLocal  Source = "LOCAL"
	SourceRemote Source = "REMOTE"
)

// FareQuote is the result of one estimation attempt. It is never stored.
type FareQuote struct {
	AmountUSD         float64 `json:"amount_usd"`
	DistanceKm        float64 `json:"distance_km"`
	TravelTimeMinutes float64 `json:"travel_time_minutes"`
	SurgeApplied      bool    `json:"surge_applied"`
	Source            Source  `json:"source"`
}
