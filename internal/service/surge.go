package service

// HourWindow is an inclusive range of clock hours, e.g. {7, 9} covers 07:00-09:59.
type HourWindow struct {
	Start int
	End   int
}

// Contains reports whether hour falls inside the window.
func (w HourWindow) Contains(hour int) bool {
	return hour >= w.Start && hour <= w.End
}

// SurgeConfig contains time-of-day surge pricing configuration.
type SurgeConfig struct {
	PeakWindows    []HourWindow // Hours billed at PeakMultiplier
	PeakMultiplier float64      // Multiplier applied during peak hours
}

// DefaultSurgeConfig returns the default surge configuration.
func DefaultSurgeConfig() SurgeConfig {
	return SurgeConfig{
		PeakWindows: []HourWindow{
			{Start: 7, End: 9},   // morning commute
			{Start: 17, End: 19}, // evening commute
		},
		PeakMultiplier: 1.5,
	}
}

// SurgePolicy decides the surge multiplier for an hour of the day.
// It never reads the clock; callers pass the hour explicitly.
type SurgePolicy struct {
	config SurgeConfig
}

// NewSurgePolicy creates a new SurgePolicy.
func NewSurgePolicy(config SurgeConfig) *SurgePolicy {
	return &SurgePolicy{config: config}
}

// Multiplier returns PeakMultiplier when hour is inside a peak window and 1.0
// otherwise. Hours outside 0..23 are never peak.
func (p *SurgePolicy) Multiplier(hour int) float64 {
	if hour < 0 || hour > 23 {
		return 1.0
	}

	for _, w := range p.config.PeakWindows {
		if w.Contains(hour) {
			return p.config.PeakMultiplier
		}
	}
	return 1.0
}

// IsPeak reports whether hour is billed with surge.
func (p *SurgePolicy) IsPeak(hour int) bool {
	return p.Multiplier(hour) > 1.0
}
