package domain

// RiskBand is the discretized rain risk of an interval.
type RiskBand string

const (
	RiskLow      RiskBand = "low"
	RiskModerate RiskBand = "moderate"
	RiskHigh     RiskBand = "high"
)

// Band thresholds in percent. Lower bounds are inclusive.
const (
	ModerateThreshold = 30.0
	HighThreshold     = 60.0

	// RainLikelyThreshold is the strict lower bound for the binary rain flag.
	RainLikelyThreshold = 50.0
)

// Band maps a rain probability (0 to 100) to its risk band.
func Band(probability float64) RiskBand {
	switch {
	case probability < ModerateThreshold:
		return RiskLow
	case probability < HighThreshold:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// RainLikely reports whether a probability crosses the binary rain flag.
func RainLikely(probability float64) bool {
	return probability > RainLikelyThreshold
}

// Rank orders bands from 0 (low) to 2 (high). Unknown bands rank -1.
func (b RiskBand) Rank() int {
	switch b {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	case RiskHigh:
		return 2
	default:
		return -1
	}
}

// Color is the marker color used for the band on charts and maps.
func (b RiskBand) Color() string {
	switch b {
	case RiskLow:
		return "green"
	case RiskModerate:
		return "yellow"
	case RiskHigh:
		return "red"
	default:
		return ""
	}
}

// Message is the user-facing alert text for the band.
func (b RiskBand) Message() string {
	switch b {
	case RiskLow:
		return "Low chance of rain"
	case RiskModerate:
		return "Moderate chance of rain"
	case RiskHigh:
		return "High chance of rain"
	default:
		return ""
	}
}
