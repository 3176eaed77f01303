// Package severity classifies free-text weather descriptions into discrete
// hazard levels used to color a planned route.
package severity

import "strings"

// Level is an ordered hazard level. Higher values are worse, so the overall
// route level is the maximum across all stops.
type Level int

const (
	// Good covers clear or uneventful conditions.
	Good Level = iota
	// Moderate covers precipitation and reduced-visibility conditions.
	Moderate
	// Severe covers dangerous conditions that should dominate the route color.
	Severe
)

// severeKeywords take precedence over moderateKeywords: a description that
// matches both (e.g. "thunderstorm with fog") classifies Severe.
var severeKeywords = []string{"thunder", "tornado", "hurricane", "extreme"}

var moderateKeywords = []string{"rain", "snow", "sleet", "storm", "shower", "mist", "haze", "fog"}

// Classify maps a weather description to a Level. Classification is a pure
// function of the lowercased description; unknown or empty text is Good.
func Classify(description string) Level {
	desc := strings.ToLower(description)

	for _, kw := range severeKeywords {
		if strings.Contains(desc, kw) {
			return Severe
		}
	}
	for _, kw := range moderateKeywords {
		if strings.Contains(desc, kw) {
			return Moderate
		}
	}
	return Good
}

// Max returns the worse of two levels.
func Max(a, b Level) Level {
	if b > a {
		return b
	}
	return a
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case Moderate:
		return "MODERATE"
	case Severe:
		return "SEVERE"
	default:
		return "GOOD"
	}
}

// Color returns the render color for route and marker drawing.
func (l Level) Color() string {
	switch l {
	case Moderate:
		return "blue"
	case Severe:
		return "red"
	default:
		return "green"
	}
}
