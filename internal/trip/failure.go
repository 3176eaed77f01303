package trip

import (
	"errors"

	"github.com/tripweather/tripweather/internal/advice"
	"github.com/tripweather/tripweather/internal/geocode"
	"github.com/tripweather/tripweather/internal/location"
	"github.com/tripweather/tripweather/internal/weather"
)

// FailureMessage converts a fatal pipeline error into the single
// human-readable string shown to the user. Errors cross the pipeline
// boundary in no other form.
func FailureMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyOrigin):
		return "Please enter a starting location."
	case errors.Is(err, ErrEmptyDestination):
		return "Please enter a destination."
	case errors.Is(err, geocode.ErrNotFound):
		return "No matching place was found. Check the spelling and try again."
	case errors.Is(err, location.ErrPermissionDeniedForever):
		return "Location permission is permanently denied. Update it in system settings or enter a starting location."
	case errors.Is(err, location.ErrPermissionDenied):
		return "Location permission was denied. Grant access or enter a starting location."
	case errors.Is(err, location.ErrServiceDisabled):
		return "Location services are disabled. Enable them or enter a starting location."
	case errors.Is(err, advice.ErrProviderUnavailable):
		return "Could not generate travel advice. Please try again."
	case errors.Is(err, weather.ErrProviderUnavailable):
		return "Could not fetch the weather. Please try again."
	default:
		return "Trip planning failed. Please try again."
	}
}
