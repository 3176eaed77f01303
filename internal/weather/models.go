// Package weather defines the current-conditions domain model consumed by
// the trip pipeline.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/tripweather/tripweather/internal/geo"
)

// ErrProviderUnavailable indicates the weather provider returned a
// non-success response or could not be reached within the call timeout.
var ErrProviderUnavailable = errors.New("weather provider unavailable")

// Observation is a single current-weather reading at a point. Values are
// metric as delivered by the provider; unit conversions for display belong
// to the presentation layer, never to stored data.
type Observation struct {
	Point geo.Coordinate

	// Description is the provider's free-text condition description,
	// e.g. "light rain". Severity classification works on this text.
	Description string

	Temperature float64 // °C
	Humidity    float64 // percent
	WindSpeed   float64 // m/s
	Pressure    float64 // hPa
	CloudCover  float64 // percent

	// Station is the provider's place name for the reading, when known.
	Station string
	Country string

	ObservedAt time.Time
	FetchedAt  time.Time
}

// Provider is implemented by weather data sources.
type Provider interface {
	// Current fetches current conditions at a coordinate.
	Current(ctx context.Context, point geo.Coordinate) (*Observation, error)

	// CurrentByQuery fetches current conditions for a free-text place name
	// or a serialized "lat,lon" pair, whichever the caller has at hand.
	CurrentByQuery(ctx context.Context, query string) (*Observation, error)

	// Name returns the provider identifier for logging.
	Name() string
}
