// Package geocode resolves place text to coordinates and coordinates to
// human-readable labels.
package geocode

import (
	"context"
	"errors"
	"strings"

	"github.com/tripweather/tripweather/internal/geo"
)

// ErrNotFound indicates a forward lookup returned no candidate places.
var ErrNotFound = errors.New("no matching place found")

// Placemark holds the address components used to compose a stop label.
type Placemark struct {
	Locality              string
	SubAdministrativeArea string
	Country               string
}

// Label joins the non-empty components with ", ". The sub-administrative
// area is skipped when it repeats the locality. An empty placemark yields "".
func (p Placemark) Label() string {
	parts := make([]string, 0, 3)
	if p.Locality != "" {
		parts = append(parts, p.Locality)
	}
	if p.SubAdministrativeArea != "" && p.SubAdministrativeArea != p.Locality {
		parts = append(parts, p.SubAdministrativeArea)
	}
	if p.Country != "" {
		parts = append(parts, p.Country)
	}
	return strings.Join(parts, ", ")
}

// Provider is implemented by geocoding data sources.
type Provider interface {
	// Forward resolves free text to the first matching coordinate.
	// Zero candidates surface as ErrNotFound.
	Forward(ctx context.Context, place string) (geo.Coordinate, error)

	// Reverse resolves a coordinate to a placemark.
	Reverse(ctx context.Context, point geo.Coordinate) (*Placemark, error)

	// Name returns the provider identifier for logging.
	Name() string
}
