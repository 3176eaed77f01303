// Package geo provides the shared geographic value types for the trip pipeline.
package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

// ErrInvalidCoordinate indicates a coordinate outside the valid lat/lon ranges
// or a string that does not parse as a "lat,lon" pair.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate represents a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether the coordinate is within the valid lat/lon ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String returns the serialized "lat, lon" form. This is the format used for
// reverse-geocoding fallback labels and the last-location preference.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.3f, %.3f", c.Lat, c.Lon)
}

// ParseCoordinate parses a "lat,lon" pair in decimal degrees.
// Whitespace around either component is ignored.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}

	c := Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return c, nil
}

// earthRadiusMeters is the mean Earth radius used for distance calculations.
const earthRadiusMeters = 6371000

// Distance returns the great-circle distance between two points in meters.
func Distance(a, b Coordinate) float64 {
	p := s2.LatLngFromDegrees(a.Lat, a.Lon)
	q := s2.LatLngFromDegrees(b.Lat, b.Lon)
	return p.Distance(q).Radians() * earthRadiusMeters
}
