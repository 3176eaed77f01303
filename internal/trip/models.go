// Package trip implements the route-weather planning pipeline: endpoint
// resolution, straight-line sampling, per-point weather enrichment, severity
// aggregation, and AI trip advice.
package trip

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tripweather/tripweather/internal/geo"
	"github.com/tripweather/tripweather/internal/route"
	"github.com/tripweather/tripweather/internal/severity"
)

// Blank-input errors are raised before any provider call is made.
var (
	ErrEmptyOrigin      = errors.New("origin is required")
	ErrEmptyDestination = errors.New("destination is required")
)

// OriginSource selects how the trip origin is resolved: from the device's
// current position or by forward-geocoding free text.
type OriginSource struct {
	useDevice bool
	text      string
}

// OriginFromDevice resolves the origin from the device-location provider.
func OriginFromDevice() OriginSource {
	return OriginSource{useDevice: true}
}

// OriginFromText resolves the origin by forward-geocoding the given text.
func OriginFromText(text string) OriginSource {
	return OriginSource{text: text}
}

// UseDevice reports whether the origin comes from the device position.
func (o OriginSource) UseDevice() bool {
	return o.useDevice
}

// Text returns the origin text for forward geocoding.
func (o OriginSource) Text() string {
	return o.text
}

// PlanRequest describes a single planning run.
type PlanRequest struct {
	Origin      OriginSource
	Destination string

	// Date the trip takes place. The zero value means today.
	Date time.Time

	// SampleCount overrides the planner's sample count when positive.
	SampleCount int
}

// PlaceResolution is a resolved trip endpoint.
type PlaceResolution struct {
	Label string
	Point geo.Coordinate
}

// CityStop is a route sample enriched with a place label and weather
// severity. A failed weather fetch leaves the stop with description
// "unknown" and severity Good rather than failing the run.
type CityStop struct {
	Sample             route.Sample
	Label              string
	WeatherDescription string
	Severity           severity.Level
}

// Plan is the aggregate produced by one pipeline run. It is never mutated
// after publication; each run constructs a fresh plan.
type Plan struct {
	RunID       uuid.UUID
	Origin      PlaceResolution
	Destination PlaceResolution

	// Stops are the enriched samples in route order, origin first.
	Stops []CityStop

	// Geometry is the encoded polyline of the sampled route for rendering.
	Geometry string

	// DistanceMeters is the great-circle distance between the endpoints.
	DistanceMeters float64

	// WorstSeverity is the maximum severity across all stops and drives the
	// overall route color.
	WorstSeverity severity.Level

	Advice    string
	Date      time.Time
	CreatedAt time.Time
}
