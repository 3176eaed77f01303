// Package location abstracts the device's current-position capability so the
// pipeline can be exercised without real positioning hardware.
package location

import (
	"context"
	"errors"

	"github.com/tripweather/tripweather/internal/geo"
)

// The three failure modes of a device-position query. Each maps to a
// distinct user-facing message at the pipeline boundary.
var (
	ErrServiceDisabled         = errors.New("location services are disabled")
	ErrPermissionDenied        = errors.New("location permission denied")
	ErrPermissionDeniedForever = errors.New("location permission permanently denied")
)

// Provider is implemented by device position sources.
type Provider interface {
	// Current returns the device's current coordinate.
	Current(ctx context.Context) (geo.Coordinate, error)
}

// Static is a Provider pinned to a fixed coordinate, used when the process
// has no positioning hardware behind it.
type Static struct {
	Point geo.Coordinate
}

// Current returns the pinned coordinate, or ErrServiceDisabled when none is
// configured.
func (s Static) Current(_ context.Context) (geo.Coordinate, error) {
	if !s.Point.Valid() || (s.Point == geo.Coordinate{}) {
		return geo.Coordinate{}, ErrServiceDisabled
	}
	return s.Point, nil
}

// Unavailable is a Provider that always fails with the given reason.
type Unavailable struct {
	Reason error
}

// Current always returns the configured failure reason.
func (u Unavailable) Current(_ context.Context) (geo.Coordinate, error) {
	return geo.Coordinate{}, u.Reason
}
