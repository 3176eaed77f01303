// Package prefs persists the small set of device-local preferences.
package prefs

import (
	"context"
	"errors"
)

// KeyLastLocation is the single persisted preference: the last location a
// successful weather fetch was made for, as free text or a "lat, lon" pair.
const KeyLastLocation = "last_location"

// ErrNotSet indicates the preference has never been written.
var ErrNotSet = errors.New("preference not set")

// Store is implemented by preference backends.
type Store interface {
	// LastLocation returns the persisted last-location value, or ErrNotSet.
	LastLocation(ctx context.Context) (string, error)

	// SetLastLocation persists the last-location value.
	SetLastLocation(ctx context.Context, value string) error
}
