// Package advice requests AI-generated travel advice for a planned trip.
package advice

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrProviderUnavailable indicates the advice provider could not produce a
// completion. Unlike per-stop weather fetches, this is fatal to the run.
var ErrProviderUnavailable = errors.New("advice provider unavailable")

// Error carries the provider's raw error payload so it can be surfaced to
// the caller.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *Error) Unwrap() error {
	return ErrProviderUnavailable
}

// Provider is implemented by AI completion backends.
type Provider interface {
	// TripAdvice returns natural-language advice for travelling between the
	// two resolved places on the given date.
	TripAdvice(ctx context.Context, origin, destination string, date time.Time) (string, error)

	// Name returns the provider identifier for logging.
	Name() string
}
