package geocode

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripweather/tripweather/internal/geo"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service wraps a geocoding provider with logging and the label fallback
// policy the pipeline relies on.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// ResolveForward resolves free text to a coordinate. ErrNotFound propagates
// to the caller; the pipeline treats it as fatal.
func (s *Service) ResolveForward(ctx context.Context, place string) (geo.Coordinate, error) {
	point, err := s.provider.Forward(ctx, place)
	if err != nil {
		s.logger.Debug().Err(err).
			Str("place", place).
			Str("provider", s.provider.Name()).
			Msg("forward geocoding failed")
		return geo.Coordinate{}, err
	}
	return point, nil
}

// ResolveLabel returns a human-readable label for a point. Reverse geocoding
// is cosmetic and never blocks the pipeline: any provider failure or empty
// placemark falls back to the formatted coordinate pair.
func (s *Service) ResolveLabel(ctx context.Context, point geo.Coordinate) string {
	mark, err := s.provider.Reverse(ctx, point)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", point.Lat).
			Float64("lon", point.Lon).
			Msg("reverse geocoding failed, using coordinate label")
		return point.String()
	}

	if label := mark.Label(); label != "" {
		return label
	}
	return point.String()
}
