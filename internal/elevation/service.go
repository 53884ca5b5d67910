// Package elevation resolves terrain elevation for project coordinates.
//
// Elevation enriches land analysis but is never required for it, so lookups
// degrade to zero meters instead of failing.
package elevation

import (
	"context"

	"github.com/rs/zerolog"
)

// Provider is the interface for elevation data providers.
type Provider interface {
	// Elevation returns the elevation in meters at the given coordinates.
	Elevation(ctx context.Context, lat, lon float64) (float64, error)

	// Name returns the provider's name.
	Name() string
}

// Service resolves elevations with a best-effort contract.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new elevation service. The provider may be nil, in
// which case every lookup resolves to zero.
func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger.With().Str("component", "elevation_service").Logger(),
	}
}

// Elevation returns the elevation in meters at the given coordinates, or
// zero when no provider is configured or the lookup fails.
func (s *Service) Elevation(ctx context.Context, lat, lon float64) float64 {
	if s.provider == nil {
		return 0
	}

	meters, err := s.provider.Elevation(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("provider", s.provider.Name()).
			Msg("Elevation lookup failed, defaulting to zero")
		return 0
	}

	return meters
}
