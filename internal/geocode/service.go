// Package geocode resolves coordinates to human-readable place names.
// Naming is cosmetic for project records, so lookups degrade to a formatted
// coordinate string instead of failing.
package geocode

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/pkg/geo"
)

// Provider defines the interface for geocoding providers.
type Provider interface {
	// ReverseGeocode resolves coordinates to a place name.
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)

	// Geocode resolves a free-form address to coordinates.
	Geocode(ctx context.Context, address string) (*Place, error)

	// Name returns the provider name for logging.
	Name() string
}

// Service provides place naming with a coordinate-string fallback.
type Service struct {
	provider Provider
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(provider Provider, logger zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		logger:   logger,
	}
}

// LocationName returns a display name for coordinates. Never fails: when the
// provider errors or returns nothing, the formatted coordinates are used.
func (s *Service) LocationName(ctx context.Context, lat, lon float64) string {
	fallback := geo.Coordinate{Lat: lat, Lon: lon}.String()

	if s.provider == nil {
		return fallback
	}

	name, err := s.provider.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		s.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("reverse geocoding failed, using coordinates")
		return fallback
	}
	if name == "" {
		return fallback
	}

	return name
}

// Lookup resolves a free-form address to coordinates.
func (s *Service) Lookup(ctx context.Context, address string) (*Place, error) {
	if s.provider == nil {
		return nil, ErrProviderUnavailable
	}
	return s.provider.Geocode(ctx, address)
}
