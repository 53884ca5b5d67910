package elevation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/terrasense/terrasense/internal/elevation"
)

type mockProvider struct {
	meters float64
	err    error
}

func (m *mockProvider) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.meters, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func TestService_Elevation(t *testing.T) {
	service := elevation.NewService(&mockProvider{meters: 1894.0}, zerolog.Nop())

	meters := service.Elevation(context.Background(), 1.0157, 35.0062)
	assert.Equal(t, 1894.0, meters)
}

func TestService_Elevation_ProviderErrorDefaultsToZero(t *testing.T) {
	service := elevation.NewService(&mockProvider{err: errors.New("timeout")}, zerolog.Nop())

	meters := service.Elevation(context.Background(), 1.0157, 35.0062)
	assert.Zero(t, meters)
}

func TestService_Elevation_NilProvider(t *testing.T) {
	service := elevation.NewService(nil, zerolog.Nop())

	meters := service.Elevation(context.Background(), 1.0157, 35.0062)
	assert.Zero(t, meters)
}
