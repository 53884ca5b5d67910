package geocode_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/geocode"
)

type mockProvider struct {
	mu        sync.Mutex
	callCount int
	name      string
	place     *geocode.Place
	err       error
}

func (m *mockProvider) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return "", m.err
	}
	return m.name, nil
}

func (m *mockProvider) Geocode(ctx context.Context, address string) (*geocode.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.err != nil {
		return nil, m.err
	}
	if m.place == nil {
		return nil, geocode.ErrNotFound
	}
	return m.place, nil
}

func (m *mockProvider) Name() string {
	return "mock"
}

func TestService_LocationName(t *testing.T) {
	provider := &mockProvider{name: "Kitale, Trans-Nzoia, Kenya"}
	service := geocode.NewService(provider, zerolog.Nop())

	name := service.LocationName(context.Background(), 1.0157, 35.0062)
	assert.Equal(t, "Kitale, Trans-Nzoia, Kenya", name)
}

func TestService_LocationName_ProviderErrorFallsBackToCoordinates(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection refused")}
	service := geocode.NewService(provider, zerolog.Nop())

	name := service.LocationName(context.Background(), 1.0157, 35.0062)
	assert.Equal(t, "1.0157, 35.0062", name)
}

func TestService_LocationName_EmptyNameFallsBackToCoordinates(t *testing.T) {
	// Remote ocean points resolve to an address with no usable parts.
	provider := &mockProvider{name: ""}
	service := geocode.NewService(provider, zerolog.Nop())

	name := service.LocationName(context.Background(), -42.5, -151.25)
	assert.Equal(t, "-42.5000, -151.2500", name)
}

func TestService_LocationName_NilProvider(t *testing.T) {
	service := geocode.NewService(nil, zerolog.Nop())

	name := service.LocationName(context.Background(), 0.5, 34.75)
	assert.Equal(t, "0.5000, 34.7500", name)
}

func TestService_Lookup(t *testing.T) {
	provider := &mockProvider{place: &geocode.Place{
		Lat:         0.5142775,
		Lon:         35.2697802,
		DisplayName: "Eldoret, Uasin Gishu County, Kenya",
	}}
	service := geocode.NewService(provider, zerolog.Nop())

	place, err := service.Lookup(context.Background(), "Eldoret, Kenya")
	require.NoError(t, err)
	assert.Equal(t, "Eldoret, Uasin Gishu County, Kenya", place.DisplayName)
	assert.InDelta(t, 0.5142775, place.Lat, 0.0000001)
}

func TestService_Lookup_NotFound(t *testing.T) {
	provider := &mockProvider{}
	service := geocode.NewService(provider, zerolog.Nop())

	_, err := service.Lookup(context.Background(), "nowhere in particular")
	require.ErrorIs(t, err, geocode.ErrNotFound)
}

func TestService_Lookup_NilProvider(t *testing.T) {
	service := geocode.NewService(nil, zerolog.Nop())

	_, err := service.Lookup(context.Background(), "Eldoret")
	require.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}
