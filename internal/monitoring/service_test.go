package monitoring_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/weather"
)

type mockWeather struct {
	snapshot *weather.Snapshot
	err      error
}

func (m *mockWeather) Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func newService(w *mockWeather, repo monitoring.Repository) *monitoring.Service {
	return monitoring.NewService(monitoring.ServiceConfig{
		Weather:    w,
		Repository: repo,
		Logger:     zerolog.Nop(),
	})
}

func equatorialState() monitoring.ProjectState {
	return monitoring.ProjectState{
		ProjectID:      "prj_test",
		Lat:            0.5,
		Lon:            34.0,
		BaselineNDVI:   0.5,
		SoilPH:         6.2,
		AnnualRainfall: 1200,
	}
}

func warmHumidWeather() *mockWeather {
	return &mockWeather{snapshot: &weather.Snapshot{
		Temperature: 27,
		Humidity:    75,
		WindSpeed:   3.4,
		Source:      "openweathermap",
	}}
}

func TestService_Snapshot(t *testing.T) {
	service := newService(warmHumidWeather(), monitoring.NewInMemoryRepository())

	sample := service.Snapshot(context.Background(), equatorialState())

	assert.Equal(t, "prj_test", sample.ProjectID)
	assert.InDelta(t, 0.68, sample.NDVI, 0.001)
	assert.Equal(t, estimate.HealthExcellent, sample.VegetationHealth)
	// (0.68 - 0.1) * 111.
	assert.InDelta(t, 64.38, sample.CanopyCover, 0.001)
	// min(75 * 0.7, 100).
	assert.InDelta(t, 52.5, sample.SoilMoisture, 0.001)
	assert.Equal(t, 27.0, sample.SoilTemperature)
	assert.Equal(t, 6.2, sample.SoilPH)
	assert.Equal(t, estimate.RiskLow, sample.ErosionRisk)
	// (0.68 - 0.5) / 0.5 * 100.
	assert.InDelta(t, 36.0, sample.VegetationChange, 0.001)
	assert.Equal(t, monitoring.TrendImproving, sample.DegradationTrend)
	assert.Equal(t, monitoring.AlertNone, sample.AlertLevel)
	assert.Empty(t, sample.AlertMessage)
	assert.False(t, sample.RecordedAt.IsZero())
}

func TestService_Snapshot_ZeroBaselineGuard(t *testing.T) {
	service := newService(warmHumidWeather(), monitoring.NewInMemoryRepository())
	state := equatorialState()
	state.BaselineNDVI = 0

	sample := service.Snapshot(context.Background(), state)

	assert.Zero(t, sample.VegetationChange)
	assert.Equal(t, monitoring.TrendDeclining, sample.DegradationTrend)
}

func TestService_Snapshot_WeatherFailureUsesEstimate(t *testing.T) {
	service := newService(&mockWeather{err: errors.New("connection refused")}, monitoring.NewInMemoryRepository())

	sample := service.Snapshot(context.Background(), equatorialState())

	assert.Greater(t, sample.NDVI, 0.0)
	assert.GreaterOrEqual(t, sample.Temperature, weather.FallbackMinTemp)
	assert.LessOrEqual(t, sample.Temperature, weather.FallbackMaxTemp)
}

func TestService_Snapshot_AlertPriority(t *testing.T) {
	tests := []struct {
		name        string
		weather     *weather.Snapshot
		state       monitoring.ProjectState
		wantLevel   monitoring.AlertLevel
		wantMessage string
	}{
		{
			// Polar cold-dry drives NDVI to zero.
			name:        "critical vegetation loss",
			weather:     &weather.Snapshot{Temperature: -5, Humidity: 20},
			state:       monitoring.ProjectState{ProjectID: "p", Lat: 75, Lon: -10, BaselineNDVI: 0.4, AnnualRainfall: 800},
			wantLevel:   monitoring.AlertCritical,
			wantMessage: "Critical vegetation loss detected",
		},
		{
			// NDVI 0.68 against a 0.9 baseline is a 24% decline.
			name:        "vegetation decline",
			weather:     &weather.Snapshot{Temperature: 27, Humidity: 75},
			state:       monitoring.ProjectState{ProjectID: "p", Lat: 0.5, Lon: 34, BaselineNDVI: 0.9, AnnualRainfall: 1200},
			wantLevel:   monitoring.AlertHigh,
			wantMessage: "Significant vegetation decline detected",
		},
		{
			// NDVI exactly 0.35: thin canopy plus 1600mm rainfall scores
			// high erosion before the below-optimal rule is reached.
			name:        "erosion risk",
			weather:     &weather.Snapshot{Temperature: 18, Humidity: 50},
			state:       monitoring.ProjectState{ProjectID: "p", Lat: 40, Lon: 5, BaselineNDVI: 0.35, AnnualRainfall: 1600},
			wantLevel:   monitoring.AlertHigh,
			wantMessage: "High erosion risk detected",
		},
		{
			name:        "vegetation below optimal",
			weather:     &weather.Snapshot{Temperature: 18, Humidity: 50},
			state:       monitoring.ProjectState{ProjectID: "p", Lat: 40, Lon: 0, BaselineNDVI: 0.25, AnnualRainfall: 800},
			wantLevel:   monitoring.AlertMedium,
			wantMessage: "Vegetation health below optimal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(&mockWeather{snapshot: tt.weather}, monitoring.NewInMemoryRepository())

			sample := service.Snapshot(context.Background(), tt.state)

			assert.Equal(t, tt.wantLevel, sample.AlertLevel)
			assert.Equal(t, tt.wantMessage, sample.AlertMessage)
		})
	}
}

func TestService_Refresh_PersistsSample(t *testing.T) {
	repo := monitoring.NewInMemoryRepository()
	service := newService(warmHumidWeather(), repo)

	sample, err := service.Refresh(context.Background(), equatorialState())
	require.NoError(t, err)
	assert.Contains(t, sample.ID, "smp_")

	latest, err := service.Latest(context.Background(), "prj_test")
	require.NoError(t, err)
	assert.Equal(t, sample.ID, latest.ID)
}

func TestService_Latest_NoSamples(t *testing.T) {
	service := newService(warmHumidWeather(), monitoring.NewInMemoryRepository())

	_, err := service.Latest(context.Background(), "prj_none")
	require.ErrorIs(t, err, monitoring.ErrSampleNotFound)
}

func TestService_Backfill(t *testing.T) {
	repo := monitoring.NewInMemoryRepository()
	service := newService(warmHumidWeather(), repo)

	inserted, err := service.Backfill(context.Background(), equatorialState(), 10)
	require.NoError(t, err)
	assert.Equal(t, 10, inserted)

	samples, err := service.History(context.Background(), "prj_test", monitoring.PeriodMonth)
	require.NoError(t, err)
	require.Len(t, samples, 10)

	// Oldest sample is scaled by 0.8, newest approaches 1.2x: the simulated
	// trend improves over time and derived fields follow the scaled value.
	first, last := samples[0], samples[len(samples)-1]
	assert.Less(t, first.NDVI, last.NDVI)
	assert.True(t, first.RecordedAt.Before(last.RecordedAt))
	assert.InDelta(t, 0.54, first.NDVI, 0.001)
	assert.Equal(t, estimate.HealthGood, first.VegetationHealth)
	assert.Equal(t, estimate.HealthExcellent, last.VegetationHealth)
	assert.Less(t, first.CanopyCover, last.CanopyCover)
}

func TestService_Backfill_SkipsWhenHistoryExists(t *testing.T) {
	repo := monitoring.NewInMemoryRepository()
	service := newService(warmHumidWeather(), repo)

	_, err := service.Refresh(context.Background(), equatorialState())
	require.NoError(t, err)

	_, err = service.Backfill(context.Background(), equatorialState(), 10)
	require.ErrorIs(t, err, monitoring.ErrHistoryExists)
}

func TestService_Snapshot_Deterministic(t *testing.T) {
	first := newService(warmHumidWeather(), monitoring.NewInMemoryRepository())
	second := newService(warmHumidWeather(), monitoring.NewInMemoryRepository())

	a := first.Snapshot(context.Background(), equatorialState())
	b := second.Snapshot(context.Background(), equatorialState())

	assert.Equal(t, a.NDVI, b.NDVI)
	assert.Equal(t, a.CanopyCover, b.CanopyCover)
	assert.Equal(t, a.ErosionRisk, b.ErosionRisk)
}

func TestService_History_FiltersByPeriod(t *testing.T) {
	repo := monitoring.NewInMemoryRepository()
	service := newService(warmHumidWeather(), repo)

	old := service.Snapshot(context.Background(), equatorialState())
	old.RecordedAt = time.Now().UTC().AddDate(0, 0, -40)
	require.NoError(t, repo.Insert(context.Background(), old))

	recent, err := service.Refresh(context.Background(), equatorialState())
	require.NoError(t, err)

	samples, err := service.History(context.Background(), "prj_test", monitoring.PeriodMonth)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, recent.ID, samples[0].ID)

	samples, err = service.History(context.Background(), "prj_test", monitoring.PeriodYear)
	require.NoError(t, err)
	assert.Len(t, samples, 2)
}

func TestPeriod_Duration(t *testing.T) {
	assert.Equal(t, 7*24*time.Hour, monitoring.PeriodWeek.Duration())
	assert.Equal(t, 30*24*time.Hour, monitoring.PeriodMonth.Duration())
	assert.Equal(t, 90*24*time.Hour, monitoring.PeriodQuarter.Duration())
	assert.Equal(t, 365*24*time.Hour, monitoring.PeriodYear.Duration())
	assert.Equal(t, 30*24*time.Hour, monitoring.Period("bogus").Duration())
}
