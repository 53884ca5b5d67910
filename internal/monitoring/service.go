// Package monitoring derives and stores per-project monitoring samples:
// vegetation, soil and erosion readings estimated from fresh weather against
// the project's stored analysis baseline.
package monitoring

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/weather"
)

// Defaults applied when a project has no stored analysis to read from.
const (
	DefaultSoilPH         = 6.5
	DefaultAnnualRainfall = 800
	DefaultBackfillDays   = 30
)

// WeatherSource provides current weather snapshots.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

// ServiceConfig holds configuration for the monitoring service.
type ServiceConfig struct {
	// Weather provides the fresh readings each sample derives from.
	Weather WeatherSource

	// Repository stores samples.
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// Slope is the terrain slope in degrees fed to the erosion estimator
	// (default: 5, a flat-site assumption until real slope data exists).
	Slope float64
}

// Service generates and stores monitoring samples.
type Service struct {
	weather WeatherSource
	repo    Repository
	logger  zerolog.Logger
	slope   float64
}

// NewService creates a new monitoring service.
func NewService(cfg ServiceConfig) *Service {
	slope := cfg.Slope
	if slope == 0 {
		slope = 5
	}

	return &Service{
		weather: cfg.Weather,
		repo:    cfg.Repository,
		logger:  cfg.Logger.With().Str("component", "monitoring_service").Logger(),
		slope:   slope,
	}
}

// Snapshot derives a fresh sample for the project without persisting it.
// It never fails: weather degrades to the deterministic estimate.
func (s *Service) Snapshot(ctx context.Context, state ProjectState) *Sample {
	snap := s.currentWeather(ctx, state)
	ndvi := estimate.NDVI(state.Lat, state.Lon, snap.Temperature, snap.Humidity, nil)
	return s.derive(state, snap, ndvi, time.Now().UTC())
}

// Refresh derives a fresh sample and stores it.
func (s *Service) Refresh(ctx context.Context, state ProjectState) (*Sample, error) {
	sample := s.Snapshot(ctx, state)
	if err := s.repo.Insert(ctx, sample); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", state.ProjectID).
		Float64("ndvi", sample.NDVI).
		Str("alert_level", string(sample.AlertLevel)).
		Msg("Monitoring sample recorded")

	return sample, nil
}

// History returns the project's samples within the period, oldest first.
func (s *Service) History(ctx context.Context, projectID string, period Period) ([]*Sample, error) {
	since := time.Now().UTC().Add(-period.Duration())
	return s.repo.ListSince(ctx, projectID, since)
}

// Latest returns the project's most recent sample.
func (s *Service) Latest(ctx context.Context, projectID string) (*Sample, error) {
	return s.repo.Latest(ctx, projectID)
}

// Backfill seeds one synthetic sample per day for the past days, simulating
// gradual improvement: day i of [days..1] scales the current NDVI by
// 0.8 + 0.4*(days-i)/days, clamped to [0.1, 1.0], with every derived field
// recomputed from the scaled value. Returns ErrHistoryExists when the
// project already has samples.
func (s *Service) Backfill(ctx context.Context, state ProjectState, days int) (int, error) {
	if days <= 0 {
		days = DefaultBackfillDays
	}

	existing, err := s.repo.CountByProject(ctx, state.ProjectID)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, ErrHistoryExists
	}

	snap := s.currentWeather(ctx, state)
	baseNDVI := estimate.NDVI(state.Lat, state.Lon, snap.Temperature, snap.Humidity, nil)

	now := time.Now().UTC()
	inserted := 0
	for i := days; i >= 1; i-- {
		progress := float64(days-i) / float64(days)
		ndvi := round2(clampFloat(baseNDVI*(0.8+progress*0.4), 0.1, 1.0))

		sample := s.derive(state, snap, ndvi, now.AddDate(0, 0, -i))
		if err := s.repo.Insert(ctx, sample); err != nil {
			return inserted, err
		}
		inserted++
	}

	s.logger.Info().
		Str("project_id", state.ProjectID).
		Int("days", inserted).
		Msg("Monitoring history backfilled")

	return inserted, nil
}

// currentWeather fetches live weather, degrading to the deterministic
// estimate so sample generation cannot fail.
func (s *Service) currentWeather(ctx context.Context, state ProjectState) *weather.Snapshot {
	snap, err := s.weather.Current(ctx, state.Lat, state.Lon)
	if err != nil || snap == nil {
		snap = weather.Estimate(state.Lat, state.Lon)
	}
	return snap
}

// derive computes every sample field from one NDVI value and one weather
// reading.
func (s *Service) derive(state ProjectState, snap *weather.Snapshot, ndvi float64, at time.Time) *Sample {
	canopy := round2(clampFloat((ndvi-0.1)*111, 0, 100))
	moisture := round2(math.Min(snap.Humidity*0.7, 100))

	rainfall := float64(state.AnnualRainfall)
	if rainfall == 0 {
		rainfall = DefaultAnnualRainfall
	}
	erosion := estimate.ErosionRisk(s.slope, canopy, rainfall)

	var change float64
	if state.BaselineNDVI > 0 {
		change = round2((ndvi - state.BaselineNDVI) / state.BaselineNDVI * 100)
	}

	trend := TrendDeclining
	if change > 0 {
		trend = TrendImproving
	}

	soilPH := state.SoilPH
	if soilPH == 0 {
		soilPH = DefaultSoilPH
	}

	level, message := classifyAlert(ndvi, change, erosion)

	return &Sample{
		ID:               "smp_" + uuid.New().String()[:22],
		ProjectID:        state.ProjectID,
		NDVI:             ndvi,
		VegetationHealth: estimate.VegetationHealth(ndvi),
		CanopyCover:      canopy,
		SoilMoisture:     moisture,
		SoilTemperature:  snap.Temperature,
		SoilPH:           soilPH,
		ErosionRisk:      erosion,
		Temperature:      snap.Temperature,
		Humidity:         snap.Humidity,
		WindSpeed:        snap.WindSpeed,
		VegetationChange: change,
		DegradationTrend: trend,
		AlertLevel:       level,
		AlertMessage:     message,
		RecordedAt:       at,
	}
}

// classifyAlert walks the alert decision table in priority order; the first
// match wins.
func classifyAlert(ndvi, change float64, erosion estimate.RiskLevel) (AlertLevel, string) {
	switch {
	case ndvi < 0.2:
		return AlertCritical, "Critical vegetation loss detected"
	case change < -20:
		return AlertHigh, "Significant vegetation decline detected"
	case erosion == estimate.RiskHigh || erosion == estimate.RiskCritical:
		return AlertHigh, capitalize(string(erosion)) + " erosion risk detected"
	case ndvi < 0.35:
		return AlertMedium, "Vegetation health below optimal"
	default:
		return AlertNone, ""
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
