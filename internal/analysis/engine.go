// Package analysis orchestrates external data sources and the estimators
// into complete land analyses. Every fetch step has a fallback, so for valid
// input an analysis always completes with a best-effort result.
package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/weather"
	"github.com/terrasense/terrasense/pkg/geo"
)

// WeatherSource provides current weather snapshots.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error)
}

// ClimateSource provides recent daily climate history.
type ClimateSource interface {
	RecentHistory(ctx context.Context, lat, lon float64) (*climate.History, error)
}

// NameSource resolves display names for coordinates.
type NameSource interface {
	LocationName(ctx context.Context, lat, lon float64) string
}

// ElevationSource resolves terrain elevation in meters.
type ElevationSource interface {
	Elevation(ctx context.Context, lat, lon float64) float64
}

// EngineConfig holds the engine's collaborators.
type EngineConfig struct {
	Weather   WeatherSource
	Climate   ClimateSource
	Geocode   NameSource
	Elevation ElevationSource

	// Logger for engine operations.
	Logger zerolog.Logger
}

// Engine runs land analyses. It holds no mutable state; concurrent Analyze
// calls are independent.
type Engine struct {
	weather   WeatherSource
	climate   ClimateSource
	geocode   NameSource
	elevation ElevationSource
	logger    zerolog.Logger
}

// NewEngine creates a new analysis engine.
func NewEngine(cfg EngineConfig) *Engine {
	return &Engine{
		weather:   cfg.Weather,
		climate:   cfg.Climate,
		geocode:   cfg.Geocode,
		elevation: cfg.Elevation,
		logger:    cfg.Logger.With().Str("component", "analysis_engine").Logger(),
	}
}

// ValidateInput checks analysis input. Out-of-range coordinates and
// non-positive areas are rejected rather than clamped.
func ValidateInput(lat, lon, areaHectares float64) error {
	if !geo.Valid(lat, lon) {
		return ErrInvalidCoordinates
	}
	if areaHectares <= 0 {
		return ErrInvalidArea
	}
	return nil
}

// Analyze produces a complete land analysis for the given plot. The
// independent fetches (location name, weather, climate history, elevation)
// run concurrently; the derivation chain runs serially on their results.
// The only error it returns is for invalid input.
func (e *Engine) Analyze(ctx context.Context, lat, lon, areaHectares float64) (*LandAnalysis, error) {
	if err := ValidateInput(lat, lon, areaHectares); err != nil {
		return nil, err
	}

	start := time.Now()

	var (
		wg           sync.WaitGroup
		locationName string
		snapshot     *weather.Snapshot
		history      *climate.History
		elevationM   float64
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		locationName = e.geocode.LocationName(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		snap, err := e.weather.Current(ctx, lat, lon)
		if err != nil || snap == nil {
			snap = weather.Estimate(lat, lon)
		}
		snapshot = snap
	}()
	go func() {
		defer wg.Done()
		h, err := e.climate.RecentHistory(ctx, lat, lon)
		if err != nil {
			// No data and provider-down both mean the estimators run on
			// defaults instead of zero-filled readings.
			e.logger.Debug().Err(err).Msg("Climate history unavailable")
			return
		}
		history = h
	}()
	go func() {
		defer wg.Done()
		elevationM = e.elevation.Elevation(ctx, lat, lon)
	}()
	wg.Wait()

	temperature := snapshot.Temperature
	humidity := snapshot.Humidity

	var recentTemps []float64
	if !history.IsEmpty() {
		recentTemps = history.Temperature.Values
	}

	ndvi := estimate.NDVI(lat, lon, temperature, humidity, recentTemps)
	zone := estimate.ClimateZone(lat, temperature)
	soilType := estimate.SoilType(lat, lon, elevationM)
	soilPH := estimate.SoilPH(soilType, humidity)
	rainfall := estimate.AnnualRainfall(zone, humidity, lon)
	degradation := estimate.Degradation(ndvi, soilPH, areaHectares)
	rec := estimate.Recommend(zone, soilType, soilPH, degradation, rainfall)

	result := &LandAnalysis{
		LocationName:            locationName,
		Lat:                     lat,
		Lon:                     lon,
		AreaHectares:            areaHectares,
		Elevation:               elevationM,
		CurrentWeather:          snapshot,
		ClimateHistory:          history,
		ClimateZone:             zone,
		AnnualRainfall:          rainfall,
		SoilType:                soilType,
		SoilPH:                  soilPH,
		SoilFertility:           estimate.Fertility(soilPH, ndvi),
		VegetationIndex:         ndvi,
		DegradationLevel:        degradation,
		RecommendedCrops:        rec.Crops,
		RecommendedTrees:        rec.Trees,
		RestorationTechniques:   rec.Techniques,
		EstimatedTimelineMonths: rec.TimelineMonths,
		EstimatedBudget:         rec.BudgetPerHectare * areaHectares,
		AnalyzedAt:              time.Now().UTC(),
	}

	e.logger.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Float64("area_hectares", areaHectares).
		Str("climate_zone", string(zone)).
		Str("degradation_level", string(degradation)).
		Float64("ndvi", ndvi).
		Dur("took", time.Since(start)).
		Msg("Land analysis complete")

	return result, nil
}
