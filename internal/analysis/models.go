package analysis

import (
	"errors"
	"time"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/weather"
)

// Validation errors. Invalid input is the only way an analysis can fail.
var (
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrInvalidArea        = errors.New("area must be a positive number of hectares")
)

// LandAnalysis is the complete result of one analysis run. It is constructed
// fresh per run and never mutated afterwards; persistence belongs to the
// caller.
type LandAnalysis struct {
	LocationName string
	Lat          float64
	Lon          float64
	AreaHectares float64

	// Elevation in meters, 0 when the lookup failed.
	Elevation float64

	// CurrentWeather is always populated. When the live fetch failed it
	// holds the deterministic estimate and is marked Estimated.
	CurrentWeather *weather.Snapshot

	// ClimateHistory is nil when the source had no data. Absence means the
	// estimators used their defaults, never all-zero readings.
	ClimateHistory *climate.History

	ClimateZone      estimate.Zone
	AnnualRainfall   int
	SoilType         string
	SoilPH           float64
	SoilFertility    estimate.FertilityLevel
	VegetationIndex  float64
	DegradationLevel estimate.DegradationLevel

	RecommendedCrops        []string
	RecommendedTrees        []string
	RestorationTechniques   []string
	EstimatedTimelineMonths int

	// EstimatedBudget is the per-hectare rate scaled by the area.
	EstimatedBudget float64

	AnalyzedAt time.Time
}
