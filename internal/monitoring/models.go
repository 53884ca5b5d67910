package monitoring

import (
	"errors"
	"time"

	"github.com/terrasense/terrasense/internal/estimate"
)

// Service errors.
var (
	ErrSampleNotFound = errors.New("monitoring sample not found")
	ErrHistoryExists  = errors.New("monitoring history already exists")
)

// Trend is the direction vegetation is moving relative to the baseline.
type Trend string

// Degradation trends.
const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
)

// AlertLevel grades how urgently a sample needs attention.
type AlertLevel string

// Alert levels from quietest to loudest.
const (
	AlertNone     AlertLevel = "none"
	AlertLow      AlertLevel = "low"
	AlertMedium   AlertLevel = "medium"
	AlertHigh     AlertLevel = "high"
	AlertCritical AlertLevel = "critical"
)

// Period selects how far back a sample listing reaches.
type Period string

// Listing periods.
const (
	PeriodWeek    Period = "7d"
	PeriodMonth   Period = "30d"
	PeriodQuarter Period = "90d"
	PeriodYear    Period = "1y"
)

// Duration returns the period's length. Unknown periods default to 30 days.
func (p Period) Duration() time.Duration {
	switch p {
	case PeriodWeek:
		return 7 * 24 * time.Hour
	case PeriodQuarter:
		return 90 * 24 * time.Hour
	case PeriodYear:
		return 365 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// Valid reports whether p is one of the supported listing periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// ProjectState is the slice of a project's stored attributes the snapshot
// generator reads. Zero values mean the project has not been analyzed yet
// and fall back to the generator's defaults.
type ProjectState struct {
	ProjectID      string
	Lat            float64
	Lon            float64
	BaselineNDVI   float64
	SoilPH         float64
	AnnualRainfall int
}

// Sample is one monitoring reading for a project. Samples are immutable
// once recorded; a project accumulates them as a time series.
type Sample struct {
	ID        string
	ProjectID string

	NDVI             float64
	VegetationHealth estimate.HealthRating

	// CanopyCover and SoilMoisture are percentages.
	CanopyCover  float64
	SoilMoisture float64

	// SoilTemperature approximates soil temperature with air temperature.
	SoilTemperature float64
	SoilPH          float64
	ErosionRisk     estimate.RiskLevel

	Temperature float64
	Humidity    float64
	WindSpeed   float64

	// VegetationChange is the percentage delta against the project's
	// baseline NDVI, 0 when no baseline exists.
	VegetationChange float64
	DegradationTrend Trend

	AlertLevel   AlertLevel
	AlertMessage string

	RecordedAt time.Time
}
