package dashboard

import (
	"time"

	"github.com/terrasense/terrasense/internal/project"
)

const (
	// DefaultHealthScore is reported when no monitoring data exists yet.
	DefaultHealthScore = 78

	// TrailingWindowDays bounds both the new-project count and the
	// monitoring averages feeding the health score.
	TrailingWindowDays = 30

	// DefaultRecentLimit is how many recent projects the summary carries.
	DefaultRecentLimit = 3
)

// Health score weights: NDVI 40%, soil moisture 30%, canopy cover 30%.
const (
	ndviWeight     = 0.4
	moistureWeight = 0.3
	canopyWeight   = 0.3
)

// Stats holds per-user dashboard aggregates.
type Stats struct {
	TotalProjects     int
	ActiveProjects    int
	PlanningProjects  int
	CompletedProjects int
	PausedProjects    int

	TotalAreaHectares float64
	AvgNDVI           float64
	AvgProgress       float64

	// NewProjectsThisMonth counts projects created within the trailing window.
	NewProjectsThisMonth int

	// HealthScore is the 0-100 land health score over recent monitoring data.
	HealthScore int

	// Metric percentages derived from the same monitoring averages.
	VegetationCover int
	SoilQuality     int
	WaterRetention  int
}

// Summary is the complete dashboard payload: aggregates plus the newest
// projects for the overview cards.
type Summary struct {
	Stats          *Stats
	RecentProjects []*project.Project
	GeneratedAt    time.Time
}

// HealthScore converts windowed monitoring averages into a 0-100 land health
// score. NDVI is a 0-1 fraction; moisture and canopy are percentages. When
// no reading carries any signal the default score is returned.
func HealthScore(avgNDVI, avgMoisture, avgCanopy float64) int {
	if avgNDVI <= 0 && avgMoisture <= 0 && avgCanopy <= 0 {
		return DefaultHealthScore
	}

	score := int(avgNDVI*100*ndviWeight + avgMoisture*moistureWeight + avgCanopy*canopyWeight)
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// percentOfFraction converts a 0-1 reading to a whole percentage capped at 100.
func percentOfFraction(v float64) int {
	return capPercent(v * 100)
}

// capPercent truncates a percentage reading into the 0-100 integer range.
func capPercent(v float64) int {
	if v <= 0 {
		return 0
	}
	if v >= 100 {
		return 100
	}
	return int(v)
}
