// Package insights derives trend analytics and advisory cards from stored
// monitoring samples and recent climate history.
package insights

import "time"

// Kind classifies the tone of an insight card.
type Kind string

const (
	KindPositive Kind = "positive"
	KindWarning  Kind = "warning"
	KindCritical Kind = "critical"
	KindInfo     Kind = "info"
)

// Category groups insight cards by subject.
type Category string

const (
	CategoryVegetation Category = "vegetation"
	CategoryTrend      Category = "trend"
	CategoryClimate    Category = "climate"
	CategorySoil       Category = "soil"
	CategorySeasonal   Category = "seasonal"
)

// Insight is a single advisory card with a fixed confidence score.
type Insight struct {
	Kind            Kind
	Category        Category
	Title           string
	Description     string
	Confidence      int
	Recommendations []string
}

// Direction describes where a series is heading.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionDeclining Direction = "declining"
	DirectionStable    Direction = "stable"
)

// NDVITrend summarizes the vegetation index series over the analysis window.
type NDVITrend struct {
	Current       float64
	Previous      float64
	Change        float64
	ChangePercent float64
	Direction     Direction
	Values        []float64
	Dates         []time.Time
	Avg           float64
	Volatility    float64
}

// Report is the full insight set generated for a project.
type Report struct {
	// Trend is nil when fewer than two samples exist.
	Trend       *NDVITrend
	Insights    []Insight
	GeneratedAt time.Time
}

// Site identifies the project and location insights are generated for.
type Site struct {
	ProjectID string
	Lat       float64
	Lon       float64
}
