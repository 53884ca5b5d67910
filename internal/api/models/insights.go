package models

// TrendSummary summarizes the NDVI series over the analysis window.
type TrendSummary struct {
	Current       float64     `json:"current"`
	Previous      float64     `json:"previous"`
	Change        float64     `json:"change"`
	ChangePercent float64     `json:"changePercent"`
	Direction     string      `json:"direction"`
	Avg           float64     `json:"avg"`
	Volatility    float64     `json:"volatility"`
	Values        []float64   `json:"values,omitempty"`
	Dates         []Timestamp `json:"dates,omitempty"`
}

// InsightCard is a single advisory card.
type InsightCard struct {
	Kind            string   `json:"kind"`
	Category        string   `json:"category"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Confidence      int      `json:"confidence"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// InsightReport is the full insight set generated for a project.
type InsightReport struct {
	ProjectID string `json:"projectId"`

	// Trend is omitted when fewer than two samples exist.
	Trend       *TrendSummary `json:"trend,omitempty"`
	Insights    []InsightCard `json:"insights"`
	GeneratedAt Timestamp     `json:"generatedAt"`
}
