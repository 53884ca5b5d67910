package models

// MonitoringSample is one vegetation/soil reading for a project.
type MonitoringSample struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`

	NDVI             float64 `json:"ndvi"`
	VegetationHealth string  `json:"vegetationHealth"`
	CanopyCover      float64 `json:"canopyCover"`

	SoilMoisture    float64 `json:"soilMoisture"`
	SoilTemperature float64 `json:"soilTemperature"`
	SoilPH          float64 `json:"soilPh"`
	ErosionRisk     string  `json:"erosionRisk"`

	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`

	VegetationChange float64 `json:"vegetationChange"`
	DegradationTrend string  `json:"degradationTrend"`

	AlertLevel   string `json:"alertLevel"`
	AlertMessage string `json:"alertMessage,omitempty"`

	RecordedAt Timestamp `json:"recordedAt"`
}

// MonitoringHistory is a project's sample series over a period, oldest first.
type MonitoringHistory struct {
	ProjectID string             `json:"projectId"`
	Period    string             `json:"period"`
	Samples   []MonitoringSample `json:"samples"`

	// Latest is the most recent sample, nil when the project has none.
	Latest *MonitoringSample `json:"latest,omitempty"`
}

// BackfillResult reports how much synthetic history a backfill seeded.
type BackfillResult struct {
	ProjectID string `json:"projectId"`
	Inserted  int    `json:"inserted"`
}
