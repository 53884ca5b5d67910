package models

// AnalyzeRequest is the request body for an ad-hoc land analysis.
type AnalyzeRequest struct {
	Point        Point   `json:"point" validate:"required"`
	AreaHectares float64 `json:"areaHectares" validate:"required,gt=0"`
}

// WeatherConditions is the current-weather section of an analysis response.
// Estimated marks readings synthesized from coordinates rather than observed.
type WeatherConditions struct {
	Temperature  float64   `json:"temperature"`
	FeelsLike    float64   `json:"feelsLike"`
	Humidity     float64   `json:"humidity"`
	Pressure     float64   `json:"pressure"`
	Description  string    `json:"description"`
	WindSpeed    float64   `json:"windSpeed"`
	CloudCover   float64   `json:"cloudCover"`
	VisibilityKM float64   `json:"visibilityKm"`
	Sunrise      Timestamp `json:"sunrise"`
	Sunset       Timestamp `json:"sunset"`
	Estimated    bool      `json:"estimated"`
	Source       string    `json:"source"`
}

// ClimateSummary aggregates the trailing climate history window.
type ClimateSummary struct {
	WindowDays    int     `json:"windowDays"`
	TempAvg       float64 `json:"tempAvg"`
	TempMin       float64 `json:"tempMin"`
	TempMax       float64 `json:"tempMax"`
	TempCurrent   float64 `json:"tempCurrent"`
	RainfallTotal float64 `json:"rainfallTotal"`
	RainfallDaily float64 `json:"rainfallDaily"`
	DaysWithRain  int     `json:"daysWithRain"`
	HumidityAvg   float64 `json:"humidityAvg"`
	WindSpeedAvg  float64 `json:"windSpeedAvg"`
	SolarAvg      float64 `json:"solarAvg"`
	Source        string  `json:"source"`
}

// RestorationPlan is the recommendation section of an analysis response.
type RestorationPlan struct {
	RecommendedCrops      []string `json:"recommendedCrops"`
	RecommendedTrees      []string `json:"recommendedTrees"`
	RestorationTechniques []string `json:"restorationTechniques"`
	TimelineMonths        int      `json:"timelineMonths"`
	EstimatedBudget       float64  `json:"estimatedBudget"`
}

// LandAnalysisResponse is the full result of one analysis run.
type LandAnalysisResponse struct {
	LocationName     string             `json:"locationName"`
	Point            Point              `json:"point"`
	AreaHectares     float64            `json:"areaHectares"`
	ElevationMeters  float64            `json:"elevationMeters"`
	ClimateZone      string             `json:"climateZone"`
	AnnualRainfallMM int                `json:"annualRainfallMm"`
	SoilType         string             `json:"soilType"`
	SoilPH           float64            `json:"soilPh"`
	SoilFertility    string             `json:"soilFertility"`
	VegetationIndex  float64            `json:"vegetationIndex"`
	DegradationLevel string             `json:"degradationLevel"`
	CurrentWeather   *WeatherConditions `json:"currentWeather,omitempty"`
	ClimateSummary   *ClimateSummary    `json:"climateSummary,omitempty"`
	Plan             RestorationPlan    `json:"plan"`
	AnalyzedAt       Timestamp          `json:"analyzedAt"`
}
