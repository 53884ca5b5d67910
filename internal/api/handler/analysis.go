package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/terrasense/terrasense/internal/analysis"
	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/weather"
)

// AnalysisHandler handles ad-hoc land analysis endpoints.
type AnalysisHandler struct {
	engine *analysis.Engine
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(engine *analysis.Engine) *AnalysisHandler {
	return &AnalysisHandler{
		engine: engine,
	}
}

// Analyze handles POST /v1/analysis - run a land analysis for a plot without
// creating a project.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := analysis.ValidateInput(req.Point.Lat, req.Point.Lon, req.AreaHectares); err != nil {
		response.BadRequest(w, r, "validation error", analysisFieldErrors(err))
		return
	}

	result, err := h.engine.Analyze(r.Context(), req.Point.Lat, req.Point.Lon, req.AreaHectares)
	if err != nil {
		if fieldErrors := analysisFieldErrors(err); fieldErrors != nil {
			response.BadRequest(w, r, "validation error", fieldErrors)
			return
		}

		response.InternalError(w, r, "analysis failed")
		return
	}

	response.JSON(w, r, http.StatusOK, toLandAnalysisResponse(result))
}

// analysisFieldErrors maps engine validation errors to field errors. Returns
// nil for anything that is not a validation error.
func analysisFieldErrors(err error) []models.FieldError {
	switch {
	case errors.Is(err, analysis.ErrInvalidCoordinates):
		return []models.FieldError{
			{Field: "point", Message: "must be a valid coordinate", Code: "OUT_OF_RANGE"},
		}
	case errors.Is(err, analysis.ErrInvalidArea):
		return []models.FieldError{
			{Field: "areaHectares", Message: "must be greater than zero", Code: "OUT_OF_RANGE"},
		}
	default:
		return nil
	}
}

// toLandAnalysisResponse converts a domain analysis to its API shape.
func toLandAnalysisResponse(a *analysis.LandAnalysis) models.LandAnalysisResponse {
	return models.LandAnalysisResponse{
		LocationName:     a.LocationName,
		Point:            models.Point{Lat: a.Lat, Lon: a.Lon},
		AreaHectares:     a.AreaHectares,
		ElevationMeters:  a.Elevation,
		ClimateZone:      string(a.ClimateZone),
		AnnualRainfallMM: a.AnnualRainfall,
		SoilType:         a.SoilType,
		SoilPH:           a.SoilPH,
		SoilFertility:    string(a.SoilFertility),
		VegetationIndex:  a.VegetationIndex,
		DegradationLevel: string(a.DegradationLevel),
		CurrentWeather:   toWeatherConditions(a.CurrentWeather),
		ClimateSummary:   toClimateSummary(a.ClimateHistory),
		Plan: models.RestorationPlan{
			RecommendedCrops:      a.RecommendedCrops,
			RecommendedTrees:      a.RecommendedTrees,
			RestorationTechniques: a.RestorationTechniques,
			TimelineMonths:        a.EstimatedTimelineMonths,
			EstimatedBudget:       a.EstimatedBudget,
		},
		AnalyzedAt: models.Timestamp(a.AnalyzedAt),
	}
}

// toWeatherConditions converts a weather snapshot to its API shape.
func toWeatherConditions(s *weather.Snapshot) *models.WeatherConditions {
	if s == nil {
		return nil
	}

	return &models.WeatherConditions{
		Temperature:  s.Temperature,
		FeelsLike:    s.FeelsLike,
		Humidity:     s.Humidity,
		Pressure:     s.Pressure,
		Description:  s.Description,
		WindSpeed:    s.WindSpeed,
		CloudCover:   s.CloudCover,
		VisibilityKM: s.VisibilityKM,
		Sunrise:      models.Timestamp(s.Sunrise),
		Sunset:       models.Timestamp(s.Sunset),
		Estimated:    s.Estimated,
		Source:       s.Source,
	}
}

// toClimateSummary aggregates a climate history window for the API. Returns
// nil when no history was available.
func toClimateSummary(h *climate.History) *models.ClimateSummary {
	if h.IsEmpty() {
		return nil
	}

	temps := h.TemperatureSummary()
	rain := h.RainfallSummary()

	return &models.ClimateSummary{
		WindowDays:    len(h.Temperature.Values),
		TempAvg:       temps.Avg,
		TempMin:       temps.Min,
		TempMax:       temps.Max,
		TempCurrent:   temps.Current,
		RainfallTotal: rain.Total,
		RainfallDaily: rain.AvgDaily,
		DaysWithRain:  rain.DaysWithRain,
		HumidityAvg:   h.HumiditySummary().Avg,
		WindSpeedAvg:  h.AvgWindSpeed(),
		SolarAvg:      h.AvgSolarRadiation(),
		Source:        h.Source,
	}
}
