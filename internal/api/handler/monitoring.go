package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/notification"
	"github.com/terrasense/terrasense/internal/project"
)

// MonitoringHandler handles per-project monitoring endpoints.
type MonitoringHandler struct {
	projectService    *project.Service
	monitoringService *monitoring.Service
	notifications     *notification.Service
	flags             *featureflags.Service
}

// NewMonitoringHandler creates a new MonitoringHandler.
func NewMonitoringHandler(
	projectService *project.Service,
	monitoringService *monitoring.Service,
	notifications *notification.Service,
	flags *featureflags.Service,
) *MonitoringHandler {
	return &MonitoringHandler{
		projectService:    projectService,
		monitoringService: monitoringService,
		notifications:     notifications,
		flags:             flags,
	}
}

// GetHistory handles GET /v1/projects/{projectId}/monitoring - list samples
// within a period (7d, 30d, 90d or 1y; default 30d), oldest first.
func (h *MonitoringHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	period := monitoring.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = monitoring.PeriodMonth
	}
	if !period.Valid() {
		response.BadRequest(w, r, "validation error", []models.FieldError{
			{Field: "period", Message: "must be one of 7d, 30d, 90d, 1y"},
		})
		return
	}

	samples, err := h.monitoringService.History(r.Context(), p.ID, period)
	if err != nil {
		response.InternalError(w, r, "failed to load monitoring history")
		return
	}

	history := models.MonitoringHistory{
		ProjectID: p.ID,
		Period:    string(period),
		Samples:   make([]models.MonitoringSample, 0, len(samples)),
	}
	for _, sample := range samples {
		history.Samples = append(history.Samples, toMonitoringSample(sample))
	}
	if len(samples) > 0 {
		latest := toMonitoringSample(samples[len(samples)-1])
		history.Latest = &latest
	}

	response.JSON(w, r, http.StatusOK, history)
}

// Refresh handles POST /v1/projects/{projectId}/monitoring/refresh - derive
// and store a fresh sample. An alerting sample also records a notification.
func (h *MonitoringHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	sample, err := h.monitoringService.Refresh(r.Context(), projectState(p))
	if err != nil {
		response.InternalError(w, r, "failed to record monitoring sample")
		return
	}

	if sample.AlertLevel != monitoring.AlertNone {
		userID := GetUserID(r.Context())
		h.notifications.MonitoringAlert(r.Context(), userID, p.ID, p.Name, sample.AlertMessage)
	}

	response.JSON(w, r, http.StatusCreated, toMonitoringSample(sample))
}

// Backfill handles POST /v1/projects/{projectId}/monitoring/backfill - seed
// synthetic history for a project that has no samples yet.
func (h *MonitoringHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	if !h.flags.IsMonitoringBackfillEnabled(r.Context()) {
		response.ServiceUnavailable(w, r, "monitoring backfill is currently disabled")
		return
	}

	p, ok := h.ownedProject(w, r)
	if !ok {
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "days", Message: "must be an integer between 1 and 365"},
			})
			return
		}
		days = parsed
	}

	inserted, err := h.monitoringService.Backfill(r.Context(), projectState(p), days)
	if err != nil {
		if errors.Is(err, monitoring.ErrHistoryExists) {
			response.Conflict(w, r, "project already has monitoring history")
			return
		}
		response.InternalError(w, r, "failed to backfill monitoring history")
		return
	}

	response.JSON(w, r, http.StatusCreated, models.BackfillResult{
		ProjectID: p.ID,
		Inserted:  inserted,
	})
}

// ownedProject loads the project in the URL for the authenticated user,
// writing the error response itself when that fails.
func (h *MonitoringHandler) ownedProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return nil, false
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return nil, false
	}

	p, err := h.projectService.Get(r.Context(), userID, projectID)
	if err != nil {
		writeProjectLookupError(w, r, err)
		return nil, false
	}

	return p, true
}

// projectState extracts the monitoring inputs from a project. Projects
// without a stored analysis produce zero values, which the sample generator
// replaces with its defaults.
func projectState(p *models.Project) monitoring.ProjectState {
	state := monitoring.ProjectState{
		ProjectID: p.ID,
		Lat:       p.Point.Lat,
		Lon:       p.Point.Lon,
	}
	if p.Analysis != nil {
		state.BaselineNDVI = p.Analysis.VegetationIndex
		state.SoilPH = p.Analysis.SoilPH
		state.AnnualRainfall = p.Analysis.AnnualRainfallMM
	}
	return state
}

// toMonitoringSample converts a domain sample to its API shape.
func toMonitoringSample(s *monitoring.Sample) models.MonitoringSample {
	return models.MonitoringSample{
		ID:               s.ID,
		ProjectID:        s.ProjectID,
		NDVI:             s.NDVI,
		VegetationHealth: string(s.VegetationHealth),
		CanopyCover:      s.CanopyCover,
		SoilMoisture:     s.SoilMoisture,
		SoilTemperature:  s.SoilTemperature,
		SoilPH:           s.SoilPH,
		ErosionRisk:      string(s.ErosionRisk),
		Temperature:      s.Temperature,
		Humidity:         s.Humidity,
		WindSpeed:        s.WindSpeed,
		VegetationChange: s.VegetationChange,
		DegradationTrend: string(s.DegradationTrend),
		AlertLevel:       string(s.AlertLevel),
		AlertMessage:     s.AlertMessage,
		RecordedAt:       models.Timestamp(s.RecordedAt),
	}
}
