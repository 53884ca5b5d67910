package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/insights"
	"github.com/terrasense/terrasense/internal/project"
)

// InsightsHandler handles per-project insight endpoints.
type InsightsHandler struct {
	projectService  *project.Service
	insightsService *insights.Service
}

// NewInsightsHandler creates a new InsightsHandler.
func NewInsightsHandler(projectService *project.Service, insightsService *insights.Service) *InsightsHandler {
	return &InsightsHandler{
		projectService:  projectService,
		insightsService: insightsService,
	}
}

// GetInsights handles GET /v1/projects/{projectId}/insights - trend analytics
// and advisory cards derived from the project's monitoring history.
func (h *InsightsHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		response.BadRequest(w, r, "projectId is required", nil)
		return
	}

	p, err := h.projectService.Get(r.Context(), userID, projectID)
	if err != nil {
		writeProjectLookupError(w, r, err)
		return
	}

	report, err := h.insightsService.Generate(r.Context(), insights.Site{
		ProjectID: p.ID,
		Lat:       p.Point.Lat,
		Lon:       p.Point.Lon,
	})
	if err != nil {
		response.InternalError(w, r, "failed to generate insights")
		return
	}

	response.JSON(w, r, http.StatusOK, toInsightReport(p.ID, report))
}

// toInsightReport converts a domain report to its API shape.
func toInsightReport(projectID string, report *insights.Report) models.InsightReport {
	out := models.InsightReport{
		ProjectID:   projectID,
		Insights:    make([]models.InsightCard, 0, len(report.Insights)),
		GeneratedAt: models.Timestamp(report.GeneratedAt),
	}

	if report.Trend != nil {
		trend := &models.TrendSummary{
			Current:       report.Trend.Current,
			Previous:      report.Trend.Previous,
			Change:        report.Trend.Change,
			ChangePercent: report.Trend.ChangePercent,
			Direction:     string(report.Trend.Direction),
			Avg:           report.Trend.Avg,
			Volatility:    report.Trend.Volatility,
			Values:        report.Trend.Values,
		}
		for _, d := range report.Trend.Dates {
			trend.Dates = append(trend.Dates, models.Timestamp(d))
		}
		out.Trend = trend
	}

	for _, insight := range report.Insights {
		out.Insights = append(out.Insights, models.InsightCard{
			Kind:            string(insight.Kind),
			Category:        string(insight.Category),
			Title:           insight.Title,
			Description:     insight.Description,
			Confidence:      insight.Confidence,
			Recommendations: insight.Recommendations,
		})
	}

	return out
}
