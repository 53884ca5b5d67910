package handler

import (
	"net/http"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/dashboard"
	"github.com/terrasense/terrasense/internal/project"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// GetStats handles GET /v1/dashboard/stats - aggregates plus recent projects.
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	summary, err := h.dashboardService.Summary(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to build dashboard")
		return
	}

	out := models.DashboardSummary{
		Stats:          toDashboardStats(summary.Stats),
		RecentProjects: make([]models.Project, 0, len(summary.RecentProjects)),
		GeneratedAt:    models.Timestamp(summary.GeneratedAt),
	}
	for _, p := range summary.RecentProjects {
		out.RecentProjects = append(out.RecentProjects, project.APIProject(p))
	}

	response.JSON(w, r, http.StatusOK, out)
}

// toDashboardStats converts domain aggregates to their API shape.
func toDashboardStats(s *dashboard.Stats) models.DashboardStats {
	return models.DashboardStats{
		TotalProjects:        s.TotalProjects,
		ActiveProjects:       s.ActiveProjects,
		PlanningProjects:     s.PlanningProjects,
		CompletedProjects:    s.CompletedProjects,
		PausedProjects:       s.PausedProjects,
		TotalAreaHectares:    s.TotalAreaHectares,
		AvgNDVI:              s.AvgNDVI,
		AvgProgress:          s.AvgProgress,
		NewProjectsThisMonth: s.NewProjectsThisMonth,
		HealthScore:          s.HealthScore,
		VegetationCover:      s.VegetationCover,
		SoilQuality:          s.SoilQuality,
		WaterRetention:       s.WaterRetention,
	}
}
