package handler

import (
	"net/http"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/notification"
)

// MetadataHandler handles metadata endpoints.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// GetEnums handles GET /v1/metadata/enums - get enum values used by the API.
func (h *MetadataHandler) GetEnums(w http.ResponseWriter, r *http.Request) {
	enums := models.Enums{
		ProjectTypes: []models.ProjectType{
			models.ProjectTypeReforestation,
			models.ProjectTypeSoilConservation,
			models.ProjectTypeWatershed,
			models.ProjectTypeAgroforestry,
		},
		ProjectStatuses: []models.ProjectStatus{
			models.ProjectStatusPlanning,
			models.ProjectStatusActive,
			models.ProjectStatusCompleted,
			models.ProjectStatusPaused,
		},
		MonitoringPeriods: []string{
			string(monitoring.PeriodWeek),
			string(monitoring.PeriodMonth),
			string(monitoring.PeriodQuarter),
			string(monitoring.PeriodYear),
		},
		DegradationLevels: []string{
			string(estimate.DegradationMinimal),
			string(estimate.DegradationModerate),
			string(estimate.DegradationSevere),
			string(estimate.DegradationCritical),
		},
		AlertLevels: []string{
			string(monitoring.AlertNone),
			string(monitoring.AlertLow),
			string(monitoring.AlertMedium),
			string(monitoring.AlertHigh),
			string(monitoring.AlertCritical),
		},
		NotificationTypes: []string{
			string(notification.TypeProjectCreated),
			string(notification.TypeProjectUpdated),
			string(notification.TypeStatusChanged),
			string(notification.TypeProjectCompleted),
			string(notification.TypeProjectDeleted),
			string(notification.TypeProgressUpdated),
			string(notification.TypeAnalysisComplete),
			string(notification.TypeMilestoneReached),
			string(notification.TypeMonitoringAlert),
			string(notification.TypeSystem),
		},
	}
	response.JSON(w, r, http.StatusOK, enums)
}
