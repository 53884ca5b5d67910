package models

// Enums contains the enum values used by the API, for client-side pickers
// and validation.
type Enums struct {
	ProjectTypes      []ProjectType   `json:"projectTypes"`
	ProjectStatuses   []ProjectStatus `json:"projectStatuses"`
	MonitoringPeriods []string        `json:"monitoringPeriods"`
	DegradationLevels []string        `json:"degradationLevels"`
	AlertLevels       []string        `json:"alertLevels"`
	NotificationTypes []string        `json:"notificationTypes"`
}
