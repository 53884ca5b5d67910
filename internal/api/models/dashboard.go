package models

// DashboardStats holds a user's portfolio aggregates.
type DashboardStats struct {
	TotalProjects     int `json:"totalProjects"`
	ActiveProjects    int `json:"activeProjects"`
	PlanningProjects  int `json:"planningProjects"`
	CompletedProjects int `json:"completedProjects"`
	PausedProjects    int `json:"pausedProjects"`

	TotalAreaHectares float64 `json:"totalAreaHectares"`
	AvgNDVI           float64 `json:"avgNdvi"`
	AvgProgress       float64 `json:"avgProgress"`

	NewProjectsThisMonth int `json:"newProjectsThisMonth"`

	HealthScore     int `json:"healthScore"`
	VegetationCover int `json:"vegetationCover"`
	SoilQuality     int `json:"soilQuality"`
	WaterRetention  int `json:"waterRetention"`
}

// DashboardSummary is the landing-view payload: aggregates plus the newest
// projects.
type DashboardSummary struct {
	Stats          DashboardStats `json:"stats"`
	RecentProjects []Project      `json:"recentProjects"`
	GeneratedAt    Timestamp      `json:"generatedAt"`
}
