package models

// ProjectStatus represents the lifecycle status of a restoration project.
type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusPaused    ProjectStatus = "paused"
)

// ProjectType represents the kind of restoration work a project performs.
type ProjectType string

const (
	ProjectTypeReforestation    ProjectType = "reforestation"
	ProjectTypeSoilConservation ProjectType = "soil-conservation"
	ProjectTypeWatershed        ProjectType = "watershed"
	ProjectTypeAgroforestry     ProjectType = "agroforestry"
)

// ProjectAnalysis is the environmental analysis snapshot stored on a project.
type ProjectAnalysis struct {
	SoilType              string   `json:"soilType"`
	SoilPH                float64  `json:"soilPh"`
	SoilFertility         string   `json:"soilFertility"`
	ClimateZone           string   `json:"climateZone"`
	AnnualRainfallMM      int      `json:"annualRainfallMm"`
	Temperature           float64  `json:"temperature"`
	Humidity              float64  `json:"humidity"`
	ElevationMeters       float64  `json:"elevationMeters"`
	VegetationIndex       float64  `json:"vegetationIndex"`
	DegradationLevel      string   `json:"degradationLevel"`
	RecommendedCrops      []string `json:"recommendedCrops"`
	RecommendedTrees      []string `json:"recommendedTrees"`
	RestorationTechniques []string `json:"restorationTechniques"`
	TimelineMonths        int      `json:"timelineMonths"`
	EstimatedBudget       float64  `json:"estimatedBudget"`
}

// Project represents a land restoration project.
type Project struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	Description    *string          `json:"description,omitempty"`
	Type           ProjectType      `json:"projectType"`
	AreaHectares   float64          `json:"areaHectares"`
	LocationName   string           `json:"locationName"`
	Point          Point            `json:"point"`
	Analysis       *ProjectAnalysis `json:"analysis,omitempty"`
	Status         ProjectStatus    `json:"status"`
	Progress       int              `json:"progress"`
	StartDate      *Timestamp       `json:"startDate,omitempty"`
	EndDate        *Timestamp       `json:"endDate,omitempty"`
	CreatedAt      Timestamp        `json:"createdAt"`
	UpdatedAt      Timestamp        `json:"updatedAt"`
	LastAnalyzedAt *Timestamp       `json:"lastAnalyzedAt,omitempty"`
}

// ProjectCreateRequest is the request body for creating a project.
type ProjectCreateRequest struct {
	Name         string      `json:"name" validate:"required,min=1,max=255"`
	Description  *string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	Type         ProjectType `json:"projectType" validate:"required"`
	AreaHectares float64     `json:"areaHectares" validate:"required,gt=0"`
	Point        Point       `json:"point" validate:"required"`
}

// ProjectUpdateRequest is the request body for updating a project.
// Progress above zero activates a planned project; reaching 100 completes it.
type ProjectUpdateRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Progress    *int           `json:"progress,omitempty" validate:"omitempty,gte=0,lte=100"`
	EndDate     *Timestamp     `json:"endDate,omitempty"`
}

// PagedProjects represents a paginated list of projects.
type PagedProjects struct {
	Items []Project         `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
