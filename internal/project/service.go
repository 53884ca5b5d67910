package project

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/analysis"
	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/pkg/geo"
)

// Service errors.
var (
	ErrNotAuthorized = errors.New("not authorized to access this project")
)

// Validation constants.
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 2000
)

// Milestones that trigger a dedicated notification when progress lands on them.
var progressMilestones = []int{25, 50, 75}

// Analyzer produces an environmental analysis for a project site.
type Analyzer interface {
	Analyze(ctx context.Context, lat, lon, areaHectares float64) (*analysis.LandAnalysis, error)
}

// Notifier receives project lifecycle events. Implementations must not block
// and must swallow their own errors; a failed notification never fails the
// operation that produced it.
type Notifier interface {
	ProjectCreated(ctx context.Context, p *Project)
	ProjectUpdated(ctx context.Context, p *Project)
	StatusChanged(ctx context.Context, p *Project, previous Status)
	ProgressUpdated(ctx context.Context, p *Project)
	MilestoneReached(ctx context.Context, p *Project)
	ProjectDeleted(ctx context.Context, userID, name string)
	AnalysisCompleted(ctx context.Context, p *Project)
}

// ServiceConfig holds configuration for the project service.
type ServiceConfig struct {
	// Repository persists projects.
	Repository Repository

	// Analyzer runs the land analysis on create and reanalyze.
	Analyzer Analyzer

	// Notifier receives lifecycle events (optional).
	Notifier Notifier

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service provides project operations.
type Service struct {
	repo     Repository
	analyzer Analyzer
	notifier Notifier
	logger   zerolog.Logger
}

// NewService creates a new project service.
func NewService(cfg ServiceConfig) *Service {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}

	return &Service{
		repo:     cfg.Repository,
		analyzer: cfg.Analyzer,
		notifier: notifier,
		logger:   cfg.Logger,
	}
}

// Create analyzes the project site and persists a new project in planning
// status with the analysis snapshot attached.
func (s *Service) Create(ctx context.Context, userID string, input *models.ProjectCreateRequest) (*models.Project, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	result, err := s.analyzer.Analyze(ctx, input.Point.Lat, input.Point.Lon, input.AreaHectares)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := &Project{
		ID:           "prj_" + uuid.New().String()[:22],
		UserID:       userID,
		Name:         input.Name,
		Description:  input.Description,
		Type:         Type(input.Type),
		AreaHectares: input.AreaHectares,
		Lat:          input.Point.Lat,
		Lon:          input.Point.Lon,
		Status:       StatusPlanning,
		StartDate:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	applyAnalysis(p, result, now)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", p.ID).
		Str("type", string(p.Type)).
		Float64("area_hectares", p.AreaHectares).
		Str("degradation", string(p.DegradationLevel)).
		Msg("Project created")

	s.notifier.ProjectCreated(ctx, p)

	apiProject := APIProject(p)
	return &apiProject, nil
}

// Get retrieves a project by ID for a user.
func (s *Service) Get(ctx context.Context, userID, projectID string) (*models.Project, error) {
	p, err := s.repo.GetByUserAndID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	result := APIProject(p)
	return &result, nil
}

// List retrieves projects for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (*models.PagedProjects, error) {
	if opts.Status != "" && !ValidStatus(opts.Status) {
		return nil, &ValidationError{Errors: []models.FieldError{
			{Field: "status", Message: "must be one of planning, active, completed, paused"},
		}}
	}

	result, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	items := make([]models.Project, 0, len(result.Items))
	for _, p := range result.Items {
		items = append(items, APIProject(p))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	return &models.PagedProjects{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      opts.Limit,
			NextCursor: nextCursor,
		},
	}, nil
}

// Update applies a partial update to a project owned by the user.
// Progress drives status unless status is set explicitly in the same request:
// reaching 100 completes the project and anything above zero activates it.
func (s *Service) Update(ctx context.Context, userID, projectID string, input *models.ProjectUpdateRequest) (*models.Project, error) {
	p, err := s.repo.GetByUserAndID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	previousStatus := p.Status
	previousProgress := p.Progress

	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Progress != nil {
		p.Progress = *input.Progress
		switch {
		case p.Progress >= 100:
			p.Status = StatusCompleted
		case p.Progress > 0:
			p.Status = StatusActive
		}
	}
	if input.Status != nil {
		p.Status = Status(*input.Status)
	}
	if input.EndDate != nil {
		endDate := input.EndDate.Time()
		p.EndDate = &endDate
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.notifier.ProjectUpdated(ctx, p)
	if p.Status != previousStatus {
		s.notifier.StatusChanged(ctx, p, previousStatus)
	}
	if input.Progress != nil && p.Progress != previousProgress {
		s.notifier.ProgressUpdated(ctx, p)
		if isMilestone(p.Progress) {
			s.notifier.MilestoneReached(ctx, p)
		}
	}

	result := APIProject(p)
	return &result, nil
}

// Delete deletes a project owned by the user.
func (s *Service) Delete(ctx context.Context, userID, projectID string) error {
	p, err := s.repo.GetByUserAndID(ctx, userID, projectID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, projectID); err != nil {
		return err
	}

	s.logger.Info().Str("project_id", projectID).Msg("Project deleted")
	s.notifier.ProjectDeleted(ctx, userID, p.Name)

	return nil
}

// Reanalyze re-runs the land analysis and replaces the stored snapshot.
func (s *Service) Reanalyze(ctx context.Context, userID, projectID string) (*models.Project, error) {
	p, err := s.repo.GetByUserAndID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.Analyze(ctx, p.Lat, p.Lon, p.AreaHectares)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	applyAnalysis(p, result, now)
	p.UpdatedAt = now

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("project_id", p.ID).
		Float64("ndvi", p.VegetationIndex).
		Str("degradation", string(p.DegradationLevel)).
		Msg("Project reanalyzed")

	s.notifier.AnalysisCompleted(ctx, p)

	apiProject := APIProject(p)
	return &apiProject, nil
}

// applyAnalysis copies an analysis result onto the project row.
func applyAnalysis(p *Project, a *analysis.LandAnalysis, at time.Time) {
	p.LocationName = a.LocationName
	p.SoilType = a.SoilType
	p.SoilPH = a.SoilPH
	p.SoilFertility = a.SoilFertility
	p.ClimateZone = a.ClimateZone
	p.AnnualRainfall = a.AnnualRainfall
	p.Temperature = a.CurrentWeather.Temperature
	p.Humidity = a.CurrentWeather.Humidity
	p.Elevation = a.Elevation
	p.VegetationIndex = a.VegetationIndex
	p.DegradationLevel = a.DegradationLevel
	p.RecommendedCrops = a.RecommendedCrops
	p.RecommendedTrees = a.RecommendedTrees
	p.RestorationTechniques = a.RestorationTechniques
	p.TimelineMonths = a.EstimatedTimelineMonths
	p.EstimatedBudget = a.EstimatedBudget
	p.LastAnalyzedAt = at
}

// isMilestone reports whether progress landed exactly on a milestone.
func isMilestone(progress int) bool {
	for _, m := range progressMilestones {
		if progress == m {
			return true
		}
	}
	return false
}

// validateCreateInput validates the create project input.
func (s *Service) validateCreateInput(input *models.ProjectCreateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name == "" {
		errs = append(errs, models.FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 255 characters"})
	}

	if !ValidType(Type(input.Type)) {
		errs = append(errs, models.FieldError{Field: "projectType", Message: "must be one of reforestation, soil-conservation, watershed, agroforestry"})
	}

	if input.AreaHectares <= 0 {
		errs = append(errs, models.FieldError{Field: "areaHectares", Message: "must be greater than zero"})
	}

	if !geo.Valid(input.Point.Lat, input.Point.Lon) {
		errs = append(errs, models.FieldError{Field: "point", Message: "must be a valid coordinate"})
	}

	if input.Description != nil && len(*input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	return errs
}

// validateUpdateInput validates the update project input.
func (s *Service) validateUpdateInput(input *models.ProjectUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, models.FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, models.FieldError{Field: "name", Message: "must be at most 255 characters"})
		}
	}

	if input.Description != nil && len(*input.Description) > MaxDescriptionLength {
		errs = append(errs, models.FieldError{Field: "description", Message: "must be at most 2000 characters"})
	}

	if input.Status != nil && !ValidStatus(Status(*input.Status)) {
		errs = append(errs, models.FieldError{Field: "status", Message: "must be one of planning, active, completed, paused"})
	}

	if input.Progress != nil && (*input.Progress < 0 || *input.Progress > 100) {
		errs = append(errs, models.FieldError{Field: "progress", Message: "must be between 0 and 100"})
	}

	return errs
}

// APIProject converts a domain Project to an API Project. It is exported for
// read models that return project rows of their own.
func APIProject(p *Project) models.Project {
	out := models.Project{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Type:         models.ProjectType(p.Type),
		AreaHectares: p.AreaHectares,
		LocationName: p.LocationName,
		Point:        models.Point{Lat: p.Lat, Lon: p.Lon},
		Status:       models.ProjectStatus(p.Status),
		Progress:     p.Progress,
		CreatedAt:    models.Timestamp(p.CreatedAt),
		UpdatedAt:    models.Timestamp(p.UpdatedAt),
	}

	if !p.StartDate.IsZero() {
		startDate := models.Timestamp(p.StartDate)
		out.StartDate = &startDate
	}
	if p.EndDate != nil {
		endDate := models.Timestamp(*p.EndDate)
		out.EndDate = &endDate
	}
	if !p.LastAnalyzedAt.IsZero() {
		analyzedAt := models.Timestamp(p.LastAnalyzedAt)
		out.LastAnalyzedAt = &analyzedAt

		out.Analysis = &models.ProjectAnalysis{
			SoilType:              p.SoilType,
			SoilPH:                p.SoilPH,
			SoilFertility:         string(p.SoilFertility),
			ClimateZone:           string(p.ClimateZone),
			AnnualRainfallMM:      p.AnnualRainfall,
			Temperature:           p.Temperature,
			Humidity:              p.Humidity,
			ElevationMeters:       p.Elevation,
			VegetationIndex:       p.VegetationIndex,
			DegradationLevel:      string(p.DegradationLevel),
			RecommendedCrops:      p.RecommendedCrops,
			RecommendedTrees:      p.RecommendedTrees,
			RestorationTechniques: p.RestorationTechniques,
			TimelineMonths:        p.TimelineMonths,
			EstimatedBudget:       p.EstimatedBudget,
		}
	}

	return out
}

// nopNotifier discards all events.
type nopNotifier struct{}

func (nopNotifier) ProjectCreated(context.Context, *Project)        {}
func (nopNotifier) ProjectUpdated(context.Context, *Project)        {}
func (nopNotifier) StatusChanged(context.Context, *Project, Status) {}
func (nopNotifier) ProgressUpdated(context.Context, *Project)       {}
func (nopNotifier) MilestoneReached(context.Context, *Project)      {}
func (nopNotifier) ProjectDeleted(context.Context, string, string)  {}
func (nopNotifier) AnalysisCompleted(context.Context, *Project)     {}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
