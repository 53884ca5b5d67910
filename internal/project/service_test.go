package project_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/analysis"
	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/project"
	"github.com/terrasense/terrasense/internal/weather"
)

type mockAnalyzer struct {
	mu        sync.Mutex
	callCount int
	result    *analysis.LandAnalysis
	err       error
}

func (m *mockAnalyzer) Analyze(ctx context.Context, lat, lon, areaHectares float64) (*analysis.LandAnalysis, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// spyNotifier records lifecycle events in arrival order.
type spyNotifier struct {
	mu     sync.Mutex
	events []string
}

func (s *spyNotifier) record(event string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *spyNotifier) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *spyNotifier) ProjectCreated(_ context.Context, p *project.Project) {
	s.record("created:" + p.Name)
}

func (s *spyNotifier) ProjectUpdated(_ context.Context, p *project.Project) {
	s.record("updated:" + p.Name)
}

func (s *spyNotifier) StatusChanged(_ context.Context, p *project.Project, previous project.Status) {
	s.record(fmt.Sprintf("status:%s->%s", previous, p.Status))
}

func (s *spyNotifier) ProgressUpdated(_ context.Context, p *project.Project) {
	s.record(fmt.Sprintf("progress:%d", p.Progress))
}

func (s *spyNotifier) MilestoneReached(_ context.Context, p *project.Project) {
	s.record(fmt.Sprintf("milestone:%d", p.Progress))
}

func (s *spyNotifier) ProjectDeleted(_ context.Context, _, name string) {
	s.record("deleted:" + name)
}

func (s *spyNotifier) AnalysisCompleted(_ context.Context, p *project.Project) {
	s.record("analyzed:" + p.Name)
}

func kitaleAnalysis() *analysis.LandAnalysis {
	return &analysis.LandAnalysis{
		LocationName: "Kitale, Trans-Nzoia, Kenya",
		Lat:          0.5,
		Lon:          34.0,
		AreaHectares: 25,
		Elevation:    1894,
		CurrentWeather: &weather.Snapshot{
			Temperature: 27,
			Humidity:    75,
			Source:      "openweathermap",
		},
		ClimateZone:             estimate.ZoneEquatorial,
		AnnualRainfall:          3330,
		SoilType:                "Tropical Red",
		SoilPH:                  5.7,
		SoilFertility:           estimate.FertilityMedium,
		VegetationIndex:         0.68,
		DegradationLevel:        estimate.DegradationMinimal,
		RecommendedCrops:        []string{"Rice", "Bananas", "Cassava", "Yams", "Cocoa"},
		RecommendedTrees:        []string{"Mahogany", "Teak", "Rubber", "Oil Palm", "Bamboo"},
		RestorationTechniques:   []string{"Cover cropping", "Mulching", "Crop rotation", "Composting"},
		EstimatedTimelineMonths: 12,
		EstimatedBudget:         1250000,
		AnalyzedAt:              time.Now().UTC(),
	}
}

func newTestService(analyzer *mockAnalyzer, notifier *spyNotifier) (*project.Service, *project.InMemoryRepository) {
	repo := project.NewInMemoryRepository()
	service := project.NewService(project.ServiceConfig{
		Repository: repo,
		Analyzer:   analyzer,
		Notifier:   notifier,
		Logger:     zerolog.Nop(),
	})
	return service, repo
}

func createRequest() *models.ProjectCreateRequest {
	return &models.ProjectCreateRequest{
		Name:         "Kitale Reforestation",
		Type:         models.ProjectTypeReforestation,
		AreaHectares: 25,
		Point:        models.Point{Lat: 0.5, Lon: 34.0},
	}
}

func TestService_Create(t *testing.T) {
	analyzer := &mockAnalyzer{result: kitaleAnalysis()}
	notifier := &spyNotifier{}
	service, repo := newTestService(analyzer, notifier)

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	assert.Contains(t, created.ID, "prj_")
	assert.Equal(t, "Kitale Reforestation", created.Name)
	assert.Equal(t, models.ProjectStatusPlanning, created.Status)
	assert.Zero(t, created.Progress)
	assert.Equal(t, "Kitale, Trans-Nzoia, Kenya", created.LocationName)
	require.NotNil(t, created.Analysis)
	assert.Equal(t, "Tropical Red", created.Analysis.SoilType)
	assert.Equal(t, 0.68, created.Analysis.VegetationIndex)
	assert.Equal(t, 3330, created.Analysis.AnnualRainfallMM)
	assert.Equal(t, 27.0, created.Analysis.Temperature)
	assert.Equal(t, 1250000.0, created.Analysis.EstimatedBudget)
	assert.Equal(t, []string{"Rice", "Bananas", "Cassava", "Yams", "Cocoa"}, created.Analysis.RecommendedCrops)
	require.NotNil(t, created.LastAnalyzedAt)

	stored, err := repo.GetByUserAndID(context.Background(), "usr_1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, project.StatusPlanning, stored.Status)
	assert.Equal(t, 1, analyzer.callCount)
	assert.Equal(t, []string{"created:Kitale Reforestation"}, notifier.recorded())
}

func TestService_Create_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.ProjectCreateRequest)
		wantField string
	}{
		{"missing name", func(r *models.ProjectCreateRequest) { r.Name = "" }, "name"},
		{"unknown type", func(r *models.ProjectCreateRequest) { r.Type = "mining" }, "projectType"},
		{"zero area", func(r *models.ProjectCreateRequest) { r.AreaHectares = 0 }, "areaHectares"},
		{"negative area", func(r *models.ProjectCreateRequest) { r.AreaHectares = -3 }, "areaHectares"},
		{"latitude out of range", func(r *models.ProjectCreateRequest) { r.Point.Lat = 91 }, "point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &mockAnalyzer{result: kitaleAnalysis()}
			service, _ := newTestService(analyzer, &spyNotifier{})

			req := createRequest()
			tt.mutate(req)

			_, err := service.Create(context.Background(), "usr_1", req)

			var validationErr *project.ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.NotEmpty(t, validationErr.Errors)
			assert.Equal(t, tt.wantField, validationErr.Errors[0].Field)
			assert.Zero(t, analyzer.callCount)
		})
	}
}

func TestService_Create_AnalyzerError(t *testing.T) {
	analyzer := &mockAnalyzer{err: errors.New("weather provider down")}
	notifier := &spyNotifier{}
	service, _ := newTestService(analyzer, notifier)

	_, err := service.Create(context.Background(), "usr_1", createRequest())
	require.Error(t, err)
	assert.Empty(t, notifier.recorded())
}

func TestService_Get_ScopedToOwner(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	got, err := service.Get(context.Background(), "usr_1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = service.Get(context.Background(), "usr_2", created.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestService_List_Pagination(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	for i := 0; i < 5; i++ {
		req := createRequest()
		req.Name = fmt.Sprintf("Project %d", i)
		_, err := service.Create(context.Background(), "usr_1", req)
		require.NoError(t, err)
	}

	page, err := service.List(context.Background(), "usr_1", project.ListOptions{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	require.NotNil(t, page.Meta.NextCursor)

	rest, err := service.List(context.Background(), "usr_1", project.ListOptions{Limit: 3, Cursor: *page.Meta.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Items, 2)
	assert.Nil(t, rest.Meta.NextCursor)
}

func TestService_List_StatusFilter(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	progress := 40
	_, err = service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Progress: &progress})
	require.NoError(t, err)

	active, err := service.List(context.Background(), "usr_1", project.ListOptions{Status: project.StatusActive})
	require.NoError(t, err)
	require.Len(t, active.Items, 1)
	assert.Equal(t, created.ID, active.Items[0].ID)

	_, err = service.List(context.Background(), "usr_1", project.ListOptions{Status: project.Status("archived")})
	var validationErr *project.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestService_Update_ProgressDrivesStatus(t *testing.T) {
	notifier := &spyNotifier{}
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, notifier)

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	progress := 50
	updated, err := service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusActive, updated.Status)
	assert.Equal(t, 50, updated.Progress)

	progress = 100
	updated, err = service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusCompleted, updated.Status)

	assert.Equal(t, []string{
		"created:Kitale Reforestation",
		"updated:Kitale Reforestation",
		"status:planning->active",
		"progress:50",
		"milestone:50",
		"updated:Kitale Reforestation",
		"status:active->completed",
		"progress:100",
	}, notifier.recorded())
}

func TestService_Update_ExplicitStatusWins(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	progress := 100
	status := models.ProjectStatusPaused
	updated, err := service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{
		Progress: &progress,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusPaused, updated.Status)
	assert.Equal(t, 100, updated.Progress)
}

func TestService_Update_NoMilestoneOffTheMark(t *testing.T) {
	notifier := &spyNotifier{}
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, notifier)

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	progress := 26
	_, err = service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Progress: &progress})
	require.NoError(t, err)

	assert.NotContains(t, notifier.recorded(), "milestone:26")
	assert.Contains(t, notifier.recorded(), "progress:26")
}

func TestService_Update_ValidationErrors(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	badProgress := 140
	_, err = service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Progress: &badProgress})
	var validationErr *project.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "progress", validationErr.Errors[0].Field)

	badStatus := models.ProjectStatus("archived")
	_, err = service.Update(context.Background(), "usr_1", created.ID, &models.ProjectUpdateRequest{Status: &badStatus})
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "status", validationErr.Errors[0].Field)
}

func TestService_Delete(t *testing.T) {
	notifier := &spyNotifier{}
	service, repo := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, notifier)

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(context.Background(), "usr_2", created.ID), project.ErrProjectNotFound)

	require.NoError(t, service.Delete(context.Background(), "usr_1", created.ID))
	_, err = repo.Get(context.Background(), created.ID)
	require.ErrorIs(t, err, project.ErrProjectNotFound)
	assert.Contains(t, notifier.recorded(), "deleted:Kitale Reforestation")
}

func TestService_Reanalyze(t *testing.T) {
	analyzer := &mockAnalyzer{result: kitaleAnalysis()}
	notifier := &spyNotifier{}
	service, _ := newTestService(analyzer, notifier)

	created, err := service.Create(context.Background(), "usr_1", createRequest())
	require.NoError(t, err)

	// The land degraded between runs.
	degraded := kitaleAnalysis()
	degraded.VegetationIndex = 0.31
	degraded.DegradationLevel = estimate.DegradationModerate
	degraded.RestorationTechniques = []string{"Terracing", "Agroforestry", "Contour farming", "Check dams", "Grass strips"}
	analyzer.result = degraded

	updated, err := service.Reanalyze(context.Background(), "usr_1", created.ID)
	require.NoError(t, err)

	require.NotNil(t, updated.Analysis)
	assert.Equal(t, 0.31, updated.Analysis.VegetationIndex)
	assert.Equal(t, string(estimate.DegradationModerate), updated.Analysis.DegradationLevel)
	assert.Len(t, updated.Analysis.RestorationTechniques, 5)
	assert.Equal(t, 2, analyzer.callCount)
	assert.Contains(t, notifier.recorded(), "analyzed:Kitale Reforestation")

	require.NotNil(t, updated.LastAnalyzedAt)
	require.NotNil(t, created.LastAnalyzedAt)
	assert.False(t, updated.LastAnalyzedAt.Time().Before(created.LastAnalyzedAt.Time()))
}

func TestService_Reanalyze_NotFound(t *testing.T) {
	service, _ := newTestService(&mockAnalyzer{result: kitaleAnalysis()}, &spyNotifier{})

	_, err := service.Reanalyze(context.Background(), "usr_1", "prj_missing")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}
