// Package dashboard aggregates a user's projects and recent monitoring data
// into the summary figures the dashboard renders: project counts, land health
// score, metric percentages and the newest projects.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/project"
)

// ProjectSource provides the project rows the dashboard aggregates.
type ProjectSource interface {
	ListByUser(ctx context.Context, userID string) ([]*project.Project, error)
}

// SampleSource provides recent monitoring samples for health scoring.
type SampleSource interface {
	ListSince(ctx context.Context, projectID string, since time.Time) ([]*monitoring.Sample, error)
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Projects ProjectSource
	Samples  SampleSource
	Logger   zerolog.Logger
}

// Service computes dashboard aggregates.
type Service struct {
	projects ProjectSource
	samples  SampleSource
	logger   zerolog.Logger
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		projects: cfg.Projects,
		samples:  cfg.Samples,
		logger:   cfg.Logger.With().Str("component", "dashboard_service").Logger(),
	}
}

// Summary builds the complete dashboard payload for a user.
func (s *Service) Summary(ctx context.Context, userID string) (*Summary, error) {
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	recent := projects
	if len(recent) > DefaultRecentLimit {
		recent = recent[:DefaultRecentLimit]
	}

	return &Summary{
		Stats:          s.buildStats(ctx, projects),
		RecentProjects: recent,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// Stats computes the per-user aggregates without the recent project list.
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	return s.buildStats(ctx, projects), nil
}

// RecentProjects returns the user's newest projects, at most limit
// (default 3).
func (s *Service) RecentProjects(ctx context.Context, userID string, limit int) ([]*project.Project, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	projects, err := s.projects.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	if len(projects) > limit {
		projects = projects[:limit]
	}
	return projects, nil
}

func (s *Service) buildStats(ctx context.Context, projects []*project.Project) *Stats {
	stats := &Stats{}
	cutoff := time.Now().UTC().AddDate(0, 0, -TrailingWindowDays)

	var ndviSum, progressSum float64
	for _, p := range projects {
		stats.TotalProjects++

		switch p.Status {
		case project.StatusActive:
			stats.ActiveProjects++
		case project.StatusPlanning:
			stats.PlanningProjects++
		case project.StatusCompleted:
			stats.CompletedProjects++
		case project.StatusPaused:
			stats.PausedProjects++
		}

		stats.TotalAreaHectares += p.AreaHectares
		ndviSum += p.VegetationIndex
		progressSum += float64(p.Progress)

		if p.CreatedAt.After(cutoff) {
			stats.NewProjectsThisMonth++
		}
	}

	if stats.TotalProjects > 0 {
		stats.AvgNDVI = ndviSum / float64(stats.TotalProjects)
		stats.AvgProgress = progressSum / float64(stats.TotalProjects)
	}

	avgNDVI, avgMoisture, avgCanopy := s.healthAverages(ctx, projects, cutoff)
	stats.HealthScore = HealthScore(avgNDVI, avgMoisture, avgCanopy)
	stats.VegetationCover = percentOfFraction(avgNDVI)
	stats.SoilQuality = capPercent(avgMoisture)
	stats.WaterRetention = capPercent(avgCanopy)

	return stats
}

// healthAverages averages the monitoring readings recorded for the given
// projects since the cutoff. A project whose samples cannot be fetched is
// skipped rather than failing the whole dashboard.
func (s *Service) healthAverages(ctx context.Context, projects []*project.Project, since time.Time) (ndvi, moisture, canopy float64) {
	var count int
	for _, p := range projects {
		samples, err := s.samples.ListSince(ctx, p.ID, since)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("project_id", p.ID).
				Msg("skipping project in health averages")
			continue
		}

		for _, smp := range samples {
			ndvi += smp.NDVI
			moisture += smp.SoilMoisture
			canopy += smp.CanopyCover
			count++
		}
	}

	if count == 0 {
		return 0, 0, 0
	}
	return ndvi / float64(count), moisture / float64(count), canopy / float64(count)
}
