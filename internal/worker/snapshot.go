package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/monitoring"
	"github.com/terrasense/terrasense/internal/project"
	"github.com/terrasense/terrasense/pkg/geo"
)

// Probe location used by HealthCheck (Nairobi).
const (
	healthProbeLat = -1.286
	healthProbeLon = 36.817
)

// ProjectSource lists the projects eligible for scheduled sampling.
type ProjectSource interface {
	ListActive(ctx context.Context) ([]*project.Project, error)
}

// Sampler derives monitoring samples. Snapshot computes a reading without
// recording it; Refresh records the reading as part of the project's
// monitoring history.
type Sampler interface {
	Snapshot(ctx context.Context, state monitoring.ProjectState) *monitoring.Sample
	Refresh(ctx context.Context, state monitoring.ProjectState) (*monitoring.Sample, error)
}

// AlertSink notifies project owners about samples that raise an alert.
type AlertSink interface {
	MonitoringAlert(ctx context.Context, userID, projectID, projectName, alertMessage string)
}

// ScheduleGate reports whether scheduled monitoring runs are paused.
type ScheduleGate interface {
	IsMonitoringScheduleDisabled(ctx context.Context) bool
}

// SnapshotJob records a monitoring sample for every active project.
type SnapshotJob struct {
	config SnapshotConfig
	logger zerolog.Logger

	projects ProjectSource
	sampler  Sampler

	// Optional, nil if not configured
	alerts AlertSink
	flags  ScheduleGate

	// Metrics
	metrics *SnapshotMetrics
}

// SnapshotMetrics tracks snapshot job statistics.
type SnapshotMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns       int64
	SkippedRuns     int64
	ProjectsSampled int64
	ProjectsFailed  int64
	AlertsSent      int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// SnapshotJobConfig holds configuration for creating a SnapshotJob.
type SnapshotJobConfig struct {
	Config   SnapshotConfig
	Logger   zerolog.Logger
	Projects ProjectSource
	Sampler  Sampler
	Alerts   AlertSink
	Flags    ScheduleGate
}

// NewSnapshotJob creates a new snapshot job processor.
func NewSnapshotJob(cfg SnapshotJobConfig) *SnapshotJob {
	return &SnapshotJob{
		config:   cfg.Config.normalized(),
		logger:   cfg.Logger,
		projects: cfg.Projects,
		sampler:  cfg.Sampler,
		alerts:   cfg.Alerts,
		flags:    cfg.Flags,
		metrics:  &SnapshotMetrics{},
	}
}

// SnapshotResult contains the result of a snapshot run.
type SnapshotResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalProjects int
	Cells         int
	Sampled       int
	Failed        int
	Alerts        int
	Skipped       bool
	Errors        []SnapshotError
}

// SnapshotError represents a failure to sample one project.
type SnapshotError struct {
	ProjectID string
	Error     string
}

// Run executes the snapshot job for all active projects. It is a no-op
// when scheduled monitoring is paused through the feature flags.
func (j *SnapshotJob) Run(ctx context.Context) (*SnapshotResult, error) {
	return j.run(ctx, false)
}

// RunForced executes the snapshot job even when scheduled monitoring is
// paused. Used for operator-triggered runs.
func (j *SnapshotJob) RunForced(ctx context.Context) (*SnapshotResult, error) {
	return j.run(ctx, true)
}

func (j *SnapshotJob) run(ctx context.Context, force bool) (*SnapshotResult, error) {
	startTime := time.Now()

	if !force && j.flags != nil && j.flags.IsMonitoringScheduleDisabled(ctx) {
		j.recordSkip()
		j.logger.Info().Msg("monitoring schedule disabled, skipping snapshot run")
		return &SnapshotResult{StartTime: startTime, EndTime: time.Now(), Skipped: true}, nil
	}

	projects, err := j.projects.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active projects: %w", err)
	}

	// Group projects by weather cell so each cell's first refresh warms
	// the cache for its neighbors.
	cells := make(map[string][]*project.Project)
	for _, p := range projects {
		key := geo.CellKey(p.Lat, p.Lon, j.config.CellSize)
		cells[key] = append(cells[key], p)
	}

	result := &SnapshotResult{
		StartTime:     startTime,
		TotalProjects: len(projects),
		Cells:         len(cells),
	}

	j.logger.Info().
		Int("total_projects", result.TotalProjects).
		Int("cells", result.Cells).
		Int("concurrency", j.config.Concurrency).
		Msg("starting monitoring snapshot run")

	// Create work channels
	batchChan := make(chan []*project.Project, len(cells))
	resultsChan := make(chan cellResult, len(cells))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.snapshotWorker(ctx, batchChan, resultsChan)
		}()
	}

	// Send cell batches to workers
	for _, batch := range cells {
		batchChan <- batch
	}
	close(batchChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for cr := range resultsChan {
		result.Sampled += cr.sampled
		result.Failed += cr.failed
		result.Alerts += cr.alerts
		result.Errors = append(result.Errors, cr.errors...)
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	// Update metrics
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("sampled", result.Sampled).
		Int("failed", result.Failed).
		Int("alerts", result.Alerts).
		Msg("monitoring snapshot run completed")

	return result, nil
}

type cellResult struct {
	sampled int
	failed  int
	alerts  int
	errors  []SnapshotError
}

func (j *SnapshotJob) snapshotWorker(ctx context.Context, batches <-chan []*project.Project, results chan<- cellResult) {
	for batch := range batches {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.sampleCell(ctx, batch)
		}
	}
}

// sampleCell records samples for one cell's projects sequentially, so the
// first refresh fills the weather cache the rest of the cell reads.
func (j *SnapshotJob) sampleCell(ctx context.Context, batch []*project.Project) cellResult {
	var result cellResult
	for _, p := range batch {
		alerted, err := j.sampleProject(ctx, p)
		if err != nil {
			result.failed++
			result.errors = append(result.errors, SnapshotError{
				ProjectID: p.ID,
				Error:     err.Error(),
			})
			continue
		}
		result.sampled++
		if alerted {
			result.alerts++
		}
	}
	return result
}

func (j *SnapshotJob) sampleProject(ctx context.Context, p *project.Project) (bool, error) {
	// Create timeout context for this project
	projCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	sample, err := j.sampler.Refresh(projCtx, projectState(p))
	if err != nil {
		return false, err
	}

	if sample.AlertLevel == monitoring.AlertNone || j.alerts == nil || j.config.DisableAlerts {
		return false, nil
	}

	j.alerts.MonitoringAlert(projCtx, p.UserID, p.ID, p.Name, sample.AlertMessage)
	return true, nil
}

// projectState maps a stored project onto the attributes the sample
// generator reads.
func projectState(p *project.Project) monitoring.ProjectState {
	return monitoring.ProjectState{
		ProjectID:      p.ID,
		Lat:            p.Lat,
		Lon:            p.Lon,
		BaselineNDVI:   p.VegetationIndex,
		SoilPH:         p.SoilPH,
		AnnualRainfall: p.AnnualRainfall,
	}
}

// HealthCheck verifies the sampling pipeline can derive a reading. The
// probe sample is computed for a fixed location and never recorded.
func (j *SnapshotJob) HealthCheck(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	probe := monitoring.ProjectState{
		ProjectID: "health-probe",
		Lat:       healthProbeLat,
		Lon:       healthProbeLon,
	}
	if sample := j.sampler.Snapshot(probeCtx, probe); sample == nil {
		return errors.New("sampler returned no reading")
	}
	return nil
}

func (j *SnapshotJob) recordSkip() {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.SkippedRuns++
}

func (j *SnapshotJob) updateMetrics(result *SnapshotResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.ProjectsSampled += int64(result.Sampled)
	j.metrics.ProjectsFailed += int64(result.Failed)
	j.metrics.AlertsSent += int64(result.Alerts)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *SnapshotJob) GetMetrics() SnapshotMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SnapshotMetrics{
		TotalRuns:       j.metrics.TotalRuns,
		SkippedRuns:     j.metrics.SkippedRuns,
		ProjectsSampled: j.metrics.ProjectsSampled,
		ProjectsFailed:  j.metrics.ProjectsFailed,
		AlertsSent:      j.metrics.AlertsSent,
		LastRunAt:       j.metrics.LastRunAt,
		LastRunDuration: j.metrics.LastRunDuration,
		TotalDuration:   j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *SnapshotJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":        m.TotalRuns,
		"skipped_runs":      m.SkippedRuns,
		"projects_sampled":  m.ProjectsSampled,
		"projects_failed":   m.ProjectsFailed,
		"alerts_sent":       m.AlertsSent,
		"last_run_at":       m.LastRunAt,
		"last_run_duration": m.LastRunDuration.String(),
		"total_duration":    m.TotalDuration.String(),
	}
}
