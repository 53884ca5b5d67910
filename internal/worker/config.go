// Package worker provides background job processing for TerraSense.
package worker

import (
	"time"
)

// Defaults for the scheduled snapshot job.
const (
	// DefaultConcurrency is how many cell groups are sampled in parallel.
	DefaultConcurrency = 3

	// DefaultTimeout bounds the snapshot of a single project.
	DefaultTimeout = 30 * time.Second

	// DefaultCellSize groups nearby projects into one weather fetch. It
	// matches the weather service cache grid, so projects in the same
	// cell reuse one provider call.
	DefaultCellSize = 0.1

	// DefaultSchedule is the cron spec for scheduled monitoring runs.
	DefaultSchedule = "0 */6 * * *"
)

// SnapshotConfig holds configuration for the monitoring snapshot job.
type SnapshotConfig struct {
	// Concurrency is the number of cell groups sampled in parallel.
	// Default: 3
	Concurrency int

	// Timeout is the timeout for sampling a single project.
	// Default: 30 seconds
	Timeout time.Duration

	// CellSize is the grid size in degrees used to group projects that
	// share a weather fetch. Default: 0.1 (~11km at the equator)
	CellSize float64

	// DisableAlerts turns off owner notifications for samples that
	// raise an alert. Alerts are sent by default.
	DisableAlerts bool
}

// DefaultSnapshotConfig returns the default snapshot configuration.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Concurrency: DefaultConcurrency,
		Timeout:     DefaultTimeout,
		CellSize:    DefaultCellSize,
	}
}

// normalized fills in zero values with defaults.
func (c SnapshotConfig) normalized() SnapshotConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CellSize <= 0 {
		c.CellSize = DefaultCellSize
	}
	return c
}
