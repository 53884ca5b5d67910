package monitoring

import (
	"context"
	"time"
)

// Repository defines the interface for monitoring sample persistence.
type Repository interface {
	// Insert stores a new sample.
	Insert(ctx context.Context, sample *Sample) error

	// Latest retrieves the most recent sample for a project.
	// Returns ErrSampleNotFound when the project has no samples.
	Latest(ctx context.Context, projectID string) (*Sample, error)

	// ListSince retrieves a project's samples recorded at or after since,
	// ordered oldest first.
	ListSince(ctx context.Context, projectID string, since time.Time) ([]*Sample, error)

	// CountByProject returns how many samples a project has.
	CountByProject(ctx context.Context, projectID string) (int, error)

	// DeleteByProject removes all samples for a project.
	DeleteByProject(ctx context.Context, projectID string) error
}
