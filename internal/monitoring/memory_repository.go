package monitoring

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	samples map[string][]*Sample
}

// NewInMemoryRepository creates a new in-memory monitoring repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		samples: make(map[string][]*Sample),
	}
}

// Insert stores a new sample.
func (r *InMemoryRepository) Insert(_ context.Context, sample *Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *sample
	r.samples[sample.ProjectID] = append(r.samples[sample.ProjectID], &cpy)
	return nil
}

// Latest retrieves the most recent sample for a project.
func (r *InMemoryRepository) Latest(_ context.Context, projectID string) (*Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	samples := r.samples[projectID]
	if len(samples) == 0 {
		return nil, ErrSampleNotFound
	}

	latest := samples[0]
	for _, s := range samples[1:] {
		if s.RecordedAt.After(latest.RecordedAt) {
			latest = s
		}
	}

	cpy := *latest
	return &cpy, nil
}

// ListSince retrieves a project's samples recorded at or after since.
func (r *InMemoryRepository) ListSince(_ context.Context, projectID string, since time.Time) ([]*Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Sample
	for _, s := range r.samples[projectID] {
		if !s.RecordedAt.Before(since) {
			cpy := *s
			result = append(result, &cpy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordedAt.Before(result[j].RecordedAt)
	})

	return result, nil
}

// CountByProject returns how many samples a project has.
func (r *InMemoryRepository) CountByProject(_ context.Context, projectID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.samples[projectID]), nil
}

// DeleteByProject removes all samples for a project.
func (r *InMemoryRepository) DeleteByProject(_ context.Context, projectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.samples, projectID)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
