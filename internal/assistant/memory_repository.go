package assistant

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewInMemoryRepository creates a new in-memory chat history repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Insert stores a new history entry.
func (r *InMemoryRepository) Insert(_ context.Context, entry *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *entry
	r.entries = append(r.entries, &cpy)
	return nil
}

// ListRecent retrieves the newest entries for a user, oldest first.
func (r *InMemoryRepository) ListRecent(_ context.Context, userID, projectID string, limit int) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matches []*Entry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if projectID != "" && e.ProjectID != projectID {
			continue
		}
		cpy := *e
		matches = append(matches, &cpy)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[len(matches)-limit:]
	}

	return matches, nil
}

// Clear deletes a user's history.
func (r *InMemoryRepository) Clear(_ context.Context, userID, projectID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*Entry
	removed := 0
	for _, e := range r.entries {
		if e.UserID == userID && (projectID == "" || e.ProjectID == projectID) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept

	return removed, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
