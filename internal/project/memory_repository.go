package project

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	projects map[string]*Project
}

// NewInMemoryRepository creates a new in-memory project repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		projects: make(map[string]*Project),
	}
}

// Get retrieves a project by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, ErrProjectNotFound
	}

	// Return a copy
	cpy := *p
	return &cpy, nil
}

// GetByUserAndID retrieves a project by user ID and project ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, projectID string) (*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[projectID]
	if !ok {
		return nil, ErrProjectNotFound
	}

	if p.UserID != userID {
		return nil, ErrProjectNotFound
	}

	// Return a copy
	cpy := *p
	return &cpy, nil
}

// List retrieves projects for a user with cursor pagination, newest first.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*Project
	for _, p := range r.projects {
		if p.UserID != userID {
			continue
		}
		if opts.Status != "" && p.Status != opts.Status {
			continue
		}
		cpy := *p
		projects = append(projects, &cpy)
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	if opts.Cursor != "" {
		for i, p := range projects {
			if p.ID == opts.Cursor {
				projects = projects[i+1:]
				break
			}
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: projects,
	}

	if len(projects) > limit {
		result.Items = projects[:limit]
		result.NextCursor = projects[limit-1].ID
	}

	return result, nil
}

// ListByUser retrieves all of a user's projects, newest first.
func (r *InMemoryRepository) ListByUser(_ context.Context, userID string) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*Project
	for _, p := range r.projects {
		if p.UserID != userID {
			continue
		}
		cpy := *p
		projects = append(projects, &cpy)
	}

	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	return projects, nil
}

// ListActive retrieves all active projects across users.
func (r *InMemoryRepository) ListActive(_ context.Context) ([]*Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*Project
	for _, p := range r.projects {
		if p.Status == StatusActive {
			cpy := *p
			projects = append(projects, &cpy)
		}
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})

	return projects, nil
}

// Create creates a new project.
func (r *InMemoryRepository) Create(_ context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *p
	r.projects[p.ID] = &cpy
	return nil
}

// Update updates an existing project.
func (r *InMemoryRepository) Update(_ context.Context, p *Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[p.ID]; !ok {
		return ErrProjectNotFound
	}

	cpy := *p
	r.projects[p.ID] = &cpy
	return nil
}

// Delete deletes a project by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.projects, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
