package project

import "context"

// ListOptions contains options for listing projects.
type ListOptions struct {
	Limit  int
	Cursor string
	Status Status
}

// ListResult contains the results of listing projects.
type ListResult struct {
	Items      []*Project
	NextCursor string
}

// Repository defines the interface for project data persistence.
type Repository interface {
	// Get retrieves a project by ID.
	Get(ctx context.Context, id string) (*Project, error)

	// GetByUserAndID retrieves a project by user ID and project ID.
	// Returns ErrProjectNotFound if the project doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, projectID string) (*Project, error)

	// List retrieves projects for a user with cursor pagination, newest first.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// ListByUser retrieves all of a user's projects, newest first, without
	// pagination. Used by dashboard aggregation.
	ListByUser(ctx context.Context, userID string) ([]*Project, error)

	// ListActive retrieves all active projects across users, for scheduled monitoring.
	ListActive(ctx context.Context) ([]*Project, error)

	// Create creates a new project.
	Create(ctx context.Context, project *Project) error

	// Update updates an existing project.
	Update(ctx context.Context, project *Project) error

	// Delete deletes a project by ID.
	Delete(ctx context.Context, id string) error
}
