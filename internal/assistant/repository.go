package assistant

import "context"

// Repository defines the interface for chat history persistence.
type Repository interface {
	// Insert stores a new history entry.
	Insert(ctx context.Context, entry *Entry) error

	// ListRecent retrieves the newest entries for a user, oldest first so
	// the transcript reads top to bottom. An empty projectID spans all of
	// the user's projects.
	ListRecent(ctx context.Context, userID, projectID string, limit int) ([]*Entry, error)

	// Clear deletes a user's history and reports how many entries were
	// removed. An empty projectID clears everything.
	Clear(ctx context.Context, userID, projectID string) (int, error)
}
