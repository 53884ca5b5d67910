package assistant

import (
	"errors"
	"time"
)

// History limits.
const (
	// DefaultHistoryLimit is the number of entries returned when the
	// caller does not ask for a specific count.
	DefaultHistoryLimit = 20

	// MaxHistoryLimit caps a single history read.
	MaxHistoryLimit = 100
)

// Service errors.
var (
	// ErrEmptyMessage is returned when a chat message is blank.
	ErrEmptyMessage = errors.New("message is required")
)

// Entry is one exchange in a user's chat history: the message sent, the
// reply produced and the context summary the reply was grounded in.
type Entry struct {
	ID     string
	UserID string

	// ProjectID scopes the exchange to a project; empty when the user
	// chatted without selecting one.
	ProjectID string

	Message  string
	Response string

	// Context is the context summary that prefixed the prompt.
	Context string

	CreatedAt time.Time
}
