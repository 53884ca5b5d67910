package models

// ChatRequest is the request body for an assistant chat message.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=2000"`

	// ProjectID grounds the reply in a project's data when set.
	ProjectID string `json:"projectId,omitempty"`
}

// ChatEntry is one exchange in the chat history.
type ChatEntry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	ProjectID string    `json:"projectId,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
}

// ChatResponse is the assistant's reply to one message.
type ChatResponse struct {
	ID        string `json:"id"`
	Response  string `json:"response"`
	ProjectID string `json:"projectId,omitempty"`

	// ContextUsed reports whether project or portfolio data grounded the reply.
	ContextUsed bool      `json:"contextUsed"`
	CreatedAt   Timestamp `json:"createdAt"`
}

// ChatHistory is a user's recent exchanges in transcript order.
type ChatHistory struct {
	Entries []ChatEntry `json:"entries"`
}

// ChatHistoryCleared reports how many exchanges a clear removed.
type ChatHistoryCleared struct {
	Deleted int `json:"deleted"`
}

// ChatSuggestions are starter questions for the chat input.
type ChatSuggestions struct {
	Suggestions []string `json:"suggestions"`
}
