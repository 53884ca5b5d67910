package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/assistant"
)

// AssistantHandler handles restoration assistant endpoints.
type AssistantHandler struct {
	assistantService *assistant.Service
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(assistantService *assistant.Service) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
	}
}

// Chat handles POST /v1/assistant/chat - send a message and get a reply.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	entry, err := h.assistantService.Chat(r.Context(), userID, req.ProjectID, req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyMessage) {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "message", Message: "is required", Code: "REQUIRED"},
			})
			return
		}
		response.InternalError(w, r, "assistant is unavailable")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ChatResponse{
		ID:          entry.ID,
		Response:    entry.Response,
		ProjectID:   entry.ProjectID,
		ContextUsed: entry.Context != "",
		CreatedAt:   models.Timestamp(entry.CreatedAt),
	})
}

// GetHistory handles GET /v1/assistant/history - recent exchanges, optionally
// scoped to a project via ?projectId=.
func (h *AssistantHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer"},
			})
			return
		}
		limit = parsed
	}

	entries, err := h.assistantService.History(r.Context(), userID, r.URL.Query().Get("projectId"), limit)
	if err != nil {
		response.InternalError(w, r, "failed to load chat history")
		return
	}

	history := models.ChatHistory{
		Entries: make([]models.ChatEntry, 0, len(entries)),
	}
	for _, entry := range entries {
		history.Entries = append(history.Entries, models.ChatEntry{
			ID:        entry.ID,
			Message:   entry.Message,
			Response:  entry.Response,
			ProjectID: entry.ProjectID,
			CreatedAt: models.Timestamp(entry.CreatedAt),
		})
	}

	response.JSON(w, r, http.StatusOK, history)
}

// ClearHistory handles DELETE /v1/assistant/history - drop stored exchanges,
// optionally scoped to a project via ?projectId=.
func (h *AssistantHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	deleted, err := h.assistantService.ClearHistory(r.Context(), userID, r.URL.Query().Get("projectId"))
	if err != nil {
		response.InternalError(w, r, "failed to clear chat history")
		return
	}

	response.JSON(w, r, http.StatusOK, models.ChatHistoryCleared{Deleted: deleted})
}

// GetSuggestions handles GET /v1/assistant/suggestions - starter questions,
// tailored to the project in ?projectId= when given.
func (h *AssistantHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	suggestions := h.assistantService.Suggestions(r.Context(), userID, r.URL.Query().Get("projectId"))

	response.JSON(w, r, http.StatusOK, models.ChatSuggestions{Suggestions: suggestions})
}
