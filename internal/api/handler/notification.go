package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/terrasense/terrasense/internal/api/models"
	"github.com/terrasense/terrasense/internal/api/response"
	"github.com/terrasense/terrasense/internal/featureflags"
	"github.com/terrasense/terrasense/internal/notification"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	notificationService *notification.Service
	hub                 *notification.Hub
	flags               *featureflags.Service
	upgrader            websocket.Upgrader
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(
	notificationService *notification.Service,
	hub *notification.Hub,
	flags *featureflags.Service,
) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
		flags:               flags,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth is bearer-token based, not cookie based, so the
			// handshake origin carries no ambient credentials.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ListNotifications handles GET /v1/notifications - the user's active feed,
// newest first, with the unread count.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
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

	items, unread, err := h.notificationService.List(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, r, "failed to load notifications")
		return
	}

	list := models.NotificationList{
		Notifications: make([]models.Notification, 0, len(items)),
		UnreadCount:   unread,
	}
	for _, n := range items {
		list.Notifications = append(list.Notifications, toNotification(n))
	}

	response.JSON(w, r, http.StatusOK, list)
}

// UnreadCount handles GET /v1/notifications/unread-count - badge polling.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to count notifications")
		return
	}

	response.JSON(w, r, http.StatusOK, models.UnreadCountResponse{UnreadCount: count})
}

// MarkRead handles POST /v1/notifications/{notificationId}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	h.applyToOne(w, r, h.notificationService.MarkRead)
}

// MarkAllRead handles POST /v1/notifications/read-all.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.applyToAll(w, r, h.notificationService.MarkAllRead)
}

// Archive handles POST /v1/notifications/{notificationId}/archive.
func (h *NotificationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.applyToOne(w, r, h.notificationService.Archive)
}

// ArchiveRead handles POST /v1/notifications/archive-read - archive every
// read notification.
func (h *NotificationHandler) ArchiveRead(w http.ResponseWriter, r *http.Request) {
	h.applyToAll(w, r, h.notificationService.ArchiveRead)
}

// DeleteNotification handles DELETE /v1/notifications/{notificationId}.
func (h *NotificationHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	h.applyToOne(w, r, h.notificationService.Delete)
}

// GetPreferences handles GET /v1/notifications/preferences.
func (h *NotificationHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	prefs, err := h.notificationService.Preferences(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "failed to load preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, toNotificationPreferences(prefs))
}

// UpdatePreferences handles PUT /v1/notifications/preferences - partial
// toggle update.
func (h *NotificationHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	var input models.NotificationPreferencesUpdate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	update := &notification.PreferencesUpdate{
		EmailEnabled:     input.EmailEnabled,
		PushEnabled:      input.PushEnabled,
		ProjectCreated:   input.ProjectCreated,
		ProjectUpdated:   input.ProjectUpdated,
		StatusChanged:    input.StatusChanged,
		ProjectCompleted: input.ProjectCompleted,
		ProgressUpdated:  input.ProgressUpdated,
		AnalysisComplete: input.AnalysisComplete,
		MilestoneReached: input.MilestoneReached,
		MonitoringAlert:  input.MonitoringAlert,
	}

	prefs, err := h.notificationService.UpdatePreferences(r.Context(), userID, update)
	if err != nil {
		response.InternalError(w, r, "failed to update preferences")
		return
	}

	response.JSON(w, r, http.StatusOK, toNotificationPreferences(prefs))
}

// Subscribe handles GET /v1/notifications/ws - upgrade to a websocket and
// stream notifications until the client disconnects.
func (h *NotificationHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	if h.flags.IsNotificationPushDisabled(r.Context()) {
		response.ServiceUnavailable(w, r, "live notifications are currently disabled")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		return
	}

	h.hub.Serve(userID, conn)
}

// applyToOne runs a single-notification mutation identified by the URL.
func (h *NotificationHandler) applyToOne(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID, id string) error) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	id := chi.URLParam(r, "notificationId")
	if id == "" {
		response.BadRequest(w, r, "notificationId is required", nil)
		return
	}

	if err := op(r.Context(), userID, id); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			response.NotFound(w, r, "notification not found")
			return
		}
		response.InternalError(w, r, "notification operation failed")
		return
	}

	response.NoContent(w, r)
}

// applyToAll runs a bulk mutation and reports how many rows it touched.
func (h *NotificationHandler) applyToAll(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID string) (int, error)) {
	userID := GetUserID(r.Context())
	if userID == "" {
		response.Unauthorized(w, r, "authentication required")
		return
	}

	updated, err := op(r.Context(), userID)
	if err != nil {
		response.InternalError(w, r, "notification operation failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.NotificationActionResult{Updated: updated})
}

// toNotification converts a domain notification to its API shape.
func toNotification(n *notification.Notification) models.Notification {
	out := models.Notification{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Icon:      n.Icon,
		Color:     n.Color,
		Priority:  string(n.Priority),
		Link:      n.Link,
		ProjectID: n.ProjectID,
		Read:      n.Read,
		CreatedAt: models.Timestamp(n.CreatedAt),
	}
	if n.ReadAt != nil {
		readAt := models.Timestamp(*n.ReadAt)
		out.ReadAt = &readAt
	}
	return out
}

// toNotificationPreferences converts domain preferences to their API shape.
func toNotificationPreferences(p *notification.Preferences) models.NotificationPreferences {
	return models.NotificationPreferences{
		EmailEnabled:     p.EmailEnabled,
		PushEnabled:      p.PushEnabled,
		ProjectCreated:   p.ProjectCreated,
		ProjectUpdated:   p.ProjectUpdated,
		StatusChanged:    p.StatusChanged,
		ProjectCompleted: p.ProjectCompleted,
		ProgressUpdated:  p.ProgressUpdated,
		AnalysisComplete: p.AnalysisComplete,
		MilestoneReached: p.MilestoneReached,
		MonitoringAlert:  p.MonitoringAlert,
	}
}
