package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/terrasense/terrasense/internal/project"
)

// Repository defines the storage operations for notifications and
// preferences. All operations are scoped to a user; a notification ID from
// another user behaves as not found.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	ListActive(ctx context.Context, userID string, limit int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error)
	Archive(ctx context.Context, userID, id string) error
	ArchiveRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error

	GetPreferences(ctx context.Context, userID string) (*Preferences, error)
	SavePreferences(ctx context.Context, p *Preferences) error
}

// Publisher pushes a stored notification to live subscribers. Publish must
// not block.
type Publisher interface {
	Publish(userID string, n *Notification)
}

// ServiceConfig holds configuration for the notification service.
type ServiceConfig struct {
	// Repository persists notifications and preferences.
	Repository Repository

	// Publisher pushes created notifications to live subscribers (optional).
	Publisher Publisher

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service creates, lists and mutates notifications.
type Service struct {
	repo      Repository
	publisher Publisher
	logger    zerolog.Logger
}

// NewService creates a new notification service.
func NewService(cfg ServiceConfig) *Service {
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}

	return &Service{
		repo:      cfg.Repository,
		publisher: publisher,
		logger:    cfg.Logger.With().Str("component", "notification_service").Logger(),
	}
}

// Notify stores a notification of the given type for the user, unless the
// user's preferences disable that type. The stored notification is pushed to
// live subscribers when push is enabled. Returns nil, nil when the type is
// disabled.
func (s *Service) Notify(ctx context.Context, userID string, typ Type, message, projectID string) (*Notification, error) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}
	if !prefs.Allows(typ) {
		return nil, nil
	}

	cfg := configFor(typ)

	n := &Notification{
		ID:        "ntf_" + uuid.New().String()[:22],
		UserID:    userID,
		Type:      typ,
		Title:     cfg.Title,
		Message:   message,
		Icon:      cfg.Icon,
		Color:     cfg.Color,
		Priority:  cfg.Priority,
		ProjectID: projectID,
		CreatedAt: time.Now().UTC(),
	}
	if projectID != "" {
		n.Link = "/projects/" + projectID
	}

	if err := s.repo.Insert(ctx, n); err != nil {
		return nil, fmt.Errorf("storing notification: %w", err)
	}

	if prefs.PushEnabled {
		s.publisher.Publish(userID, n)
	}

	return n, nil
}

// List returns the user's non-archived notifications, newest first, along
// with the unread count.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]*Notification, int, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	items, err := s.repo.ListActive(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	return items, unread, nil
}

// UnreadCount returns how many unread, non-archived notifications the user has.
func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	return s.repo.MarkRead(ctx, userID, id, time.Now().UTC())
}

// MarkAllRead marks every unread notification as read and returns how many
// were affected.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
}

// Archive removes one notification from the active list without deleting it.
func (s *Service) Archive(ctx context.Context, userID, id string) error {
	return s.repo.Archive(ctx, userID, id)
}

// ArchiveRead archives every read notification and returns how many were
// affected.
func (s *Service) ArchiveRead(ctx context.Context, userID string) (int, error) {
	return s.repo.ArchiveRead(ctx, userID)
}

// Delete permanently removes one notification.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Preferences returns the user's notification toggles, creating the default
// set on first access.
func (s *Service) Preferences(ctx context.Context, userID string) (*Preferences, error) {
	prefs, err := s.repo.GetPreferences(ctx, userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, ErrPreferencesNotFound) {
		return nil, err
	}

	prefs = DefaultPreferences(userID)
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("saving default preferences: %w", err)
	}
	return prefs, nil
}

// UpdatePreferences applies a partial update to the user's toggles.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, update *PreferencesUpdate) (*Preferences, error) {
	prefs, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}

	update.apply(prefs)
	prefs.UpdatedAt = time.Now().UTC()

	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}
	return prefs, nil
}

// Project lifecycle events. These implement the project service's Notifier
// hook: they never return errors to the operation that fired them; failures
// are only logged.

// ProjectCreated records a creation notification.
func (s *Service) ProjectCreated(ctx context.Context, p *project.Project) {
	msg := fmt.Sprintf("'%s' has been successfully created with full land analysis", p.Name)
	s.fire(ctx, p.UserID, TypeProjectCreated, msg, p.ID)
}

// ProjectUpdated records an update notification.
func (s *Service) ProjectUpdated(ctx context.Context, p *project.Project) {
	msg := fmt.Sprintf("'%s' has been updated", p.Name)
	s.fire(ctx, p.UserID, TypeProjectUpdated, msg, p.ID)
}

// StatusChanged records a status transition notification. A transition to
// completed uses the dedicated completion type.
func (s *Service) StatusChanged(ctx context.Context, p *project.Project, previous project.Status) {
	var phrase string
	switch p.Status {
	case project.StatusPlanning:
		phrase = "is now in planning phase"
	case project.StatusActive:
		phrase = "is now active"
	case project.StatusCompleted:
		phrase = "has been completed!"
	case project.StatusPaused:
		phrase = "has been paused"
	default:
		phrase = "status changed to " + string(p.Status)
	}

	typ := TypeStatusChanged
	if p.Status == project.StatusCompleted {
		typ = TypeProjectCompleted
	}

	s.fire(ctx, p.UserID, typ, fmt.Sprintf("'%s' %s", p.Name, phrase), p.ID)
}

// ProgressUpdated records a progress change notification.
func (s *Service) ProgressUpdated(ctx context.Context, p *project.Project) {
	msg := fmt.Sprintf("'%s' progress updated to %d%%", p.Name, p.Progress)
	s.fire(ctx, p.UserID, TypeProgressUpdated, msg, p.ID)
}

// MilestoneReached records a milestone notification.
func (s *Service) MilestoneReached(ctx context.Context, p *project.Project) {
	msg := fmt.Sprintf("'%s' reached %d%% completion milestone!", p.Name, p.Progress)
	s.fire(ctx, p.UserID, TypeMilestoneReached, msg, p.ID)
}

// ProjectDeleted records a deletion notification. The project row is gone,
// so no link is attached.
func (s *Service) ProjectDeleted(ctx context.Context, userID, name string) {
	msg := fmt.Sprintf("'%s' has been deleted", name)
	s.fire(ctx, userID, TypeProjectDeleted, msg, "")
}

// AnalysisCompleted records an analysis completion notification.
func (s *Service) AnalysisCompleted(ctx context.Context, p *project.Project) {
	msg := fmt.Sprintf("Land analysis completed for '%s'", p.Name)
	s.fire(ctx, p.UserID, TypeAnalysisComplete, msg, p.ID)
}

// MonitoringAlert records an alert raised by a monitoring sample.
func (s *Service) MonitoringAlert(ctx context.Context, userID, projectID, projectName, alertMessage string) {
	msg := fmt.Sprintf("%s for '%s'", alertMessage, projectName)
	s.fire(ctx, userID, TypeMonitoringAlert, msg, projectID)
}

// fire is Notify with errors demoted to log lines.
func (s *Service) fire(ctx context.Context, userID string, typ Type, message, projectID string) {
	if _, err := s.Notify(ctx, userID, typ, message, projectID); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID).
			Str("type", string(typ)).
			Msg("Failed to record notification")
	}
}

// nopPublisher discards all publishes.
type nopPublisher struct{}

func (nopPublisher) Publish(string, *Notification) {}
