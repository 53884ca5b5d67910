package notification

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL notification repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const notificationColumns = `
	id, user_id, type, title, message, icon, color, priority, link,
	project_id, is_read, is_archived, created_at, read_at
`

// Insert stores a new notification.
func (r *PostgresRepository) Insert(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Type,
		n.Title,
		n.Message,
		n.Icon,
		n.Color,
		n.Priority,
		n.Link,
		nullableString(n.ProjectID),
		n.Read,
		n.Archived,
		n.CreatedAt,
		n.ReadAt,
	)
	return err
}

// ListActive returns the user's non-archived notifications, newest first.
func (r *PostgresRepository) ListActive(ctx context.Context, userID string, limit int) ([]*Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND is_archived = FALSE
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// UnreadCount counts the user's unread, non-archived notifications.
func (r *PostgresRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE AND is_archived = FALSE
	`

	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (r *PostgresRepository) MarkRead(ctx context.Context, userID, id string, at time.Time) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, $1)
		WHERE id = $2 AND user_id = $3
	`

	tag, err := r.pool.Exec(ctx, query, at, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification as read.
func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = $1
		WHERE user_id = $2 AND is_read = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, at, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Archive removes one notification from the active list.
func (r *PostgresRepository) Archive(ctx context.Context, userID, id string) error {
	query := `
		UPDATE notifications
		SET is_archived = TRUE
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// ArchiveRead archives every read notification.
func (r *PostgresRepository) ArchiveRead(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE notifications
		SET is_archived = TRUE
		WHERE user_id = $1 AND is_read = TRUE AND is_archived = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// Delete permanently removes one notification.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query := `
		DELETE FROM notifications
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

const preferenceColumns = `
	user_id, email_enabled, push_enabled, project_created, project_updated,
	status_changed, project_completed, progress_updated, analysis_complete,
	milestone_reached, monitoring_alert, created_at, updated_at
`

// GetPreferences returns the user's stored preferences.
func (r *PostgresRepository) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	query := `
		SELECT ` + preferenceColumns + `
		FROM notification_preferences
		WHERE user_id = $1
	`

	var p Preferences
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.EmailEnabled,
		&p.PushEnabled,
		&p.ProjectCreated,
		&p.ProjectUpdated,
		&p.StatusChanged,
		&p.ProjectCompleted,
		&p.ProgressUpdated,
		&p.AnalysisComplete,
		&p.MilestoneReached,
		&p.MonitoringAlert,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferencesNotFound
		}
		return nil, err
	}

	return &p, nil
}

// SavePreferences upserts the user's preferences.
func (r *PostgresRepository) SavePreferences(ctx context.Context, p *Preferences) error {
	query := `
		INSERT INTO notification_preferences (` + preferenceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			push_enabled = EXCLUDED.push_enabled,
			project_created = EXCLUDED.project_created,
			project_updated = EXCLUDED.project_updated,
			status_changed = EXCLUDED.status_changed,
			project_completed = EXCLUDED.project_completed,
			progress_updated = EXCLUDED.progress_updated,
			analysis_complete = EXCLUDED.analysis_complete,
			milestone_reached = EXCLUDED.milestone_reached,
			monitoring_alert = EXCLUDED.monitoring_alert,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		p.UserID,
		p.EmailEnabled,
		p.PushEnabled,
		p.ProjectCreated,
		p.ProjectUpdated,
		p.StatusChanged,
		p.ProjectCompleted,
		p.ProgressUpdated,
		p.AnalysisComplete,
		p.MilestoneReached,
		p.MonitoringAlert,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// scanner abstracts pgx.Row and pgx.Rows for shared scanning.
type scanner interface {
	Scan(dest ...any) error
}

// scanNotification scans one notification row.
func scanNotification(row scanner) (*Notification, error) {
	var n Notification
	var projectID *string

	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&n.Title,
		&n.Message,
		&n.Icon,
		&n.Color,
		&n.Priority,
		&n.Link,
		&projectID,
		&n.Read,
		&n.Archived,
		&n.CreatedAt,
		&n.ReadAt,
	)
	if err != nil {
		return nil, err
	}

	if projectID != nil {
		n.ProjectID = *projectID
	}
	return &n, nil
}

// nullableString maps the empty string to NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
