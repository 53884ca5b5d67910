package assistant

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// chatColumns is the column list shared by chat history queries. Scan order
// must match scanEntry.
const chatColumns = `id, user_id, project_id, message, response, context, created_at`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL chat history repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Insert stores a new history entry.
func (r *PostgresRepository) Insert(ctx context.Context, entry *Entry) error {
	query := `
		INSERT INTO chat_history (` + chatColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		nullableString(entry.ProjectID),
		entry.Message,
		entry.Response,
		entry.Context,
		entry.CreatedAt,
	)
	return err
}

// ListRecent retrieves the newest entries for a user, oldest first.
func (r *PostgresRepository) ListRecent(ctx context.Context, userID, projectID string, limit int) ([]*Entry, error) {
	query := `SELECT ` + chatColumns + ` FROM chat_history WHERE user_id = $1`
	args := []interface{}{userID}

	if projectID != "" {
		args = append(args, projectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The query returns newest first; flip to transcript order.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Clear deletes a user's history.
func (r *PostgresRepository) Clear(ctx context.Context, userID, projectID string) (int, error) {
	query := `DELETE FROM chat_history WHERE user_id = $1`
	args := []interface{}{userID}

	if projectID != "" {
		args = append(args, projectID)
		query += fmt.Sprintf(" AND project_id = $%d", len(args))
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return int(tag.RowsAffected()), nil
}

// scanEntry scans a single chat history row.
func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e         Entry
		projectID *string
	)

	err := row.Scan(
		&e.ID,
		&e.UserID,
		&projectID,
		&e.Message,
		&e.Response,
		&e.Context,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if projectID != nil {
		e.ProjectID = *projectID
	}

	return &e, nil
}

// nullableString maps an empty string to SQL NULL.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
