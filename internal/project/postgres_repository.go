package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// projectColumns is the column list shared by all project queries. Scan order
// must match scanProject.
const projectColumns = `
	id, user_id, name, description, project_type, area_hectares,
	location_name, lat, lon,
	soil_type, soil_ph, soil_fertility, climate_zone, annual_rainfall,
	temperature, humidity, elevation, vegetation_index, degradation_level,
	recommended_crops, recommended_trees, restoration_techniques,
	timeline_months, estimated_budget,
	status, progress, start_date, end_date,
	created_at, updated_at, last_analyzed_at`

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL project repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a project by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE id = $1`
	return r.scanProject(r.pool.QueryRow(ctx, query, id))
}

// GetByUserAndID retrieves a project by user ID and project ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, projectID string) (*Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE id = $1 AND user_id = $2`
	return r.scanProject(r.pool.QueryRow(ctx, query, projectID, userID))
}

// List retrieves projects for a user with cursor pagination, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `SELECT` + projectColumns + ` FROM projects WHERE user_id = $1`
	args := []interface{}{userID}

	if opts.Status != "" {
		args = append(args, opts.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if opts.Cursor != "" {
		// Keyset pagination: resume below the cursor row's creation time.
		args = append(args, opts.Cursor)
		query += fmt.Sprintf(" AND created_at < (SELECT created_at FROM projects WHERE id = $%d)", len(args))
	}

	args = append(args, fetchLimit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := r.collectProjects(rows)
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: projects,
	}

	// If we got more results than the limit, there are more pages
	if len(projects) > limit {
		result.Items = projects[:limit]
		result.NextCursor = projects[limit-1].ID
	}

	return result, nil
}

// ListByUser retrieves all of a user's projects, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectProjects(rows)
}

// ListActive retrieves all active projects across users.
func (r *PostgresRepository) ListActive(ctx context.Context) ([]*Project, error) {
	query := `SELECT` + projectColumns + ` FROM projects WHERE status = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, StatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.collectProjects(rows)
}

// Create creates a new project.
func (r *PostgresRepository) Create(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31
		)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Name,
		p.Description,
		p.Type,
		p.AreaHectares,
		p.LocationName,
		p.Lat,
		p.Lon,
		p.SoilType,
		p.SoilPH,
		p.SoilFertility,
		p.ClimateZone,
		p.AnnualRainfall,
		p.Temperature,
		p.Humidity,
		p.Elevation,
		p.VegetationIndex,
		p.DegradationLevel,
		p.RecommendedCrops,
		p.RecommendedTrees,
		p.RestorationTechniques,
		p.TimelineMonths,
		p.EstimatedBudget,
		p.Status,
		p.Progress,
		p.StartDate,
		p.EndDate,
		p.CreatedAt,
		p.UpdatedAt,
		p.LastAnalyzedAt,
	)
	return err
}

// Update updates an existing project.
func (r *PostgresRepository) Update(ctx context.Context, p *Project) error {
	query := `
		UPDATE projects SET
			name = $2,
			description = $3,
			soil_type = $4,
			soil_ph = $5,
			soil_fertility = $6,
			climate_zone = $7,
			annual_rainfall = $8,
			temperature = $9,
			humidity = $10,
			elevation = $11,
			vegetation_index = $12,
			degradation_level = $13,
			recommended_crops = $14,
			recommended_trees = $15,
			restoration_techniques = $16,
			timeline_months = $17,
			estimated_budget = $18,
			status = $19,
			progress = $20,
			end_date = $21,
			updated_at = $22,
			last_analyzed_at = $23
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.SoilType,
		p.SoilPH,
		p.SoilFertility,
		p.ClimateZone,
		p.AnnualRainfall,
		p.Temperature,
		p.Humidity,
		p.Elevation,
		p.VegetationIndex,
		p.DegradationLevel,
		p.RecommendedCrops,
		p.RecommendedTrees,
		p.RestorationTechniques,
		p.TimelineMonths,
		p.EstimatedBudget,
		p.Status,
		p.Progress,
		p.EndDate,
		p.UpdatedAt,
		p.LastAnalyzedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// Delete deletes a project by ID. Monitoring samples, notifications and chat
// history reference projects with ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// scanProject scans a single project row.
func (r *PostgresRepository) scanProject(row pgx.Row) (*Project, error) {
	var p Project

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.Description,
		&p.Type,
		&p.AreaHectares,
		&p.LocationName,
		&p.Lat,
		&p.Lon,
		&p.SoilType,
		&p.SoilPH,
		&p.SoilFertility,
		&p.ClimateZone,
		&p.AnnualRainfall,
		&p.Temperature,
		&p.Humidity,
		&p.Elevation,
		&p.VegetationIndex,
		&p.DegradationLevel,
		&p.RecommendedCrops,
		&p.RecommendedTrees,
		&p.RestorationTechniques,
		&p.TimelineMonths,
		&p.EstimatedBudget,
		&p.Status,
		&p.Progress,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastAnalyzedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	return &p, nil
}

// collectProjects scans all rows from a multi-row project query.
func (r *PostgresRepository) collectProjects(rows pgx.Rows) ([]*Project, error) {
	var projects []*Project
	for rows.Next() {
		p, err := r.scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
