package monitoring

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

// NewPostgresRepository creates a new PostgreSQL monitoring repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const sampleColumns = `
	id, project_id, ndvi, vegetation_health, canopy_cover, soil_moisture,
	soil_temperature, soil_ph, erosion_risk, temperature, humidity,
	wind_speed, vegetation_change, degradation_trend, alert_level,
	alert_message, recorded_at
`

// Insert stores a new sample.
func (r *PostgresRepository) Insert(ctx context.Context, sample *Sample) error {
	query := `
		INSERT INTO monitoring_samples (` + sampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.pool.Exec(ctx, query,
		sample.ID,
		sample.ProjectID,
		sample.NDVI,
		sample.VegetationHealth,
		sample.CanopyCover,
		sample.SoilMoisture,
		sample.SoilTemperature,
		sample.SoilPH,
		sample.ErosionRisk,
		sample.Temperature,
		sample.Humidity,
		sample.WindSpeed,
		sample.VegetationChange,
		sample.DegradationTrend,
		sample.AlertLevel,
		sample.AlertMessage,
		sample.RecordedAt,
	)
	return err
}

// Latest retrieves the most recent sample for a project.
func (r *PostgresRepository) Latest(ctx context.Context, projectID string) (*Sample, error) {
	query := `
		SELECT ` + sampleColumns + `
		FROM monitoring_samples
		WHERE project_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	sample, err := scanSample(r.pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSampleNotFound
		}
		return nil, err
	}

	return sample, nil
}

// ListSince retrieves a project's samples recorded at or after since.
func (r *PostgresRepository) ListSince(ctx context.Context, projectID string, since time.Time) ([]*Sample, error) {
	query := `
		SELECT ` + sampleColumns + `
		FROM monitoring_samples
		WHERE project_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC
	`

	rows, err := r.pool.Query(ctx, query, projectID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		sample, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

// CountByProject returns how many samples a project has.
func (r *PostgresRepository) CountByProject(ctx context.Context, projectID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM monitoring_samples WHERE project_id = $1`,
		projectID,
	).Scan(&count)
	return count, err
}

// DeleteByProject removes all samples for a project.
func (r *PostgresRepository) DeleteByProject(ctx context.Context, projectID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM monitoring_samples WHERE project_id = $1`,
		projectID,
	)
	return err
}

// scanSample scans one sample from a row.
func scanSample(row pgx.Row) (*Sample, error) {
	var sample Sample
	err := row.Scan(
		&sample.ID,
		&sample.ProjectID,
		&sample.NDVI,
		&sample.VegetationHealth,
		&sample.CanopyCover,
		&sample.SoilMoisture,
		&sample.SoilTemperature,
		&sample.SoilPH,
		&sample.ErosionRisk,
		&sample.Temperature,
		&sample.Humidity,
		&sample.WindSpeed,
		&sample.VegetationChange,
		&sample.DegradationTrend,
		&sample.AlertLevel,
		&sample.AlertMessage,
		&sample.RecordedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
