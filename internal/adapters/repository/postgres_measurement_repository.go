package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/lib/pq"
)

type PostgresMeasurementRepository struct {
	db *sqlx.DB
}

func NewPostgresMeasurementRepository(db *sqlx.DB) *PostgresMeasurementRepository {
	return &PostgresMeasurementRepository{db: db}
}

func (r *PostgresMeasurementRepository) scanRow(row scannable) (*domain.Measurement, error) {
	var m domain.Measurement
	var metricsJSON []byte
	var statuses pq.StringArray

	err := row.Scan(
		&m.ID, &m.GoalID, &m.UserID,
		&m.MeasuredOn, &m.Value, &m.Category, &metricsJSON, &statuses,
		&m.Version, &m.CreatedAt, &m.UpdatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &m.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
	}
	m.Statuses = statuses

	return &m, nil
}

func (r *PostgresMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	metricsJSON, err := json.Marshal(m.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
        INSERT INTO daily_measurements (
            id, goal_id, user_id,
            measured_on, value, category, metrics, statuses,
            version, created_at, updated_at, deleted_at
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7, $8,
            1, $9, $10, NULL
        )`

	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.GoalID, m.UserID,
		m.MeasuredOn, m.Value, m.Category, metricsJSON, pq.StringArray(m.Statuses),
		m.CreatedAt, m.UpdatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			// 23503: foreign_key_violation (goal no longer exists)
			if pqErr.Code == "23503" {
				return domain.ErrConfigNotFound
			}
		}
		return fmt.Errorf("failed to insert measurement: %w", err)
	}

	m.Version = 1
	return nil
}

func (r *PostgresMeasurementRepository) ListByGoalIDAndDateRange(ctx context.Context, goalID string, from, to time.Time) ([]*domain.Measurement, error) {
	query := `
        SELECT * FROM daily_measurements
        WHERE goal_id = $1
          AND measured_on >= $2 AND measured_on < $3
          AND deleted_at IS NULL
        ORDER BY measured_on ASC`

	return r.listByQuery(ctx, query, goalID, from, to)
}

func (r *PostgresMeasurementRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Measurement, error) {
	query := `
        SELECT * FROM daily_measurements
        WHERE user_id = $1
          AND measured_on >= $2 AND measured_on < $3
          AND deleted_at IS NULL
        ORDER BY measured_on ASC`

	return r.listByQuery(ctx, query, userID, from, to)
}

func (r *PostgresMeasurementRepository) listByQuery(ctx context.Context, query string, args ...interface{}) ([]*domain.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var measurements []*domain.Measurement

	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		measurements = append(measurements, m)
	}

	return measurements, nil
}
