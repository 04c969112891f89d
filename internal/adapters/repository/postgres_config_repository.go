package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresConfigRepository struct {
	db *sqlx.DB
}

func NewPostgresConfigRepository(db *sqlx.DB) *PostgresConfigRepository {
	return &PostgresConfigRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresConfigRepository) scanRow(row scannable) (*domain.GoalConfig, error) {
	var cfg domain.GoalConfig
	var documentJSON []byte

	err := row.Scan(
		&cfg.ID, &cfg.UserID, &cfg.Name, &documentJSON,
		&cfg.Version, &cfg.CreatedAt, &cfg.UpdatedAt, &cfg.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(documentJSON) > 0 {
		if err := json.Unmarshal(documentJSON, &cfg.Document); err != nil {
			return nil, fmt.Errorf("failed to unmarshal goal document: %w", err)
		}
	}

	return &cfg, nil
}

func (r *PostgresConfigRepository) Create(ctx context.Context, cfg *domain.GoalConfig) error {
	documentJSON, err := json.Marshal(cfg.Document)
	if err != nil {
		return fmt.Errorf("failed to marshal goal document: %w", err)
	}

	query := `
        INSERT INTO goal_configs (
            id, user_id, name, document,
            version, created_at, updated_at, deleted_at
        ) VALUES (
            $1, $2, $3, $4,
            1, $5, $6, NULL
        )`

	_, err = r.db.ExecContext(ctx, query,
		cfg.ID, cfg.UserID, cfg.Name, documentJSON,
		cfg.CreatedAt, cfg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert goal config: %w", err)
	}

	cfg.Version = 1
	return nil
}

func (r *PostgresConfigRepository) GetByID(ctx context.Context, id string) (*domain.GoalConfig, error) {
	query := `SELECT * FROM goal_configs WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	cfg, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return cfg, nil
}

func (r *PostgresConfigRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalConfig, error) {
	query := `
        SELECT * FROM goal_configs
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var configs []*domain.GoalConfig

	for rows.Next() {
		cfg, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		configs = append(configs, cfg)
	}

	return configs, nil
}

func (r *PostgresConfigRepository) Update(ctx context.Context, cfg *domain.GoalConfig) error {
	documentJSON, err := json.Marshal(cfg.Document)
	if err != nil {
		return err
	}

	query := `
        UPDATE goal_configs SET
            name=$1, document=$2,
            updated_at=NOW(), version = version + 1
        WHERE id=$3 AND version=$4 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		cfg.Name, documentJSON,
		cfg.ID, cfg.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err = row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM goal_configs WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, cfg.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrConfigNotFound
			}
			return domain.ErrConfigConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	cfg.Version = newVersion
	cfg.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresConfigRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE goal_configs
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConfigNotFound
	}

	return nil
}
