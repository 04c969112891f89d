package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConfigNotFound      = errors.New("goal config not found")
	ErrConfigConflict      = errors.New("goal config version conflict")
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrUnauthorized        = errors.New("unauthorized")
)

type ConfigRepository interface {
	// Create persists a new goal configuration document.
	Create(ctx context.Context, cfg *GoalConfig) error

	// GetByID retrieves a goal configuration by its unique identifier.
	GetByID(ctx context.Context, id string) (*GoalConfig, error)

	// ListByUserID retrieves all goal configurations owned by a user.
	ListByUserID(ctx context.Context, userID string) ([]*GoalConfig, error)

	// Update modifies an existing goal configuration.
	Update(ctx context.Context, cfg *GoalConfig) error

	// Delete removes a goal configuration.
	Delete(ctx context.Context, id string) error
}

type MeasurementRepository interface {
	Create(ctx context.Context, m *Measurement) error

	// ListByGoalIDAndDateRange returns the tracked observations for one goal
	// within [from, to], ordered by measurement date ascending.
	ListByGoalIDAndDateRange(ctx context.Context, goalID string, from, to time.Time) ([]*Measurement, error)

	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*Measurement, error)
}

// SnapshotStore holds the most recently computed score per (user, goal) so
// dashboards can read it without re-running the engine.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, userID, goalID string, result ScoreResult) error
	GetSnapshot(ctx context.Context, userID, goalID string) (*ScoreResult, error)
}
