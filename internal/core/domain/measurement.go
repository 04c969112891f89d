package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidMeasurement = errors.New("invalid measurement data")
)

// Measurement is one tracked daily observation for a goal, as delivered by
// the tracking collaborator and stored by the measurement repository.
type Measurement struct {
	ID     string `json:"id" db:"id"`
	GoalID string `json:"goal_id" db:"goal_id"`
	UserID string `json:"user_id" db:"user_id"`

	MeasuredOn time.Time          `json:"measured_on" db:"measured_on"`
	Value      float64            `json:"value" db:"value"`
	Category   string             `json:"category" db:"category"`
	Metrics    map[string]float64 `json:"metrics,omitempty" db:"-"`
	Statuses   []string           `json:"statuses,omitempty" db:"-"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewMeasurement(goalID, userID string, measuredOn time.Time, value float64) *Measurement {
	now := time.Now().UTC()

	return &Measurement{
		GoalID:     goalID,
		UserID:     userID,
		MeasuredOn: measuredOn.UTC(),
		Value:      value,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Measurement) Validate() error {
	if strings.TrimSpace(m.GoalID) == "" {
		return fmt.Errorf("%w: goal_id is required", ErrInvalidMeasurement)
	}
	if strings.TrimSpace(m.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidMeasurement)
	}
	if m.MeasuredOn.IsZero() {
		return fmt.Errorf("%w: measured_on is required", ErrInvalidMeasurement)
	}
	return nil
}

// DailyValue converts the measurement into the engine's per-day input shape.
func (m *Measurement) DailyValue() DailyValue {
	return DailyValue{
		Value:    m.Value,
		Category: m.Category,
		Metrics:  m.Metrics,
		Statuses: m.Statuses,
		Recorded: true,
	}
}
