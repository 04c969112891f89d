package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

type InMemoryConfigRepository struct {
	store map[string]*domain.GoalConfig

	mu sync.RWMutex
}

func NewInMemoryConfigRepository() *InMemoryConfigRepository {
	return &InMemoryConfigRepository{
		store: make(map[string]*domain.GoalConfig),
	}
}

func (r *InMemoryConfigRepository) Create(ctx context.Context, cfg *domain.GoalConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *cfg
	r.store[cfg.ID] = &clone
	return nil
}

func (r *InMemoryConfigRepository) GetByID(ctx context.Context, id string) (*domain.GoalConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.store[id]
	if !ok || cfg.DeletedAt != nil {
		return nil, domain.ErrConfigNotFound
	}

	clone := *cfg
	return &clone, nil
}

func (r *InMemoryConfigRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var configs []*domain.GoalConfig
	for _, c := range r.store {
		if c.UserID == userID && c.DeletedAt == nil {
			clone := *c
			configs = append(configs, &clone)
		}
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].CreatedAt.After(configs[j].CreatedAt)
	})

	return configs, nil
}

func (r *InMemoryConfigRepository) Update(ctx context.Context, cfg *domain.GoalConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[cfg.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrConfigNotFound
	}
	if existing.Version != cfg.Version {
		return domain.ErrConfigConflict
	}

	clone := *cfg
	clone.Version++
	clone.UpdatedAt = time.Now().UTC()
	r.store[cfg.ID] = &clone

	cfg.Version = clone.Version
	cfg.UpdatedAt = clone.UpdatedAt
	return nil
}

func (r *InMemoryConfigRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.store[id]
	if !ok || cfg.DeletedAt != nil {
		return domain.ErrConfigNotFound
	}

	now := time.Now().UTC()
	cfg.DeletedAt = &now
	return nil
}

type InMemoryMeasurementRepository struct {
	store []*domain.Measurement

	mu sync.RWMutex
}

func NewInMemoryMeasurementRepository() *InMemoryMeasurementRepository {
	return &InMemoryMeasurementRepository{}
}

func (r *InMemoryMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *m
	r.store = append(r.store, &clone)
	return nil
}

func (r *InMemoryMeasurementRepository) ListByGoalIDAndDateRange(ctx context.Context, goalID string, from, to time.Time) ([]*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(m *domain.Measurement) bool {
		return m.GoalID == goalID
	}, from, to), nil
}

func (r *InMemoryMeasurementRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.Measurement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(m *domain.Measurement) bool {
		return m.UserID == userID
	}, from, to), nil
}

func (r *InMemoryMeasurementRepository) filter(match func(*domain.Measurement) bool, from, to time.Time) []*domain.Measurement {
	var out []*domain.Measurement
	for _, m := range r.store {
		if !match(m) || m.DeletedAt != nil {
			continue
		}
		if m.MeasuredOn.Before(from) || !m.MeasuredOn.Before(to) {
			continue
		}
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MeasuredOn.Before(out[j].MeasuredOn)
	})

	return out
}
