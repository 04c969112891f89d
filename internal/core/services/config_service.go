package services

import (
	"context"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
)

type ConfigService struct {
	repo domain.ConfigRepository
}

func NewConfigService(repo domain.ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

type CreateConfigInput struct {
	UserID   string
	Name     string
	Document domain.ConfigDocument
}

type UpdateConfigInput struct {
	ID       string
	UserID   string
	Name     string
	Document domain.ConfigDocument
	Version  int
}

// Create validates the goal document by constructing its algorithm before
// anything is persisted, so a bad definition fails here rather than at
// scoring time.
func (s *ConfigService) Create(ctx context.Context, input CreateConfigInput) (*domain.GoalConfig, error) {
	if _, err := scoring.NewCalculator(input.Document); err != nil {
		return nil, err
	}

	cfg, err := domain.NewGoalConfig(input.UserID, input.Name, input.Document)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *ConfigService) GetByID(ctx context.Context, id, userID string) (*domain.GoalConfig, error) {
	cfg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cfg.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return cfg, nil
}

func (s *ConfigService) ListByUserID(ctx context.Context, userID string) ([]*domain.GoalConfig, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *ConfigService) Update(ctx context.Context, input UpdateConfigInput) (*domain.GoalConfig, error) {
	if _, err := scoring.NewCalculator(input.Document); err != nil {
		return nil, err
	}

	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrConfigConflict
	}

	if input.Name != "" {
		existing.Name = input.Name
	}
	existing.Document = input.Document

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *ConfigService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
