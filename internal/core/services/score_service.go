package services

import (
	"context"
	"time"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/keegs-3/wellpath-adherence/internal/core/workers"
)

type ScoreService struct {
	configRepo      domain.ConfigRepository
	measurementRepo domain.MeasurementRepository
	snapshots       domain.SnapshotStore
	worker          *workers.ScoreWorker
}

func NewScoreService(configRepo domain.ConfigRepository, measurementRepo domain.MeasurementRepository, snapshots domain.SnapshotStore, worker *workers.ScoreWorker) *ScoreService {
	return &ScoreService{
		configRepo:      configRepo,
		measurementRepo: measurementRepo,
		snapshots:       snapshots,
		worker:          worker,
	}
}

// GoalScore is a ScoreResult annotated with the window it covers.
type GoalScore struct {
	GoalID     string             `json:"goal_id"`
	Algorithm  string             `json:"algorithm_type"`
	WindowFrom string             `json:"window_from"`
	WindowTo   string             `json:"window_to"`
	CurrentDay int                `json:"current_day"`
	TotalDays  int                `json:"total_days"`
	Result     domain.ScoreResult `json:"result"`
}

func (s *ScoreService) loadCalculator(ctx context.Context, goalID, userID string) (*domain.GoalConfig, *scoring.Calculator, error) {
	cfg, err := s.configRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, nil, err
	}
	if cfg.UserID != userID {
		return nil, nil, domain.ErrUnauthorized
	}

	calc, err := scoring.NewCalculator(cfg.Document)
	if err != nil {
		return nil, nil, err
	}
	return cfg, calc, nil
}

func (s *ScoreService) buildWindow(ctx context.Context, cfg *domain.GoalConfig, endDate time.Time) ([]domain.DailyValue, time.Time, error) {
	totalDays := cfg.Document.Days()
	end := endDate.UTC().Truncate(24 * time.Hour)
	from := end.AddDate(0, 0, -(totalDays - 1))

	measurements, err := s.measurementRepo.ListByGoalIDAndDateRange(ctx, cfg.ID, from, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, time.Time{}, err
	}

	return domain.BuildDailyWindow(measurements, from, totalDays), from, nil
}

// GetScore evaluates a goal over its trailing window ending at endDate and
// reports both realized progress and the best still-achievable score.
func (s *ScoreService) GetScore(ctx context.Context, userID, goalID string, endDate time.Time) (*GoalScore, error) {
	cfg, calc, err := s.loadCalculator(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	window, from, err := s.buildWindow(ctx, cfg, endDate)
	if err != nil {
		return nil, err
	}

	totalDays := cfg.Document.Days()
	currentDay := domain.ElapsedDays(from, time.Now().UTC(), totalDays)
	result := calc.CalculateDualProgress(window, currentDay)

	if s.worker != nil {
		s.worker.Enqueue(userID, goalID)
	}

	return &GoalScore{
		GoalID:     goalID,
		Algorithm:  string(calc.Info().Type),
		WindowFrom: from.Format("2006-01-02"),
		WindowTo:   from.AddDate(0, 0, totalDays-1).Format("2006-01-02"),
		CurrentDay: currentDay,
		TotalDays:  totalDays,
		Result:     result,
	}, nil
}

// GetProgressiveScores replays the window causally, one progress figure per
// day as the user would have seen it.
func (s *ScoreService) GetProgressiveScores(ctx context.Context, userID, goalID string, endDate time.Time) ([]float64, error) {
	cfg, calc, err := s.loadCalculator(ctx, goalID, userID)
	if err != nil {
		return nil, err
	}

	window, _, err := s.buildWindow(ctx, cfg, endDate)
	if err != nil {
		return nil, err
	}

	return calc.ProgressiveScores(window), nil
}

// PreviewScore scores an inline goal document against caller-supplied daily
// values without touching storage. Configuration errors surface; data gaps
// degrade to the fallback score.
func (s *ScoreService) PreviewScore(doc domain.ConfigDocument, days []domain.DailyValue, currentDay *int) (*domain.ScoreResult, error) {
	calc, err := scoring.NewCalculator(doc)
	if err != nil {
		return nil, err
	}

	var result domain.ScoreResult
	if currentDay != nil {
		result = calc.CalculateDualProgress(days, *currentDay)
	} else {
		result = calc.CalculateScore(days)
	}
	return &result, nil
}

type RecordMeasurementInput struct {
	GoalID     string
	UserID     string
	MeasuredOn time.Time
	Value      float64
	Category   string
	Metrics    map[string]float64
	Statuses   []string
}

// RecordMeasurement stores one tracked observation and schedules a snapshot
// refresh so the cached score catches up with the new data.
func (s *ScoreService) RecordMeasurement(ctx context.Context, input RecordMeasurementInput) (*domain.Measurement, error) {
	cfg, err := s.configRepo.GetByID(ctx, input.GoalID)
	if err != nil {
		return nil, err
	}
	if cfg.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}

	m := domain.NewMeasurement(input.GoalID, input.UserID, input.MeasuredOn, input.Value)
	m.Category = input.Category
	m.Metrics = input.Metrics
	m.Statuses = input.Statuses

	if err := s.measurementRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	if s.worker != nil {
		s.worker.Enqueue(input.UserID, input.GoalID)
	}

	return m, nil
}

// ListMeasurements returns a goal's observations within [from, to).
func (s *ScoreService) ListMeasurements(ctx context.Context, userID, goalID string, from, to time.Time) ([]*domain.Measurement, error) {
	cfg, err := s.configRepo.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if cfg.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	return s.measurementRepo.ListByGoalIDAndDateRange(ctx, goalID, from, to)
}

// GetSnapshot returns the worker-maintained latest score, falling back to a
// fresh computation when none is cached yet.
func (s *ScoreService) GetSnapshot(ctx context.Context, userID, goalID string) (*domain.ScoreResult, error) {
	if s.snapshots != nil {
		if snap, err := s.snapshots.GetSnapshot(ctx, userID, goalID); err == nil && snap != nil {
			return snap, nil
		}
	}

	score, err := s.GetScore(ctx, userID, goalID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &score.Result, nil
}
