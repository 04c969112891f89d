package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// MinimumFrequency requires a configured number of qualifying days within the
// window. A day qualifies when its value satisfies the comparison against the
// threshold.
type MinimumFrequency struct {
	threshold    float64
	operator     domain.ComparisonOperator
	requiredDays int
	totalDays    int
	minScore     float64
	maxScore     float64
}

func NewMinimumFrequency(doc domain.ConfigDocument) (*MinimumFrequency, error) {
	if doc.Threshold == nil {
		return nil, fmt.Errorf("%w: minimum_frequency requires a threshold", domain.ErrInvalidConfig)
	}

	op := domain.OpGreaterOrEqual
	if doc.ComparisonOperator != "" {
		op = domain.ComparisonOperator(doc.ComparisonOperator)
		if !op.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, doc.ComparisonOperator)
		}
	}

	required := doc.RequiredQualifyingDays
	if required == 0 {
		required = doc.FrequencyTarget
	}
	totalDays := doc.Days()
	if required <= 0 {
		return nil, fmt.Errorf("%w: required_qualifying_days must be positive", domain.ErrInvalidConfig)
	}
	if required > totalDays {
		return nil, fmt.Errorf("%w: required_qualifying_days %d exceeds total_days %d", domain.ErrInvalidConfig, required, totalDays)
	}

	lo, hi := doc.Bounds()

	return &MinimumFrequency{
		threshold:    *doc.Threshold,
		operator:     op,
		requiredDays: required,
		totalDays:    totalDays,
		minScore:     lo,
		maxScore:     hi,
	}, nil
}

func (a *MinimumFrequency) Type() domain.AlgorithmType { return domain.AlgorithmMinimumFrequency }

func (a *MinimumFrequency) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *MinimumFrequency) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	qualifying := 0
	for _, d := range window {
		if d.Recorded && a.operator.Evaluate(d.Value, a.threshold) {
			qualifying++
		}
	}

	remaining := a.totalDays - currentDay
	perDay := 100.0 / float64(a.requiredDays)

	progress := float64(qualifying) * perDay
	potential := float64(qualifying+remaining) * perDay

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		QualifyingDays:        qualifying,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *MinimumFrequency) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}

// WeeklyElimination demands every observed day stay compliant; a single
// violation zeroes both figures for the rest of the window.
type WeeklyElimination struct {
	threshold float64
	operator  domain.ComparisonOperator
	totalDays int
	minScore  float64
	maxScore  float64
}

func NewWeeklyElimination(doc domain.ConfigDocument) (*WeeklyElimination, error) {
	if doc.Threshold == nil {
		return nil, fmt.Errorf("%w: weekly_elimination requires a threshold", domain.ErrInvalidConfig)
	}

	op := domain.OpLessOrEqual
	if doc.ComparisonOperator != "" {
		op = domain.ComparisonOperator(doc.ComparisonOperator)
		if !op.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, doc.ComparisonOperator)
		}
	}

	lo, hi := doc.Bounds()

	return &WeeklyElimination{
		threshold: *doc.Threshold,
		operator:  op,
		totalDays: doc.Days(),
		minScore:  lo,
		maxScore:  hi,
	}, nil
}

func (a *WeeklyElimination) Type() domain.AlgorithmType { return domain.AlgorithmWeeklyElimination }

func (a *WeeklyElimination) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *WeeklyElimination) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	clean := 0
	for _, d := range window {
		if d.Recorded && !a.operator.Evaluate(d.Value, a.threshold) {
			return domain.ScoreResult{
				ProgressTowardsGoal:   a.minScore,
				MaxPotentialAdherence: a.minScore,
				SuccessfulDays:        clean,
				ViolationOccurred:     true,
			}
		}
		clean++
	}

	result := domain.ScoreResult{
		ProgressTowardsGoal:   100,
		MaxPotentialAdherence: 100,
		SuccessfulDays:        clean,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *WeeklyElimination) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}

// WeeklyAllowance caps the cumulative weekly total at a configured allowance.
// Staying under the cap scores full marks; exceeding it is irrevocable within
// the window.
type WeeklyAllowance struct {
	allowance float64
	totalDays int
	minScore  float64
	maxScore  float64
}

func NewWeeklyAllowance(doc domain.ConfigDocument) (*WeeklyAllowance, error) {
	allowance := doc.WeeklyAllowance
	if allowance == nil {
		allowance = doc.Threshold
	}
	if allowance == nil {
		return nil, fmt.Errorf("%w: constrained_weekly_allowance requires a weekly_allowance", domain.ErrInvalidConfig)
	}
	if *allowance < 0 {
		return nil, fmt.Errorf("%w: weekly_allowance cannot be negative", domain.ErrInvalidConfig)
	}

	lo, hi := doc.Bounds()

	return &WeeklyAllowance{
		allowance: *allowance,
		totalDays: doc.Days(),
		minScore:  lo,
		maxScore:  hi,
	}, nil
}

func (a *WeeklyAllowance) Type() domain.AlgorithmType { return domain.AlgorithmWeeklyAllowance }

func (a *WeeklyAllowance) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *WeeklyAllowance) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)

	total := 0.0
	for _, d := range observed(days, currentDay) {
		total += d.RecordedValue()
	}

	if total > a.allowance {
		return domain.ScoreResult{
			ProgressTowardsGoal:   a.minScore,
			MaxPotentialAdherence: a.minScore,
			WeeklyTotal:           total,
			ViolationOccurred:     true,
		}
	}

	result := domain.ScoreResult{
		ProgressTowardsGoal:   100,
		MaxPotentialAdherence: 100,
		WeeklyTotal:           total,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *WeeklyAllowance) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
