package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

const (
	defaultSuccessScore = 100.0
	defaultFailureScore = 0.0
)

// BinaryThreshold scores each day as pass/fail against a single threshold.
// Two evaluation shapes exist: a daily goal where every day is compared
// independently, and a weekly constraint where the running sum of daily
// values must stay under a ceiling for the whole window.
type BinaryThreshold struct {
	threshold    float64
	operator     domain.ComparisonOperator
	successValue float64
	failureValue float64
	totalDays    int
	weekly       bool
	minScore     float64
	maxScore     float64
}

func NewBinaryThreshold(doc domain.ConfigDocument) (*BinaryThreshold, error) {
	if doc.Threshold == nil {
		return nil, fmt.Errorf("%w: binary_threshold requires a threshold", domain.ErrInvalidConfig)
	}

	op := domain.ComparisonOperator(doc.ComparisonOperator)
	if !op.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, doc.ComparisonOperator)
	}

	success, failure := defaultSuccessScore, defaultFailureScore
	if doc.SuccessValue != nil {
		success = *doc.SuccessValue
	}
	if doc.FailureValue != nil {
		failure = *doc.FailureValue
	}
	if failure > success {
		return nil, fmt.Errorf("%w: failure_value %.2f exceeds success_value %.2f", domain.ErrInvalidConfig, failure, success)
	}

	lo, hi := doc.Bounds()

	return &BinaryThreshold{
		threshold:    *doc.Threshold,
		operator:     op,
		successValue: success,
		failureValue: failure,
		totalDays:    doc.Days(),
		weekly:       op.IsCeiling() && (doc.EvaluationPeriod == domain.PeriodRolling7 || doc.CalculationMethod == domain.MethodWeeklySum),
		minScore:     lo,
		maxScore:     hi,
	}, nil
}

func (a *BinaryThreshold) Type() domain.AlgorithmType { return domain.AlgorithmBinaryThreshold }

func (a *BinaryThreshold) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *BinaryThreshold) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	if a.weekly {
		return a.weeklyConstraint(window)
	}

	successes := 0
	for _, d := range window {
		if d.Recorded && a.operator.Evaluate(d.Value, a.threshold) {
			successes++
		}
	}

	perDay := 100.0 / float64(a.totalDays)
	progress := float64(successes) * perDay

	// Only observed successes reduce headroom: a day without a qualifying
	// entry may still be backfilled by a late sync, so the best case assumes
	// every other day ends successful.
	potential := progress + float64(a.totalDays-successes)*perDay

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		SuccessfulDays:        successes,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

// weeklyConstraint treats the threshold as a ceiling on the running sum. A
// violated ceiling cannot be undone within the window.
func (a *BinaryThreshold) weeklyConstraint(window []domain.DailyValue) domain.ScoreResult {
	total := 0.0
	for _, d := range window {
		total += d.RecordedValue()
	}

	if !a.operator.Evaluate(total, a.threshold) {
		return domain.ScoreResult{
			ProgressTowardsGoal:   a.minScore,
			MaxPotentialAdherence: a.minScore,
			WeeklyTotal:           total,
			ViolationOccurred:     true,
		}
	}

	result := domain.ScoreResult{
		ProgressTowardsGoal:   a.successValue,
		MaxPotentialAdherence: a.successValue,
		WeeklyTotal:           total,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *BinaryThreshold) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
