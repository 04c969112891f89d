package scoring

import (
	"fmt"
	"sort"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// ProportionalFrequency combines proportional daily grading with a
// best-K-of-N weekly aggregate: only the highest required_qualifying_days
// daily scores count, and weeks with too few qualifying days floor at the
// minimum threshold.
type ProportionalFrequency struct {
	target       float64
	dailyMinimum float64
	requiredDays int
	totalDays    int
	minScore     float64
	maxScore     float64
}

func NewProportionalFrequency(doc domain.ConfigDocument) (*ProportionalFrequency, error) {
	if doc.Target == nil || *doc.Target <= 0 {
		return nil, fmt.Errorf("%w: proportional_frequency_hybrid requires a positive target", domain.ErrInvalidConfig)
	}

	required := doc.RequiredQualifyingDays
	totalDays := doc.Days()
	if required <= 0 {
		return nil, fmt.Errorf("%w: required_qualifying_days must be positive", domain.ErrInvalidConfig)
	}
	if required > totalDays {
		return nil, fmt.Errorf("%w: required_qualifying_days %d exceeds total_days %d", domain.ErrInvalidConfig, required, totalDays)
	}

	dailyMin := 0.0
	if doc.DailyMinimumThreshold != nil {
		dailyMin = *doc.DailyMinimumThreshold
	}

	lo, hi := doc.Bounds()

	return &ProportionalFrequency{
		target:       *doc.Target,
		dailyMinimum: dailyMin,
		requiredDays: required,
		totalDays:    totalDays,
		minScore:     lo,
		maxScore:     hi,
	}, nil
}

func (a *ProportionalFrequency) Type() domain.AlgorithmType {
	return domain.AlgorithmProportionalFrequency
}

func (a *ProportionalFrequency) dayScore(d domain.DailyValue) float64 {
	if !d.Recorded {
		return 0
	}
	return clampScore(d.Value/a.target*100, 0, a.maxScore)
}

// descending returns the day scores sorted highest first. Ties are broken by
// score value only; day order is irrelevant to top-K selection.
func (a *ProportionalFrequency) descending(window []domain.DailyValue) []float64 {
	scores := make([]float64, 0, len(window))
	for _, d := range window {
		scores = append(scores, a.dayScore(d))
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	return scores
}

// CalculateScore computes the weekly aggregate: the mean of the best
// required_qualifying_days daily scores, floored at the minimum threshold
// when too few days qualify.
func (a *ProportionalFrequency) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	window := observed(days, a.totalDays)
	scores := a.descending(window)

	qualifying := 0
	for _, s := range scores {
		if s >= a.dailyMinimum {
			qualifying++
		}
	}

	result := domain.ScoreResult{QualifyingDays: qualifying, DailyScores: scores}

	if qualifying < a.requiredDays {
		result.ProgressTowardsGoal = a.minScore
		result.MaxPotentialAdherence = a.minScore
		return result
	}

	sum := 0.0
	for i := 0; i < a.requiredDays && i < len(scores); i++ {
		sum += scores[i]
	}
	weekly := sum / float64(a.requiredDays)

	result.ProgressTowardsGoal = weekly
	result.MaxPotentialAdherence = weekly
	return result.Clamp(a.minScore, a.maxScore)
}

// CalculateDualProgress caps each day's contribution at 100/required and sums
// the top required contributions observed so far.
func (a *ProportionalFrequency) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	perDayCap := 100.0 / float64(a.requiredDays)
	scores := a.descending(window)

	qualifying := 0
	for _, s := range scores {
		if s >= a.dailyMinimum {
			qualifying++
		}
	}

	progress := 0.0
	for i := 0; i < a.requiredDays && i < len(scores); i++ {
		progress += scores[i] / 100.0 * perDayCap
	}

	remaining := a.totalDays - currentDay
	potential := progress + float64(remaining)*perDayCap

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		QualifyingDays:        qualifying,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *ProportionalFrequency) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
