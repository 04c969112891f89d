package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// Proportional grades each day as a fraction of a target. Threshold-style
// goals instead score pass/fail against a daily minimum, and metric-ratio
// goals divide a comparison metric by a primary metric read from the day's
// named fields.
type Proportional struct {
	target        float64
	thresholdGoal bool
	threshold     float64
	operator      domain.ComparisonOperator
	ratio         bool
	totalDays     int
	minScore      float64
	maxScore      float64
}

func NewProportional(doc domain.ConfigDocument) (*Proportional, error) {
	a := &Proportional{
		thresholdGoal: doc.IsThresholdGoal,
		ratio:         doc.CalculationMethod == domain.MethodRatio,
		totalDays:     doc.Days(),
	}
	a.minScore, a.maxScore = doc.Bounds()

	if a.thresholdGoal {
		if doc.Threshold == nil {
			return nil, fmt.Errorf("%w: threshold-style proportional goal requires a threshold", domain.ErrInvalidConfig)
		}
		a.threshold = *doc.Threshold

		op := domain.OpLessOrEqual
		if doc.ComparisonOperator != "" {
			op = domain.ComparisonOperator(doc.ComparisonOperator)
			if !op.Valid() {
				return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, doc.ComparisonOperator)
			}
		}
		a.operator = op
		return a, nil
	}

	if doc.Target == nil || *doc.Target <= 0 {
		return nil, fmt.Errorf("%w: proportional requires a positive target", domain.ErrInvalidConfig)
	}
	a.target = *doc.Target
	return a, nil
}

func (a *Proportional) Type() domain.AlgorithmType { return domain.AlgorithmProportional }

// dayScore grades a single day in [minScore, maxScore]. Unrecorded days and
// ratio days missing their metric fields score the fallback zero.
func (a *Proportional) dayScore(d domain.DailyValue) float64 {
	if !d.Recorded {
		return 0
	}

	if a.thresholdGoal {
		if a.operator.Evaluate(d.Value, a.threshold) {
			return defaultSuccessScore
		}
		return defaultFailureScore
	}

	actual := d.Value
	if a.ratio {
		primary, okP := d.Metric(domain.MetricPrimary)
		comparison, okC := d.Metric(domain.MetricComparison)
		if !okP || !okC || primary == 0 {
			return 0
		}
		actual = comparison / primary
	}

	score := actual / a.target * 100
	return clampScore(score, a.minScore, a.maxScore)
}

func clampScore(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (a *Proportional) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *Proportional) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	perDay := 100.0 / float64(a.totalDays)
	progress := 0.0
	scores := make([]float64, 0, len(window))

	for _, d := range window {
		s := a.dayScore(d)
		scores = append(scores, s)
		progress += s / 100.0 * perDay
	}

	remaining := a.totalDays - currentDay
	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: progress + float64(remaining)*perDay,
		DailyScores:           scores,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *Proportional) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
