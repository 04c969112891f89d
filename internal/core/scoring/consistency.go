package scoring

import (
	"fmt"
	"math"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

const (
	defaultBaselineWindow   = 3
	defaultTolerancePercent = 20.0
)

// BaselineConsistency grades each day by how far it drifts from a rolling
// personal baseline built from the preceding days. Deviation inside the
// tolerance scores full marks; every percentage point beyond it costs one
// point.
type BaselineConsistency struct {
	window    int
	tolerance float64
	totalDays int
	minScore  float64
	maxScore  float64
}

func NewBaselineConsistency(doc domain.ConfigDocument) (*BaselineConsistency, error) {
	window := doc.BaselineWindow
	if window == 0 {
		window = defaultBaselineWindow
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: baseline_window cannot be negative", domain.ErrInvalidConfig)
	}

	tolerance := defaultTolerancePercent
	if doc.TolerancePercent != nil {
		tolerance = *doc.TolerancePercent
	}
	if tolerance < 0 {
		return nil, fmt.Errorf("%w: tolerance_percent cannot be negative", domain.ErrInvalidConfig)
	}

	lo, hi := doc.Bounds()

	return &BaselineConsistency{
		window:    window,
		tolerance: tolerance,
		totalDays: doc.Days(),
		minScore:  lo,
		maxScore:  hi,
	}, nil
}

func (a *BaselineConsistency) Type() domain.AlgorithmType {
	return domain.AlgorithmBaselineConsistency
}

// baselineAt averages up to `window` recorded values strictly before day i,
// preserving causality: day i never reads a later day.
func (a *BaselineConsistency) baselineAt(days []domain.DailyValue, i int) (float64, bool) {
	sum, n := 0.0, 0
	for j := i - 1; j >= 0 && n < a.window; j-- {
		if days[j].Recorded {
			sum += days[j].Value
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (a *BaselineConsistency) dayScore(days []domain.DailyValue, i int) float64 {
	d := days[i]
	if !d.Recorded {
		return 0
	}

	baseline, ok := a.baselineAt(days, i)
	if !ok {
		// Nothing to deviate from yet.
		return 100
	}
	if baseline == 0 {
		if d.Value == 0 {
			return 100
		}
		return 0
	}

	deviation := math.Abs(d.Value-baseline) / baseline * 100
	if deviation <= a.tolerance {
		return 100
	}
	return math.Max(0, 100-(deviation-a.tolerance))
}

func (a *BaselineConsistency) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *BaselineConsistency) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	perDay := 100.0 / float64(a.totalDays)
	progress := 0.0
	scores := make([]float64, 0, len(window))
	for i := range window {
		s := a.dayScore(window, i)
		scores = append(scores, s)
		progress += s / 100.0 * perDay
	}

	baseline, _ := a.baselineAt(window, len(window))

	remaining := a.totalDays - currentDay
	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: progress + float64(remaining)*perDay,
		Baseline:              baseline,
		DailyScores:           scores,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *BaselineConsistency) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}

// WeekendVariance compares weekday behavior against weekend behavior within
// the window and penalizes the gap between the two averages beyond an
// allowed variance. Window indices count from the window start; the default
// weekend occupies the last two slots of a Monday-aligned week.
type WeekendVariance struct {
	weekendDays     map[int]bool
	allowedVariance float64
	totalDays       int
	minScore        float64
	maxScore        float64
}

func NewWeekendVariance(doc domain.ConfigDocument) (*WeekendVariance, error) {
	totalDays := doc.Days()

	weekend := map[int]bool{totalDays - 2: true, totalDays - 1: true}
	if len(doc.WeekendDays) > 0 {
		weekend = make(map[int]bool, len(doc.WeekendDays))
		for _, d := range doc.WeekendDays {
			if d < 0 || d >= totalDays {
				return nil, fmt.Errorf("%w: weekend day index %d outside window of %d days", domain.ErrInvalidConfig, d, totalDays)
			}
			weekend[d] = true
		}
	}

	if doc.AllowedVariance == nil || *doc.AllowedVariance <= 0 {
		return nil, fmt.Errorf("%w: weekend_variance requires a positive allowed_variance", domain.ErrInvalidConfig)
	}

	lo, hi := doc.Bounds()

	return &WeekendVariance{
		weekendDays:     weekend,
		allowedVariance: *doc.AllowedVariance,
		totalDays:       totalDays,
		minScore:        lo,
		maxScore:        hi,
	}, nil
}

func (a *WeekendVariance) Type() domain.AlgorithmType { return domain.AlgorithmWeekendVariance }

// varianceScore grades the observed weekday/weekend gap. With only one group
// observed there is no variance evidence, which scores full marks.
func (a *WeekendVariance) varianceScore(window []domain.DailyValue) (float64, float64) {
	weekdaySum, weekdayN := 0.0, 0
	weekendSum, weekendN := 0.0, 0

	for i, d := range window {
		if !d.Recorded {
			continue
		}
		if a.weekendDays[i] {
			weekendSum += d.Value
			weekendN++
		} else {
			weekdaySum += d.Value
			weekdayN++
		}
	}

	if weekdayN == 0 || weekendN == 0 {
		return 100, 0
	}

	diff := math.Abs(weekendSum/float64(weekendN) - weekdaySum/float64(weekdayN))
	if diff <= a.allowedVariance {
		return 100, diff
	}

	excess := (diff - a.allowedVariance) / a.allowedVariance
	return math.Max(0, 100*(1-excess)), diff
}

func (a *WeekendVariance) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *WeekendVariance) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	score, diff := a.varianceScore(window)

	// Realized progress weights the window score by how much of the window
	// has elapsed; the remainder is projected at full consistency.
	elapsed := float64(currentDay) / float64(a.totalDays)
	progress := score * elapsed
	potential := progress + (1-elapsed)*100

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		Variance:              diff,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *WeekendVariance) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
