package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// CategoricalFilter scores categorized observations: the first configured
// filter whose category_values contains the observation's label supplies the
// threshold rule; unmatched categories fall back to the default threshold
// when one is configured, otherwise to the failure score.
type CategoricalFilter struct {
	filters          []domain.CategoryFilter
	defaultThreshold *float64
	defaultOperator  domain.ComparisonOperator
	aggregation      string
	declared         float64
	rolling          bool
	totalDays        int
	minScore         float64
	maxScore         float64
}

func NewCategoricalFilter(doc domain.ConfigDocument) (*CategoricalFilter, error) {
	if len(doc.CategoryFilters) == 0 {
		return nil, fmt.Errorf("%w: categorical_filter_threshold requires at least one category filter", domain.ErrInvalidConfig)
	}

	seen := make(map[string]bool)
	for i, f := range doc.CategoryFilters {
		if len(f.CategoryValues) == 0 {
			return nil, fmt.Errorf("%w: filter %d has no category values", domain.ErrInvalidConfig, i)
		}
		if !f.Operator.Valid() {
			return nil, fmt.Errorf("%w: filter %d: %q", domain.ErrUnknownOperator, i, f.Operator)
		}
		for _, cv := range f.CategoryValues {
			if seen[cv] {
				return nil, fmt.Errorf("%w: duplicate category value %q across filters", domain.ErrInvalidConfig, cv)
			}
			seen[cv] = true
		}
	}

	defaultOp := domain.OpLessOrEqual
	if doc.ComparisonOperator != "" {
		defaultOp = domain.ComparisonOperator(doc.ComparisonOperator)
		if !defaultOp.Valid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownOperator, doc.ComparisonOperator)
		}
	}

	agg := doc.Aggregation
	if agg == "" {
		agg = domain.AggSimpleAvg
	}
	switch agg {
	case domain.AggWeightedAvg, domain.AggSimpleAvg, domain.AggMinimum, domain.AggMaximum:
	default:
		return nil, fmt.Errorf("%w: unknown aggregation %q", domain.ErrInvalidConfig, agg)
	}

	declared := 0.0
	if doc.Threshold != nil {
		declared = *doc.Threshold
	}

	lo, hi := doc.Bounds()

	return &CategoricalFilter{
		filters:          doc.CategoryFilters,
		defaultThreshold: doc.DefaultThreshold,
		defaultOperator:  defaultOp,
		aggregation:      agg,
		declared:         declared,
		rolling:          doc.EvaluationPeriod == domain.PeriodRolling7 || doc.CalculationMethod == domain.MethodWeeklySum,
		totalDays:        doc.Days(),
		minScore:         lo,
		maxScore:         hi,
	}, nil
}

func (a *CategoricalFilter) Type() domain.AlgorithmType { return domain.AlgorithmCategoricalFilter }

func (a *CategoricalFilter) match(category string) (domain.CategoryFilter, bool) {
	for _, f := range a.filters {
		for _, cv := range f.CategoryValues {
			if cv == category {
				return f, true
			}
		}
	}
	return domain.CategoryFilter{}, false
}

func (a *CategoricalFilter) scoreObservation(item domain.CategoryItem) float64 {
	if f, ok := a.match(item.Category); ok {
		if f.Operator.Evaluate(item.Value, f.Threshold) {
			return f.SuccessValue
		}
		return f.FailureValue
	}

	if a.defaultThreshold != nil {
		if a.defaultOperator.Evaluate(item.Value, *a.defaultThreshold) {
			return defaultSuccessScore
		}
	}
	return defaultFailureScore
}

func (a *CategoricalFilter) scoreDay(day domain.DailyValue) float64 {
	items := day.Observations()
	if len(items) == 0 {
		return defaultFailureScore
	}

	switch a.aggregation {
	case domain.AggMinimum:
		best := a.scoreObservation(items[0])
		for _, it := range items[1:] {
			if s := a.scoreObservation(it); s < best {
				best = s
			}
		}
		return best
	case domain.AggMaximum:
		best := a.scoreObservation(items[0])
		for _, it := range items[1:] {
			if s := a.scoreObservation(it); s > best {
				best = s
			}
		}
		return best
	case domain.AggWeightedAvg:
		sum, weights := 0.0, 0.0
		for _, it := range items {
			w := it.Weight
			if w <= 0 {
				w = 1
			}
			sum += a.scoreObservation(it) * w
			weights += w
		}
		if weights == 0 {
			return defaultFailureScore
		}
		return sum / weights
	default:
		sum := 0.0
		for _, it := range items {
			sum += a.scoreObservation(it)
		}
		return sum / float64(len(items))
	}
}

// violated reports whether any observation in the day breaks an elimination
// goal (declared threshold 0): any positive amount is a violation.
func (a *CategoricalFilter) violated(day domain.DailyValue) bool {
	for _, it := range day.Observations() {
		if it.Value > 0 {
			if f, ok := a.match(it.Category); ok && f.Operator.Evaluate(it.Value, f.Threshold) {
				continue
			}
			return true
		}
	}
	return false
}

func (a *CategoricalFilter) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

// CalculateDualProgress selects one of three policies from the declared
// config: elimination (threshold 0) zeroes both figures on any violation;
// rolling evaluation freezes potential at realized once the weekly total
// exceeds the threshold; otherwise per-day credit accumulates.
func (a *CategoricalFilter) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	if a.declared == 0 {
		return a.elimination(window, currentDay)
	}
	if a.rolling {
		return a.rollingTotal(window)
	}
	return a.perDayCredit(window, currentDay)
}

func (a *CategoricalFilter) elimination(window []domain.DailyValue, currentDay int) domain.ScoreResult {
	for _, day := range window {
		if day.Recorded && a.violated(day) {
			return domain.ScoreResult{
				ProgressTowardsGoal:   a.minScore,
				MaxPotentialAdherence: a.minScore,
				ViolationOccurred:     true,
			}
		}
	}

	perDay := 100.0 / float64(a.totalDays)
	progress := float64(currentDay) * perDay

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: 100,
		SuccessfulDays:        currentDay,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *CategoricalFilter) rollingTotal(window []domain.DailyValue) domain.ScoreResult {
	total := 0.0
	perDay := 100.0 / float64(a.totalDays)
	progress := 0.0

	for _, day := range window {
		for _, it := range day.Observations() {
			total += it.Value
		}
		progress += a.scoreDay(day) / 100.0 * perDay
	}

	if total > a.declared {
		// Potential freezes at what was already earned.
		result := domain.ScoreResult{
			ProgressTowardsGoal:   progress,
			MaxPotentialAdherence: progress,
			WeeklyTotal:           total,
			ViolationOccurred:     true,
		}
		return result.Clamp(a.minScore, a.maxScore)
	}

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: 100,
		WeeklyTotal:           total,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *CategoricalFilter) perDayCredit(window []domain.DailyValue, currentDay int) domain.ScoreResult {
	perDay := 100.0 / float64(a.totalDays)
	progress := 0.0
	successes := 0

	for _, day := range window {
		score := a.scoreDay(day)
		progress += score / 100.0 * perDay
		if score >= defaultSuccessScore {
			successes++
		}
	}

	remaining := a.totalDays - currentDay
	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: progress + float64(remaining)*perDay,
		SuccessfulDays:        successes,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *CategoricalFilter) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
