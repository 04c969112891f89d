package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// CompositeWeighted scores several independently-graded components per day
// and combines them as a weighted average. Each component reads its own
// named field from the day's metrics and applies a proportional, binary, or
// zone scoring rule.
type CompositeWeighted struct {
	components  []domain.Component
	totalWeight float64
	totalDays   int
	minScore    float64
	maxScore    float64
}

func NewCompositeWeighted(doc domain.ConfigDocument) (*CompositeWeighted, error) {
	if len(doc.Components) == 0 {
		return nil, fmt.Errorf("%w: composite_weighted requires at least one component", domain.ErrInvalidConfig)
	}

	totalWeight := 0.0
	for i, c := range doc.Components {
		if c.FieldName == "" {
			return nil, fmt.Errorf("%w: component %d missing field_name", domain.ErrInvalidConfig, i)
		}
		if c.Weight < 0 {
			return nil, fmt.Errorf("%w: component %q has negative weight", domain.ErrInvalidConfig, c.Name)
		}
		totalWeight += c.Weight

		switch c.ScoringMethod {
		case domain.ScoringProportional:
			if c.Target <= 0 {
				return nil, fmt.Errorf("%w: proportional component %q requires a positive target", domain.ErrInvalidConfig, c.Name)
			}
		case domain.ScoringBinary:
			if !c.Operator.Valid() {
				return nil, fmt.Errorf("%w: component %q: %q", domain.ErrUnknownOperator, c.Name, c.Operator)
			}
		case domain.ScoringZone:
			if err := domain.ValidateZoneSet(c.Zones); err != nil {
				return nil, fmt.Errorf("component %q: %w", c.Name, err)
			}
		default:
			return nil, fmt.Errorf("%w: component %q has unknown scoring_method %q", domain.ErrInvalidConfig, c.Name, c.ScoringMethod)
		}
	}

	if totalWeight <= 0 {
		return nil, fmt.Errorf("%w: component weights must sum to a positive value", domain.ErrInvalidConfig)
	}

	lo, hi := doc.Bounds()

	return &CompositeWeighted{
		components:  doc.Components,
		totalWeight: totalWeight,
		totalDays:   doc.Days(),
		minScore:    lo,
		maxScore:    hi,
	}, nil
}

func (a *CompositeWeighted) Type() domain.AlgorithmType { return domain.AlgorithmCompositeWeighted }

func componentScore(c domain.Component, value float64) float64 {
	switch c.ScoringMethod {
	case domain.ScoringProportional:
		lo, hi := 0.0, 100.0
		if c.MinScore != nil {
			lo = *c.MinScore
		}
		if c.MaxScore != nil {
			hi = *c.MaxScore
		}
		return clampScore(value/c.Target*100, lo, hi)

	case domain.ScoringBinary:
		if c.Operator.Evaluate(value, c.Threshold) {
			if c.SuccessValue != 0 {
				return c.SuccessValue
			}
			return defaultSuccessScore
		}
		return c.FailureValue

	case domain.ScoringZone:
		if zone, ok := domain.ZoneFor(c.Zones, value); ok {
			return zone.Score
		}
	}
	return 0
}

// dayScore combines all component scores for one day. A component whose field
// is missing from the day's metrics scores the fallback zero rather than
// aborting the evaluation.
func (a *CompositeWeighted) dayScore(d domain.DailyValue) float64 {
	if !d.Recorded {
		return 0
	}

	weighted := 0.0
	for _, c := range a.components {
		value, ok := d.Metric(c.FieldName)
		if !ok {
			continue
		}
		weighted += c.Weight * componentScore(c, value)
	}

	return clampScore(weighted/a.totalWeight, a.minScore, a.maxScore)
}

func (a *CompositeWeighted) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

// CalculateDualProgress treats the weekly target as a perfect composite score
// every day and projects remaining days at that perfect score.
func (a *CompositeWeighted) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
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

func (a *CompositeWeighted) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
