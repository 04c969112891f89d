package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// AlgorithmInfo describes one scoring strategy for registry listings.
type AlgorithmInfo struct {
	Type        domain.AlgorithmType `json:"algorithm_type"`
	Family      string               `json:"family"`
	Description string               `json:"description"`
}

var algorithmCatalog = map[domain.AlgorithmType]AlgorithmInfo{
	domain.AlgorithmBinaryThreshold:       {Family: "threshold", Description: "pass/fail against a single threshold, daily or as a weekly ceiling"},
	domain.AlgorithmCategoricalFilter:     {Family: "threshold", Description: "per-category threshold rules with multi-item aggregation"},
	domain.AlgorithmMinimumFrequency:      {Family: "threshold", Description: "a required count of qualifying days per window"},
	domain.AlgorithmWeeklyElimination:     {Family: "threshold", Description: "every day must comply; one violation zeroes the window"},
	domain.AlgorithmWeeklyAllowance:       {Family: "threshold", Description: "cumulative weekly total capped at an allowance"},
	domain.AlgorithmProportional:          {Family: "proportional", Description: "daily value as a fraction of target"},
	domain.AlgorithmProportionalFrequency: {Family: "proportional", Description: "best-K-of-N proportional daily scores"},
	domain.AlgorithmZoneBased:             {Family: "proportional", Description: "graded by the zone the value falls in"},
	domain.AlgorithmCompositeWeighted:     {Family: "proportional", Description: "weighted average of independently scored components"},
	domain.AlgorithmSleepComposite:        {Family: "proportional", Description: "fixed duration/consistency sleep composite"},
	domain.AlgorithmBaselineConsistency:   {Family: "consistency", Description: "deviation from a rolling personal baseline"},
	domain.AlgorithmWeekendVariance:       {Family: "consistency", Description: "weekday versus weekend behavior gap"},
	domain.AlgorithmCompletionBased:       {Family: "simple", Description: "days completed out of the window"},
	domain.AlgorithmTherapeuticAdherence:  {Family: "simple", Description: "regimen status adherence with a consistency score"},
}

// AvailableAlgorithms lists every supported strategy in a stable order.
func AvailableAlgorithms() []AlgorithmInfo {
	infos := make([]AlgorithmInfo, 0, len(algorithmCatalog))
	for _, t := range domain.AllAlgorithmTypes() {
		info := algorithmCatalog[t]
		info.Type = t
		infos = append(infos, info)
	}
	return infos
}

// Calculator resolves a goal document to its algorithm implementation and is
// the uniform scoring entry point. Construction validates the configuration
// eagerly so a bad goal definition never silently scores as zero.
type Calculator struct {
	alg Algorithm
}

func NewCalculator(doc domain.ConfigDocument) (*Calculator, error) {
	tag, ok := domain.ResolveAlgorithmType(doc.AlgorithmType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithmType, doc.AlgorithmType)
	}

	var (
		alg Algorithm
		err error
	)

	switch tag {
	case domain.AlgorithmBinaryThreshold:
		alg, err = NewBinaryThreshold(doc)
	case domain.AlgorithmCategoricalFilter:
		alg, err = NewCategoricalFilter(doc)
	case domain.AlgorithmMinimumFrequency:
		alg, err = NewMinimumFrequency(doc)
	case domain.AlgorithmWeeklyElimination:
		alg, err = NewWeeklyElimination(doc)
	case domain.AlgorithmWeeklyAllowance:
		alg, err = NewWeeklyAllowance(doc)
	case domain.AlgorithmProportional:
		alg, err = NewProportional(doc)
	case domain.AlgorithmProportionalFrequency:
		alg, err = NewProportionalFrequency(doc)
	case domain.AlgorithmZoneBased:
		alg, err = NewZoneBased(doc)
	case domain.AlgorithmCompositeWeighted:
		alg, err = NewCompositeWeighted(doc)
	case domain.AlgorithmSleepComposite:
		alg, err = NewSleepComposite(doc)
	case domain.AlgorithmBaselineConsistency:
		alg, err = NewBaselineConsistency(doc)
	case domain.AlgorithmWeekendVariance:
		alg, err = NewWeekendVariance(doc)
	case domain.AlgorithmCompletionBased:
		alg, err = NewCompletionBased(doc)
	case domain.AlgorithmTherapeuticAdherence:
		alg, err = NewTherapeuticAdherence(doc)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAlgorithmType, doc.AlgorithmType)
	}

	if err != nil {
		return nil, err
	}
	return &Calculator{alg: alg}, nil
}

// CalculateScore scores a full window. Empty input returns a zeroed result
// rather than an error so batch evaluation continues across goals.
func (c *Calculator) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	if len(days) == 0 {
		return domain.ScoreResult{Note: "no tracked data for window"}
	}
	return c.alg.CalculateScore(days)
}

func (c *Calculator) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	if len(days) == 0 {
		return domain.ScoreResult{Note: "no tracked data for window"}
	}
	return c.alg.CalculateDualProgress(days, currentDay)
}

func (c *Calculator) ProgressiveScores(days []domain.DailyValue) []float64 {
	return c.alg.ProgressiveScores(days)
}

func (c *Calculator) Info() AlgorithmInfo {
	info := algorithmCatalog[c.alg.Type()]
	info.Type = c.alg.Type()
	return info
}
