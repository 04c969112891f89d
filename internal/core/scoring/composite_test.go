package scoring_test

import (
	"testing"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movementComponents() []domain.Component {
	return []domain.Component{
		{
			Name:          "steps",
			Weight:        0.6,
			Target:        10000,
			ScoringMethod: domain.ScoringProportional,
			FieldName:     "steps",
		},
		{
			Name:          "hydration",
			Weight:        0.4,
			Threshold:     2000,
			Operator:      domain.OpGreaterOrEqual,
			ScoringMethod: domain.ScoringBinary,
			FieldName:     "water_ml",
		},
	}
}

func TestCompositeWeighted(t *testing.T) {
	doc := domain.ConfigDocument{
		AlgorithmType: "composite_weighted",
		Components:    movementComponents(),
	}

	alg, err := scoring.NewCompositeWeighted(doc)
	require.NoError(t, err)

	t.Run("All components met scores the day perfectly", func(t *testing.T) {
		days := []domain.DailyValue{metricDay(map[string]float64{
			"steps":    10000,
			"water_ml": 2500,
		})}

		result := alg.CalculateDualProgress(days, 1)

		require.Len(t, result.DailyScores, 1)
		assert.InDelta(t, 100.0, result.DailyScores[0], 0.01)
		assert.InDelta(t, 14.29, result.ProgressTowardsGoal, 0.01)
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Components blend by weight", func(t *testing.T) {
		days := []domain.DailyValue{metricDay(map[string]float64{
			"steps":    5000,
			"water_ml": 2500,
		})}

		result := alg.CalculateDualProgress(days, 1)

		// 0.6*50 + 0.4*100
		assert.InDelta(t, 70.0, result.DailyScores[0], 0.01)
	})

	t.Run("A missing component field contributes zero, not an error", func(t *testing.T) {
		days := []domain.DailyValue{metricDay(map[string]float64{
			"steps": 10000,
		})}

		result := alg.CalculateDualProgress(days, 1)

		// Only the steps component: 0.6*100 / 1.0
		assert.InDelta(t, 60.0, result.DailyScores[0], 0.01)
	})

	t.Run("Perfect week scores full marks", func(t *testing.T) {
		days := make([]domain.DailyValue, 7)
		for i := range days {
			days[i] = metricDay(map[string]float64{"steps": 12000, "water_ml": 3000})
		}

		result := alg.CalculateScore(days)

		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})
}

func TestCompositeWeighted_ZoneComponent(t *testing.T) {
	doc := domain.ConfigDocument{
		AlgorithmType: "composite_weighted",
		Components: []domain.Component{
			{
				Name:          "sleep",
				Weight:        1,
				ScoringMethod: domain.ScoringZone,
				FieldName:     "duration_hours",
				Zones: []domain.Zone{
					{MinValue: 0, MaxValue: 6, Score: 25},
					{MinValue: 6, MaxValue: 7, Score: 75},
					{MinValue: 7, MaxValue: 9, Score: 100},
				},
			},
		},
	}

	alg, err := scoring.NewCompositeWeighted(doc)
	require.NoError(t, err)

	days := []domain.DailyValue{metricDay(map[string]float64{"duration_hours": 8})}

	result := alg.CalculateDualProgress(days, 1)

	assert.InDelta(t, 100.0, result.DailyScores[0], 0.01)
}

func TestNewCompositeWeighted_Validation(t *testing.T) {
	t.Run("Fail: no components", func(t *testing.T) {
		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{AlgorithmType: "composite_weighted"})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: component without field_name", func(t *testing.T) {
		components := movementComponents()
		components[0].FieldName = ""

		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{
			AlgorithmType: "composite_weighted",
			Components:    components,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: negative weight", func(t *testing.T) {
		components := movementComponents()
		components[1].Weight = -0.4

		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{
			AlgorithmType: "composite_weighted",
			Components:    components,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: proportional component without target", func(t *testing.T) {
		components := movementComponents()
		components[0].Target = 0

		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{
			AlgorithmType: "composite_weighted",
			Components:    components,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: binary component with unknown operator", func(t *testing.T) {
		components := movementComponents()
		components[1].Operator = "between"

		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{
			AlgorithmType: "composite_weighted",
			Components:    components,
		})
		assert.ErrorIs(t, err, domain.ErrUnknownOperator)
	})

	t.Run("Fail: unknown scoring method", func(t *testing.T) {
		components := movementComponents()
		components[0].ScoringMethod = "exponential"

		_, err := scoring.NewCompositeWeighted(domain.ConfigDocument{
			AlgorithmType: "composite_weighted",
			Components:    components,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}
