package scoring_test

import (
	"testing"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryThreshold_DailyGoal(t *testing.T) {
	// "At least 45 minutes" style goal.
	doc := domain.ConfigDocument{
		AlgorithmType:      "binary_threshold",
		Threshold:          fptr(45),
		ComparisonOperator: ">=",
	}

	alg, err := scoring.NewBinaryThreshold(doc)
	require.NoError(t, err)

	t.Run("Mid-week: observed successes earn per-day credit, the rest stays open", func(t *testing.T) {
		days := recorded(50, 30, 60)

		result := alg.CalculateDualProgress(days, 3)

		assert.Equal(t, 2, result.SuccessfulDays)
		assert.InDelta(t, 28.57, result.ProgressTowardsGoal, 0.01)
		// A day under threshold can still be topped up by a late sync, so the
		// best case remains a perfect week.
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Perfect week scores full marks both ways", func(t *testing.T) {
		days := recorded(45, 50, 60, 45, 90, 47, 45)

		result := alg.CalculateScore(days)

		assert.Equal(t, 7, result.SuccessfulDays)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Unrecorded days earn nothing but keep potential open", func(t *testing.T) {
		days := emptyWeek()

		result := alg.CalculateDualProgress(days, 4)

		assert.Equal(t, 0, result.SuccessfulDays)
		assert.InDelta(t, 0.0, result.ProgressTowardsGoal, 0.01)
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Progress never exceeds potential across the week", func(t *testing.T) {
		days := recorded(50, 30, 60, 0, 45, 10, 45)
		for currentDay := 0; currentDay <= 7; currentDay++ {
			result := alg.CalculateDualProgress(days, currentDay)
			assert.LessOrEqual(t, result.ProgressTowardsGoal, result.MaxPotentialAdherence,
				"ordering violated at day %d", currentDay)
		}
	})
}

func TestBinaryThreshold_WeeklyCeiling(t *testing.T) {
	// "Stay at or under 2 drinks across the week."
	doc := domain.ConfigDocument{
		AlgorithmType:      "binary_threshold",
		Threshold:          fptr(2),
		ComparisonOperator: "<=",
		EvaluationPeriod:   domain.PeriodRolling7,
	}

	alg, err := scoring.NewBinaryThreshold(doc)
	require.NoError(t, err)

	t.Run("Under the ceiling scores the success value", func(t *testing.T) {
		days := recorded(1, 0, 1, 0, 0, 0, 0)

		result := alg.CalculateScore(days)

		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
		assert.Equal(t, 2.0, result.WeeklyTotal)
		assert.False(t, result.ViolationOccurred)
	})

	t.Run("Breaching the ceiling zeroes both figures", func(t *testing.T) {
		days := recorded(2, 1, 0)

		result := alg.CalculateDualProgress(days, 3)

		assert.Equal(t, 0.0, result.ProgressTowardsGoal)
		assert.Equal(t, 0.0, result.MaxPotentialAdherence)
		assert.True(t, result.ViolationOccurred)
	})

	t.Run("A violation is irrevocable within the window", func(t *testing.T) {
		days := recorded(3, 0, 0, 0, 0, 0, 0)

		scores := alg.ProgressiveScores(days)

		require.Len(t, scores, 7)
		for i, s := range scores {
			assert.Equal(t, 0.0, s, "day %d should stay floored after the breach", i)
		}
	})
}

func TestNewBinaryThreshold_Validation(t *testing.T) {
	t.Run("Fail: missing threshold", func(t *testing.T) {
		_, err := scoring.NewBinaryThreshold(domain.ConfigDocument{
			AlgorithmType:      "binary_threshold",
			ComparisonOperator: ">=",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: unknown operator is a config error, not false", func(t *testing.T) {
		_, err := scoring.NewBinaryThreshold(domain.ConfigDocument{
			AlgorithmType:      "binary_threshold",
			Threshold:          fptr(45),
			ComparisonOperator: "=>",
		})
		assert.ErrorIs(t, err, domain.ErrUnknownOperator)
	})

	t.Run("Fail: failure value above success value", func(t *testing.T) {
		_, err := scoring.NewBinaryThreshold(domain.ConfigDocument{
			AlgorithmType:      "binary_threshold",
			Threshold:          fptr(45),
			ComparisonOperator: ">=",
			SuccessValue:       fptr(50),
			FailureValue:       fptr(80),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}
