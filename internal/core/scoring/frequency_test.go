package scoring_test

import (
	"testing"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
	"github.com/keegs-3/wellpath-adherence/internal/core/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumFrequency(t *testing.T) {
	// "Cook at home at least 5 times a week."
	doc := domain.ConfigDocument{
		AlgorithmType:          "minimum_frequency",
		Threshold:              fptr(1),
		RequiredQualifyingDays: 5,
	}

	alg, err := scoring.NewMinimumFrequency(doc)
	require.NoError(t, err)

	t.Run("Each qualifying day earns 100/required", func(t *testing.T) {
		days := recorded(1, 0, 1, 1)

		result := alg.CalculateDualProgress(days, 4)

		assert.Equal(t, 3, result.QualifyingDays)
		assert.InDelta(t, 60.0, result.ProgressTowardsGoal, 0.01)
		// Three remaining days could still qualify: (3+3)*20, capped.
		assert.InDelta(t, 100.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Meeting the requirement exactly scores full marks", func(t *testing.T) {
		days := recorded(1, 1, 1, 1, 1, 0, 0)

		result := alg.CalculateScore(days)

		assert.Equal(t, 5, result.QualifyingDays)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
	})

	t.Run("Exceeding the requirement stays capped", func(t *testing.T) {
		days := recorded(1, 1, 1, 1, 1, 1, 1)

		result := alg.CalculateScore(days)

		assert.Equal(t, 7, result.QualifyingDays)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
	})

	t.Run("Potential shrinks as non-qualifying days pass", func(t *testing.T) {
		days := recorded(0, 0, 0, 0)

		result := alg.CalculateDualProgress(days, 4)

		assert.Equal(t, 0.0, result.ProgressTowardsGoal)
		// Only three days remain against a requirement of five.
		assert.InDelta(t, 60.0, result.MaxPotentialAdherence, 0.01)
	})

	t.Run("Fail: required days not positive", func(t *testing.T) {
		_, err := scoring.NewMinimumFrequency(domain.ConfigDocument{
			AlgorithmType: "minimum_frequency",
			Threshold:     fptr(1),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}

func TestWeeklyElimination(t *testing.T) {
	// "Zero cigarettes, every day."
	doc := domain.ConfigDocument{
		AlgorithmType: "weekly_elimination",
		Threshold:     fptr(0),
	}

	alg, err := scoring.NewWeeklyElimination(doc)
	require.NoError(t, err)

	t.Run("A clean window scores full marks", func(t *testing.T) {
		days := recorded(0, 0, 0)

		result := alg.CalculateDualProgress(days, 3)

		assert.Equal(t, 3, result.SuccessfulDays)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
		assert.False(t, result.ViolationOccurred)
	})

	t.Run("One violation zeroes the whole window", func(t *testing.T) {
		days := recorded(0, 2, 0)

		result := alg.CalculateDualProgress(days, 3)

		assert.True(t, result.ViolationOccurred)
		assert.Equal(t, 0.0, result.ProgressTowardsGoal)
		assert.Equal(t, 0.0, result.MaxPotentialAdherence)
	})

	t.Run("Perfect later days never undo a violation", func(t *testing.T) {
		days := recorded(0, 2, 0, 0, 0, 0, 0)

		scores := alg.ProgressiveScores(days)

		require.Len(t, scores, 7)
		assert.Equal(t, 100.0, scores[0])
		for i := 1; i < 7; i++ {
			assert.Equal(t, 0.0, scores[i], "day %d should stay floored", i)
		}
	})

	t.Run("Unrecorded days are not violations", func(t *testing.T) {
		days := emptyWeek()

		result := alg.CalculateScore(days)

		assert.False(t, result.ViolationOccurred)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
	})
}

func TestWeeklyAllowance(t *testing.T) {
	// "Up to 2 takeaway meals a week."
	doc := domain.ConfigDocument{
		AlgorithmType:   "constrained_weekly_allowance",
		WeeklyAllowance: fptr(2),
	}

	alg, err := scoring.NewWeeklyAllowance(doc)
	require.NoError(t, err)

	t.Run("Staying within the allowance scores full marks", func(t *testing.T) {
		days := recorded(1, 0, 1, 0, 0, 0, 0)

		result := alg.CalculateScore(days)

		assert.Equal(t, 2.0, result.WeeklyTotal)
		assert.InDelta(t, 100.0, result.ProgressTowardsGoal, 0.01)
		assert.False(t, result.ViolationOccurred)
	})

	t.Run("Exceeding the allowance is irrevocable", func(t *testing.T) {
		days := recorded(2, 1)

		result := alg.CalculateDualProgress(days, 2)

		assert.True(t, result.ViolationOccurred)
		assert.Equal(t, 0.0, result.ProgressTowardsGoal)
		assert.Equal(t, 0.0, result.MaxPotentialAdherence)
	})

	t.Run("Threshold doubles as the allowance when unset", func(t *testing.T) {
		fromThreshold, err := scoring.NewWeeklyAllowance(domain.ConfigDocument{
			AlgorithmType: "constrained_weekly_allowance",
			Threshold:     fptr(3),
		})
		require.NoError(t, err)

		result := fromThreshold.CalculateScore(recorded(1, 1, 1, 0, 0, 0, 0))
		assert.False(t, result.ViolationOccurred)
	})

	t.Run("Fail: no allowance configured", func(t *testing.T) {
		_, err := scoring.NewWeeklyAllowance(domain.ConfigDocument{
			AlgorithmType: "constrained_weekly_allowance",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("Fail: negative allowance", func(t *testing.T) {
		_, err := scoring.NewWeeklyAllowance(domain.ConfigDocument{
			AlgorithmType:   "constrained_weekly_allowance",
			WeeklyAllowance: fptr(-1),
		})
		assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	})
}
