package scoring

import (
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// Algorithm is the contract every scoring strategy implements. All methods
// are pure functions of their inputs: instances hold only immutable,
// validated configuration and are safe for concurrent use.
type Algorithm interface {
	Type() domain.AlgorithmType

	// CalculateScore scores a complete evaluation window.
	CalculateScore(days []domain.DailyValue) domain.ScoreResult

	// CalculateDualProgress scores the first currentDay days of the window:
	// realized progress so far plus the best final score still achievable.
	CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult

	// ProgressiveScores replays the window causally, returning the progress
	// figure a user would have seen at the end of each day. Day i never
	// reads day i+1.
	ProgressiveScores(days []domain.DailyValue) []float64
}

func clampDay(currentDay, totalDays int) int {
	if currentDay < 0 {
		return 0
	}
	if currentDay > totalDays {
		return totalDays
	}
	return currentDay
}

// observed returns the prefix of the window visible at currentDay. A sequence
// shorter than the window is treated as-is; missing days simply have not
// happened yet.
func observed(days []domain.DailyValue, currentDay int) []domain.DailyValue {
	if currentDay > len(days) {
		currentDay = len(days)
	}
	if currentDay < 0 {
		currentDay = 0
	}
	return days[:currentDay]
}

func replayProgressive(a Algorithm, days []domain.DailyValue) []float64 {
	scores := make([]float64, 0, len(days))
	for i := 1; i <= len(days); i++ {
		scores = append(scores, a.CalculateDualProgress(days, i).ProgressTowardsGoal)
	}
	return scores
}
