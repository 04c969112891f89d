package domain

// ScoreResult is the output of one scoring request: the realized progress
// over the observed part of the window and the best final score still
// achievable if every remaining day were ideal. Detail fields are populated
// per algorithm family.
type ScoreResult struct {
	ProgressTowardsGoal   float64 `json:"progress_towards_goal"`
	MaxPotentialAdherence float64 `json:"max_potential_adherence"`

	SuccessfulDays    int       `json:"successful_days,omitempty"`
	QualifyingDays    int       `json:"qualifying_days,omitempty"`
	DaysCompleted     int       `json:"days_completed,omitempty"`
	WeeklyTotal       float64   `json:"weekly_total,omitempty"`
	ViolationOccurred bool      `json:"violation_occurred,omitempty"`
	ConsistencyScore  float64   `json:"consistency_score,omitempty"`
	Baseline          float64   `json:"baseline,omitempty"`
	Variance          float64   `json:"variance,omitempty"`
	DailyScores       []float64 `json:"daily_scores,omitempty"`
	Note              string    `json:"note,omitempty"`
}

// Clamp bounds both progress figures to [lo, hi] and restores the ordering
// invariant progress <= potential.
func (r ScoreResult) Clamp(lo, hi float64) ScoreResult {
	r.ProgressTowardsGoal = clampValue(r.ProgressTowardsGoal, lo, hi)
	r.MaxPotentialAdherence = clampValue(r.MaxPotentialAdherence, lo, hi)
	if r.MaxPotentialAdherence < r.ProgressTowardsGoal {
		r.MaxPotentialAdherence = r.ProgressTowardsGoal
	}
	return r
}

func clampValue(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
