package scoring

import (
	"fmt"
	"strconv"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// CompletionBased awards full credit for each day the tracked value reaches
// the completion target (default 1, i.e. "done").
type CompletionBased struct {
	target    float64
	totalDays int
	minScore  float64
	maxScore  float64
}

func NewCompletionBased(doc domain.ConfigDocument) (*CompletionBased, error) {
	target := 1.0
	if doc.Target != nil {
		target = *doc.Target
	}
	if target <= 0 {
		return nil, fmt.Errorf("%w: completion target must be positive", domain.ErrInvalidConfig)
	}

	lo, hi := doc.Bounds()

	return &CompletionBased{
		target:    target,
		totalDays: doc.Days(),
		minScore:  lo,
		maxScore:  hi,
	}, nil
}

func (a *CompletionBased) Type() domain.AlgorithmType { return domain.AlgorithmCompletionBased }

func (a *CompletionBased) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *CompletionBased) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)

	completed := 0
	for _, d := range observed(days, currentDay) {
		if d.Recorded && d.Value >= a.target {
			completed++
		}
	}

	perDay := 100.0 / float64(a.totalDays)
	remaining := a.totalDays - currentDay

	result := domain.ScoreResult{
		ProgressTowardsGoal:   float64(completed) * perDay,
		MaxPotentialAdherence: float64(completed+remaining) * perDay,
		SuccessfulDays:        completed,
		DaysCompleted:         currentDay,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *CompletionBased) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}

// Adherence percentages for the recognized regimen statuses. A status may
// also be a raw number: 0-1 is read as a fraction, 0-100 as a percentage.
// The not_due status is excluded from a day's mean entirely.
var regimenStatusScores = map[string]float64{
	"taken":     100,
	"compliant": 100,
	"late":      75,
	"early":     75,
	"partial":   50,
	"scheduled": 0,
	"missed":    0,
	"skipped":   0,
}

const statusNotDue = "not_due"

// consistencyPenaltyFactor converts score variance into the consistency
// penalty: one point lost per ten points of variance.
const consistencyPenaltyFactor = 0.1

// TherapeuticAdherence scores one to three concurrent regimens per day. A
// day's score is the mean across its regimens and the period score is the
// mean across completed days, weighted by how much of the window has data.
type TherapeuticAdherence struct {
	totalDays int
	minScore  float64
	maxScore  float64
}

func NewTherapeuticAdherence(doc domain.ConfigDocument) (*TherapeuticAdherence, error) {
	lo, hi := doc.Bounds()

	return &TherapeuticAdherence{
		totalDays: doc.Days(),
		minScore:  lo,
		maxScore:  hi,
	}, nil
}

func (a *TherapeuticAdherence) Type() domain.AlgorithmType {
	return domain.AlgorithmTherapeuticAdherence
}

func regimenScore(status string) (float64, bool) {
	if status == statusNotDue {
		return 0, false
	}
	if s, ok := regimenStatusScores[status]; ok {
		return s, true
	}

	raw, err := strconv.ParseFloat(status, 64)
	if err != nil {
		// Unknown status degrades to zero rather than aborting the batch.
		return 0, true
	}
	if raw <= 1 {
		raw *= 100
	}
	return clampScore(raw, 0, 100), true
}

// dayScore averages the day's regimen scores, reporting false for days with
// nothing due.
func (a *TherapeuticAdherence) dayScore(d domain.DailyValue) (float64, bool) {
	if !d.Recorded || len(d.Statuses) == 0 {
		return 0, false
	}

	sum, n := 0.0, 0
	for _, status := range d.Statuses {
		if s, counted := regimenScore(status); counted {
			sum += s
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func (a *TherapeuticAdherence) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *TherapeuticAdherence) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	sum := 0.0
	completed := 0
	scores := make([]float64, 0, len(window))

	for _, d := range window {
		if s, ok := a.dayScore(d); ok {
			scores = append(scores, s)
			sum += s
			completed++
		}
	}

	mean := 0.0
	if completed > 0 {
		mean = sum / float64(completed)
	}

	weight := float64(completed) / float64(a.totalDays)
	progress := mean * weight
	potential := progress + (1-weight)*100

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		DaysCompleted:         completed,
		ConsistencyScore:      consistencyScore(scores),
		DailyScores:           scores,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

// consistencyScore penalizes variance across daily scores with a fixed
// linear transform, floored at 0 and capped at 100.
func consistencyScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 100
	}

	mean := 0.0
	for _, s := range scores {
		mean += s
	}
	mean /= float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		diff := s - mean
		variance += diff * diff
	}
	variance /= float64(len(scores))

	return clampScore(100-variance*consistencyPenaltyFactor, 0, 100)
}

func (a *TherapeuticAdherence) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
