package scoring

import (
	"fmt"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// ZoneBased grades a value by the zone it falls in. Graduated mode scales the
// zone score between 95% and 100% of its nominal value by position within the
// zone. Two progress regimes exist: average (mean zone score, remainder
// projected at the best zone) and frequency (a target count of optimal-zone
// days per window).
type ZoneBased struct {
	zones      []domain.Zone
	graduated  bool
	frequency  bool
	targetDays int
	optimal    float64
	totalDays  int
	minScore   float64
	maxScore   float64
}

func NewZoneBased(doc domain.ConfigDocument) (*ZoneBased, error) {
	if err := domain.ValidateZoneSet(doc.Zones); err != nil {
		return nil, err
	}

	optimal := 0.0
	for _, z := range doc.Zones {
		if z.Score > optimal {
			optimal = z.Score
		}
	}
	if optimal <= 0 {
		return nil, fmt.Errorf("%w: zone set has no positive score", domain.ErrInvalidZoneConfiguration)
	}

	totalDays := doc.Days()
	frequency := doc.ProgressMode == domain.ProgressFreq || doc.SuccessCriteria == domain.CriteriaFreq

	targetDays := doc.FrequencyTarget
	if targetDays == 0 {
		targetDays = doc.RequiredQualifyingDays
	}
	if frequency {
		if targetDays <= 0 {
			return nil, fmt.Errorf("%w: frequency progress mode requires frequency_target", domain.ErrInvalidConfig)
		}
		if targetDays > totalDays {
			return nil, fmt.Errorf("%w: frequency_target %d exceeds total_days %d", domain.ErrInvalidConfig, targetDays, totalDays)
		}
	}

	lo, hi := doc.Bounds()

	return &ZoneBased{
		zones:      domain.SortZones(doc.Zones),
		graduated:  doc.GraduatedZones,
		frequency:  frequency,
		targetDays: targetDays,
		optimal:    optimal,
		totalDays:  totalDays,
		minScore:   lo,
		maxScore:   hi,
	}, nil
}

func (a *ZoneBased) Type() domain.AlgorithmType { return domain.AlgorithmZoneBased }

// CalculateValue grades a single measurement. Values outside every zone score
// the fallback zero.
func (a *ZoneBased) CalculateValue(value float64) float64 {
	zone, ok := domain.ZoneFor(a.zones, value)
	if !ok {
		return 0
	}

	if !a.graduated {
		return zone.Score
	}

	width := zone.MaxValue - zone.MinValue
	frac := 1.0
	if width > 0 {
		frac = (value - zone.MinValue) / width
	}
	return zone.Score * (0.95 + 0.05*frac)
}

func (a *ZoneBased) dayScore(d domain.DailyValue) float64 {
	if !d.Recorded {
		return 0
	}
	return a.CalculateValue(d.Value)
}

func (a *ZoneBased) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

func (a *ZoneBased) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	if a.frequency {
		return a.frequencyProgress(window, currentDay)
	}
	return a.averageProgress(window, currentDay)
}

func (a *ZoneBased) averageProgress(window []domain.DailyValue, currentDay int) domain.ScoreResult {
	sum := 0.0
	scores := make([]float64, 0, len(window))
	for _, d := range window {
		s := a.dayScore(d)
		scores = append(scores, s)
		sum += s
	}

	progress := 0.0
	if currentDay > 0 {
		progress = sum / float64(currentDay)
	}

	remaining := a.totalDays - currentDay
	potential := (sum + float64(remaining)*a.optimal) / float64(a.totalDays)

	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: potential,
		DailyScores:           scores,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *ZoneBased) frequencyProgress(window []domain.DailyValue, currentDay int) domain.ScoreResult {
	perDay := 100.0 / float64(a.targetDays)
	progress := 0.0
	optimalDays := 0

	for _, d := range window {
		s := a.dayScore(d)
		progress += s / a.optimal * perDay
		if s >= a.optimal {
			optimalDays++
		}
	}

	remaining := a.totalDays - currentDay
	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: progress + float64(remaining)*perDay,
		QualifyingDays:        optimalDays,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *ZoneBased) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
