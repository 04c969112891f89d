package scoring

import (
	"fmt"
	"math"

	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

// Metric fields read by the sleep composite.
const (
	MetricSleepDuration = "duration_hours"
	MetricSleepVariance = "sleep_time_variance"
	MetricWakeVariance  = "wake_time_variance"
)

const (
	defaultDurationWeight  = 0.55
	defaultSleepTimeWeight = 0.225
	defaultWakeTimeWeight  = 0.225
	weightTolerance        = 1e-6
)

// SleepComposite is a fixed three-component composite: sleep duration graded
// by hour zones, plus sleep-time and wake-time consistency graded by
// minute-variance bands. Weights must sum to 1.0.
type SleepComposite struct {
	durationZones  []domain.Zone
	sleepTimeBands []domain.VarianceBand
	wakeTimeBands  []domain.VarianceBand
	durationWeight float64
	sleepWeight    float64
	wakeWeight     float64
	totalDays      int
	minScore       float64
	maxScore       float64
}

func defaultDurationZones() []domain.Zone {
	return []domain.Zone{
		{MinValue: 0, MaxValue: 6, Score: 25, Label: "short"},
		{MinValue: 6, MaxValue: 7, Score: 75, Label: "adequate"},
		{MinValue: 7, MaxValue: 9, Score: 100, Label: "optimal"},
		{MinValue: 9, MaxValue: 10, Score: 75, Label: "long"},
		{MinValue: 10, MaxValue: 24, Score: 25, Label: "excessive"},
	}
}

func defaultVarianceBands() []domain.VarianceBand {
	return []domain.VarianceBand{
		{MaxVariance: 30, Score: 100},
		{MaxVariance: 60, Score: 75},
		{MaxVariance: 90, Score: 50},
		{MaxVariance: 120, Score: 25},
	}
}

func NewSleepComposite(doc domain.ConfigDocument) (*SleepComposite, error) {
	durW, sleepW, wakeW := defaultDurationWeight, defaultSleepTimeWeight, defaultWakeTimeWeight
	if doc.DurationWeight != nil {
		durW = *doc.DurationWeight
	}
	if doc.SleepTimeWeight != nil {
		sleepW = *doc.SleepTimeWeight
	}
	if doc.WakeTimeWeight != nil {
		wakeW = *doc.WakeTimeWeight
	}

	if math.Abs(durW+sleepW+wakeW-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: sleep composite weights must sum to 1.0, got %.4f",
			domain.ErrInvalidConfig, durW+sleepW+wakeW)
	}

	zones := doc.DurationZones
	if len(zones) == 0 {
		zones = defaultDurationZones()
	}
	if err := domain.ValidateZoneSet(zones); err != nil {
		return nil, err
	}

	sleepBands := doc.SleepTimeBands
	if len(sleepBands) == 0 {
		sleepBands = defaultVarianceBands()
	}
	wakeBands := doc.WakeTimeBands
	if len(wakeBands) == 0 {
		wakeBands = defaultVarianceBands()
	}
	if err := validateBands(sleepBands); err != nil {
		return nil, err
	}
	if err := validateBands(wakeBands); err != nil {
		return nil, err
	}

	lo, hi := doc.Bounds()

	return &SleepComposite{
		durationZones:  domain.SortZones(zones),
		sleepTimeBands: sleepBands,
		wakeTimeBands:  wakeBands,
		durationWeight: durW,
		sleepWeight:    sleepW,
		wakeWeight:     wakeW,
		totalDays:      doc.Days(),
		minScore:       lo,
		maxScore:       hi,
	}, nil
}

func validateBands(bands []domain.VarianceBand) error {
	for i := 0; i < len(bands)-1; i++ {
		if bands[i].MaxVariance >= bands[i+1].MaxVariance {
			return fmt.Errorf("%w: variance bands must have strictly ascending thresholds", domain.ErrInvalidConfig)
		}
	}
	return nil
}

func (a *SleepComposite) Type() domain.AlgorithmType { return domain.AlgorithmSleepComposite }

// bandScore grades a variance against ascending thresholds; the first band
// the variance is strictly below wins. Variance at or beyond every band
// scores zero.
func bandScore(bands []domain.VarianceBand, variance float64) float64 {
	for _, b := range bands {
		if variance < b.MaxVariance {
			return b.Score
		}
	}
	return 0
}

// nightScore combines the three components for one night. A night missing a
// metric scores zero for that component.
func (a *SleepComposite) nightScore(d domain.DailyValue) float64 {
	if !d.Recorded {
		return 0
	}

	durScore := 0.0
	if hours, ok := d.Metric(MetricSleepDuration); ok {
		if zone, found := domain.ZoneFor(a.durationZones, hours); found {
			durScore = zone.Score
		}
	}

	sleepScore := 0.0
	if v, ok := d.Metric(MetricSleepVariance); ok {
		sleepScore = bandScore(a.sleepTimeBands, v)
	}

	wakeScore := 0.0
	if v, ok := d.Metric(MetricWakeVariance); ok {
		wakeScore = bandScore(a.wakeTimeBands, v)
	}

	return a.durationWeight*durScore + a.sleepWeight*sleepScore + a.wakeWeight*wakeScore
}

func (a *SleepComposite) CalculateScore(days []domain.DailyValue) domain.ScoreResult {
	return a.CalculateDualProgress(days, a.totalDays)
}

// CalculateDualProgress allocates 100/total_days of weekly weight to each
// night and projects perfect nights for the remainder.
func (a *SleepComposite) CalculateDualProgress(days []domain.DailyValue, currentDay int) domain.ScoreResult {
	currentDay = clampDay(currentDay, a.totalDays)
	window := observed(days, currentDay)

	dailyWeight := 100.0 / float64(a.totalDays)
	progress := 0.0
	scores := make([]float64, 0, len(window))

	for _, d := range window {
		s := a.nightScore(d)
		scores = append(scores, s)
		progress += s / 100.0 * dailyWeight
	}

	remaining := a.totalDays - currentDay
	result := domain.ScoreResult{
		ProgressTowardsGoal:   progress,
		MaxPotentialAdherence: progress + float64(remaining)*dailyWeight,
		DailyScores:           scores,
	}
	return result.Clamp(a.minScore, a.maxScore)
}

func (a *SleepComposite) ProgressiveScores(days []domain.DailyValue) []float64 {
	return replayProgressive(a, days)
}
