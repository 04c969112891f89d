package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrGoalNameEmpty     = errors.New("goal name cannot be empty")
	ErrGoalNameTooLong   = errors.New("goal name is too long (max 100 chars)")
	ErrGoalInvalidUserID = errors.New("invalid user id")

	ErrInvalidConfig            = errors.New("invalid algorithm configuration")
	ErrUnknownAlgorithmType     = errors.New("unknown algorithm type")
	ErrUnknownOperator          = errors.New("unknown comparison operator")
	ErrInvalidZoneConfiguration = errors.New("invalid zone configuration")
)

type AlgorithmType string

const (
	AlgorithmBinaryThreshold       AlgorithmType = "binary_threshold"
	AlgorithmCategoricalFilter     AlgorithmType = "categorical_filter_threshold"
	AlgorithmMinimumFrequency      AlgorithmType = "minimum_frequency"
	AlgorithmWeeklyElimination     AlgorithmType = "weekly_elimination"
	AlgorithmWeeklyAllowance       AlgorithmType = "constrained_weekly_allowance"
	AlgorithmProportional          AlgorithmType = "proportional"
	AlgorithmProportionalFrequency AlgorithmType = "proportional_frequency_hybrid"
	AlgorithmZoneBased             AlgorithmType = "zone_based"
	AlgorithmCompositeWeighted     AlgorithmType = "composite_weighted"
	AlgorithmSleepComposite        AlgorithmType = "sleep_composite"
	AlgorithmBaselineConsistency   AlgorithmType = "baseline_consistency"
	AlgorithmWeekendVariance       AlgorithmType = "weekend_variance"
	AlgorithmCompletionBased       AlgorithmType = "completion_based"
	AlgorithmTherapeuticAdherence  AlgorithmType = "therapeutic_adherence"
)

// AllAlgorithmTypes lists every supported tag in a stable order.
func AllAlgorithmTypes() []AlgorithmType {
	return []AlgorithmType{
		AlgorithmBinaryThreshold,
		AlgorithmCategoricalFilter,
		AlgorithmMinimumFrequency,
		AlgorithmWeeklyElimination,
		AlgorithmWeeklyAllowance,
		AlgorithmProportional,
		AlgorithmProportionalFrequency,
		AlgorithmZoneBased,
		AlgorithmCompositeWeighted,
		AlgorithmSleepComposite,
		AlgorithmBaselineConsistency,
		AlgorithmWeekendVariance,
		AlgorithmCompletionBased,
		AlgorithmTherapeuticAdherence,
	}
}

// ResolveAlgorithmType matches a raw tag case-insensitively against the closed set.
func ResolveAlgorithmType(raw string) (AlgorithmType, bool) {
	tag := AlgorithmType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range AllAlgorithmTypes() {
		if t == tag {
			return t, true
		}
	}
	return "", false
}

const (
	PeriodDaily      = "daily"
	PeriodRolling7   = "rolling_7_day"
	CriteriaSimple   = "simple_target"
	CriteriaFreq     = "frequency_target"
	MethodDaily      = "daily_comparison"
	MethodWeeklySum  = "weekly_sum"
	MethodRatio      = "metric_ratio"
	AggWeightedAvg   = "weighted_average"
	AggSimpleAvg     = "simple_average"
	AggMinimum       = "minimum"
	AggMaximum       = "maximum"
	ProgressAverage  = "average"
	ProgressFreq     = "frequency"
	DefaultTotalDays = 7
)

// CategoryFilter applies its own threshold rule to observations whose category
// label appears in CategoryValues. First matching filter wins.
type CategoryFilter struct {
	Name           string             `json:"name,omitempty"`
	CategoryValues []string           `json:"category_values"`
	Threshold      float64            `json:"threshold"`
	Operator       ComparisonOperator `json:"comparison_operator"`
	SuccessValue   float64            `json:"success_value"`
	FailureValue   float64            `json:"failure_value"`
}

// VarianceBand maps a variance ceiling to a score. Bands are checked in
// ascending MaxVariance order and the first band with variance strictly below
// its ceiling wins.
type VarianceBand struct {
	MaxVariance float64 `json:"max_variance"`
	Score       float64 `json:"score"`
}

// ConfigDocument is the loosely-typed goal document as stored and transported.
// It is parsed exactly once, at the scoring boundary, into a strongly-typed
// per-family configuration; fields irrelevant to the declared algorithm_type
// are ignored.
type ConfigDocument struct {
	AlgorithmType     string `json:"algorithm_type"`
	Unit              string `json:"unit,omitempty"`
	Label             string `json:"label,omitempty"`
	EvaluationPeriod  string `json:"evaluation_period,omitempty"`
	SuccessCriteria   string `json:"success_criteria,omitempty"`
	CalculationMethod string `json:"calculation_method,omitempty"`

	TotalDays        int      `json:"total_days,omitempty"`
	MinimumThreshold *float64 `json:"minimum_threshold,omitempty"`
	MaximumCap       *float64 `json:"maximum_cap,omitempty"`

	Threshold          *float64 `json:"threshold,omitempty"`
	ComparisonOperator string   `json:"comparison_operator,omitempty"`
	SuccessValue       *float64 `json:"success_value,omitempty"`
	FailureValue       *float64 `json:"failure_value,omitempty"`

	Target                 *float64 `json:"target,omitempty"`
	DailyMinimumThreshold  *float64 `json:"daily_minimum_threshold,omitempty"`
	RequiredQualifyingDays int      `json:"required_qualifying_days,omitempty"`
	FrequencyTarget        int      `json:"frequency_target,omitempty"`
	IsThresholdGoal        bool     `json:"is_threshold_goal,omitempty"`

	WeeklyAllowance *float64 `json:"weekly_allowance,omitempty"`

	Zones          []Zone `json:"zones,omitempty"`
	GraduatedZones bool   `json:"graduated_zones,omitempty"`
	ProgressMode   string `json:"progress_mode,omitempty"`

	Components []Component `json:"components,omitempty"`

	CategoryFilters  []CategoryFilter `json:"category_filters,omitempty"`
	DefaultThreshold *float64         `json:"default_threshold,omitempty"`
	Aggregation      string           `json:"aggregation,omitempty"`

	DurationZones        []Zone         `json:"duration_zones,omitempty"`
	SleepTimeBands       []VarianceBand `json:"sleep_time_bands,omitempty"`
	WakeTimeBands        []VarianceBand `json:"wake_time_bands,omitempty"`
	DurationWeight       *float64       `json:"duration_weight,omitempty"`
	SleepTimeWeight      *float64       `json:"sleep_time_weight,omitempty"`
	WakeTimeWeight       *float64       `json:"wake_time_weight,omitempty"`

	BaselineWindow   int      `json:"baseline_window,omitempty"`
	TolerancePercent *float64 `json:"tolerance_percent,omitempty"`
	WeekendDays      []int    `json:"weekend_days,omitempty"`
	AllowedVariance  *float64 `json:"allowed_variance,omitempty"`
}

// Days returns the evaluation window size, defaulting to a trailing week.
func (d ConfigDocument) Days() int {
	if d.TotalDays > 0 {
		return d.TotalDays
	}
	return DefaultTotalDays
}

// Bounds returns the configured [minimum_threshold, maximum_cap] score range.
func (d ConfigDocument) Bounds() (float64, float64) {
	lo, hi := 0.0, 100.0
	if d.MinimumThreshold != nil {
		lo = *d.MinimumThreshold
	}
	if d.MaximumCap != nil {
		hi = *d.MaximumCap
	}
	return lo, hi
}

type GoalConfig struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Name      string         `json:"name"`
	Document  ConfigDocument `json:"document"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty"`
}

const maxGoalNameLen = 100

func NewGoalConfig(userID, name string, doc ConfigDocument) (*GoalConfig, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrGoalInvalidUserID
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrGoalNameEmpty
	}
	if len(trimmed) > maxGoalNameLen {
		return nil, ErrGoalNameTooLong
	}

	now := time.Now().UTC()

	return &GoalConfig{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      trimmed,
		Document:  doc,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
