package domain

// CategoryItem is one categorized observation within a day. Categorical goals
// may record several per day (e.g. individual food items).
type CategoryItem struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
	Weight   float64 `json:"weight,omitempty"`
}

// DailyValue is one day's observation inside an evaluation window. Simple
// goals use Value alone; ratio and composite goals read named Metrics;
// categorical goals use Category/Items; therapeutic goals use Statuses.
// Recorded=false marks a day with no tracked data, which scores as the
// documented fallback rather than erroring.
type DailyValue struct {
	Value    float64            `json:"value"`
	Category string             `json:"category,omitempty"`
	Items    []CategoryItem     `json:"items,omitempty"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Statuses []string           `json:"statuses,omitempty"`
	Recorded bool               `json:"recorded"`
}

// Metric fields recognized by ratio-mode goals.
const (
	MetricPrimary    = "primary_metric"
	MetricComparison = "comparison_metric"
)

// Metric reads a named field, reporting whether it was present.
func (d DailyValue) Metric(name string) (float64, bool) {
	if d.Metrics == nil {
		return 0, false
	}
	v, ok := d.Metrics[name]
	return v, ok
}

// RecordedValue returns a numeric day value, treating unrecorded days as the
// zero fallback.
func (d DailyValue) RecordedValue() float64 {
	if !d.Recorded {
		return 0
	}
	return d.Value
}

// Observations normalizes a day to its categorized items, falling back to the
// single Category/Value pair when no item list was supplied.
func (d DailyValue) Observations() []CategoryItem {
	if len(d.Items) > 0 {
		return d.Items
	}
	if d.Category != "" || d.Recorded {
		return []CategoryItem{{Category: d.Category, Value: d.Value, Weight: 1}}
	}
	return nil
}
