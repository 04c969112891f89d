package domain

const (
	ScoringProportional = "proportional"
	ScoringBinary       = "binary"
	ScoringZone         = "zone"
)

// Component is one independently-scored part of a composite goal. FieldName
// selects the metric read from each day's named fields.
type Component struct {
	Name          string             `json:"name"`
	Weight        float64            `json:"weight"`
	Target        float64            `json:"target,omitempty"`
	Unit          string             `json:"unit,omitempty"`
	ScoringMethod string             `json:"scoring_method"`
	FieldName     string             `json:"field_name"`
	Threshold     float64            `json:"threshold,omitempty"`
	Operator      ComparisonOperator `json:"comparison_operator,omitempty"`
	SuccessValue  float64            `json:"success_value,omitempty"`
	FailureValue  float64            `json:"failure_value,omitempty"`
	MinScore      *float64           `json:"min_score,omitempty"`
	MaxScore      *float64           `json:"max_score,omitempty"`
	Zones         []Zone             `json:"zones,omitempty"`
}
