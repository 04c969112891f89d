package domain

import (
	"fmt"
	"sort"
)

type ComparisonOperator string

const (
	OpGreaterOrEqual ComparisonOperator = ">="
	OpGreater        ComparisonOperator = ">"
	OpEqual          ComparisonOperator = "="
	OpLess           ComparisonOperator = "<"
	OpLessOrEqual    ComparisonOperator = "<="
)

func (op ComparisonOperator) Valid() bool {
	switch op {
	case OpGreaterOrEqual, OpGreater, OpEqual, OpLess, OpLessOrEqual:
		return true
	}
	return false
}

// Evaluate compares actual against threshold. Operators are validated at
// config-parse time; an unvalidated operator evaluates to false.
func (op ComparisonOperator) Evaluate(actual, threshold float64) bool {
	switch op {
	case OpGreaterOrEqual:
		return actual >= threshold
	case OpGreater:
		return actual > threshold
	case OpEqual:
		return actual == threshold
	case OpLess:
		return actual < threshold
	case OpLessOrEqual:
		return actual <= threshold
	}
	return false
}

// IsCeiling reports whether the operator expresses an upper limit the value
// must stay under, which drives the weekly-constraint behavior of the
// threshold family.
func (op ComparisonOperator) IsCeiling() bool {
	return op == OpLess || op == OpLessOrEqual
}

// Zone is a closed interval [MinValue, MaxValue] mapped to a fixed score.
type Zone struct {
	MinValue float64 `json:"min_value"`
	MaxValue float64 `json:"max_value"`
	Score    float64 `json:"score"`
	Label    string  `json:"label,omitempty"`
}

func (z Zone) Contains(value float64) bool {
	return value >= z.MinValue && value <= z.MaxValue
}

// ZoneTolerance is the maximum gap or overlap allowed between adjacent zones.
const ZoneTolerance = 0.1

// SortZones returns a copy of the zone set ordered by ascending MinValue.
// Lookup order matters: a value sitting exactly on a shared boundary belongs
// to the lower zone, which owns its MaxValue.
func SortZones(zones []Zone) []Zone {
	sorted := make([]Zone, len(zones))
	copy(sorted, zones)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinValue < sorted[j].MinValue
	})
	return sorted
}

// ValidateZoneSet enforces the tier count (3 or 5) and contiguity of a zone
// set: adjacent zones may touch, but gaps or overlaps beyond ZoneTolerance
// are rejected.
func ValidateZoneSet(zones []Zone) error {
	if len(zones) != 3 && len(zones) != 5 {
		return fmt.Errorf("%w: expected 3 or 5 zones, got %d", ErrInvalidZoneConfiguration, len(zones))
	}

	sorted := SortZones(zones)

	for i, z := range sorted {
		if z.MinValue > z.MaxValue {
			return fmt.Errorf("%w: zone %d has min_value %.2f greater than max_value %.2f",
				ErrInvalidZoneConfiguration, i, z.MinValue, z.MaxValue)
		}
	}

	for i := 0; i < len(sorted)-1; i++ {
		gap := sorted[i+1].MinValue - sorted[i].MaxValue
		if gap > ZoneTolerance {
			return fmt.Errorf("%w: gap of %.2f between zones %d and %d", ErrInvalidZoneConfiguration, gap, i, i+1)
		}
		if -gap > ZoneTolerance {
			return fmt.Errorf("%w: overlap of %.2f between zones %d and %d", ErrInvalidZoneConfiguration, -gap, i, i+1)
		}
	}

	return nil
}

// ZoneFor finds the zone containing value, scanning in ascending MinValue
// order so the lower zone wins a shared boundary.
func ZoneFor(zones []Zone, value float64) (Zone, bool) {
	for _, z := range SortZones(zones) {
		if z.Contains(value) {
			return z, true
		}
	}
	return Zone{}, false
}
