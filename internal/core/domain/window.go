package domain

import "time"

// BuildDailyWindow folds measurements into an ordered per-day sequence of
// totalDays values starting at from. Multiple measurements on one day merge:
// numeric values sum, categorized observations accumulate as items, named
// metrics and regimen statuses append. Days without data stay unrecorded and
// score as the documented fallback.
func BuildDailyWindow(measurements []*Measurement, from time.Time, totalDays int) []DailyValue {
	from = from.UTC().Truncate(24 * time.Hour)

	byDay := make(map[string][]*Measurement)
	for _, m := range measurements {
		key := m.MeasuredOn.UTC().Format("2006-01-02")
		byDay[key] = append(byDay[key], m)
	}

	window := make([]DailyValue, totalDays)
	for i := 0; i < totalDays; i++ {
		key := from.AddDate(0, 0, i).Format("2006-01-02")
		dayMeasurements := byDay[key]
		if len(dayMeasurements) == 0 {
			continue
		}

		day := DailyValue{Recorded: true}
		for _, m := range dayMeasurements {
			day.Value += m.Value

			if m.Category != "" {
				day.Items = append(day.Items, CategoryItem{
					Category: m.Category,
					Value:    m.Value,
					Weight:   1,
				})
			}

			for name, v := range m.Metrics {
				if day.Metrics == nil {
					day.Metrics = make(map[string]float64)
				}
				day.Metrics[name] = v
			}

			day.Statuses = append(day.Statuses, m.Statuses...)
		}

		if len(day.Items) == 1 {
			day.Category = day.Items[0].Category
		}

		window[i] = day
	}

	return window
}

// ElapsedDays counts how many days of a window starting at from have fully
// or partially elapsed by now, bounded to [0, totalDays].
func ElapsedDays(from, now time.Time, totalDays int) int {
	from = from.UTC().Truncate(24 * time.Hour)
	now = now.UTC().Truncate(24 * time.Hour)

	elapsed := int(now.Sub(from).Hours()/24) + 1
	if elapsed < 0 {
		return 0
	}
	if elapsed > totalDays {
		return totalDays
	}
	return elapsed
}
