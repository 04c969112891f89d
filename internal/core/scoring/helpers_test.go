package scoring_test

import (
	"github.com/keegs-3/wellpath-adherence/internal/core/domain"
)

func fptr(v float64) *float64 {
	return &v
}

// recorded builds a window of recorded days from plain values.
func recorded(values ...float64) []domain.DailyValue {
	days := make([]domain.DailyValue, len(values))
	for i, v := range values {
		days[i] = domain.DailyValue{Value: v, Recorded: true}
	}
	return days
}

// emptyWeek returns seven unrecorded days.
func emptyWeek() []domain.DailyValue {
	return make([]domain.DailyValue, 7)
}

func metricDay(metrics map[string]float64) domain.DailyValue {
	return domain.DailyValue{Metrics: metrics, Recorded: true}
}

func statusDay(statuses ...string) domain.DailyValue {
	return domain.DailyValue{Statuses: statuses, Recorded: true}
}
