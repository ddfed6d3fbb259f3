package service

import (
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

// EstimateCycles derives average cycle length and the projected next period
// date from a user's cycle history. cycles must be ordered by
// LastPeriodStart descending (the repository contract); today is an
// explicit input so the function stays pure.
//
// The average is the truncated integer mean of the stored lengths. The
// projection starts at the most recent entry's NextPeriodStart and advances
// in steps of averageLength-1 days until strictly after today. The -1 step
// matches the legacy projection; see DESIGN.md for the length conventions.
func EstimateCycles(cycles []domain.Cycle, today time.Time) domain.Estimate {
	if len(cycles) == 0 {
		return domain.Estimate{}
	}

	sum := 0
	for _, c := range cycles {
		sum += c.CycleLength
	}
	avg := sum / len(cycles)

	est := domain.Estimate{AverageCycleLength: avg}
	if avg <= 0 {
		// An average of zero or less carries no predictive meaning.
		return est
	}

	today = DateOnly(today)
	step := avg - 1
	if step < 1 {
		// Keep the loop terminating when the average is exactly one day.
		step = 1
	}

	next := DateOnly(cycles[0].NextPeriodStart)
	for !next.After(today) {
		next = next.AddDate(0, 0, step)
	}

	days := daysBetween(today, next)
	est.NextPeriod = &next
	est.DaysUntil = &days
	return est
}

// DateOnly normalizes a timestamp to UTC midnight; cycle dates carry day
// granularity only.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns b - a in whole days. Both arguments must already be
// normalized to UTC midnight.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
