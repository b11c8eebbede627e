// Package billingperiod maps instants to calendar-month billing windows.
// All boundaries are UTC. Periods are half-open [Start, End): End is the
// first instant of the following month, never "last second of the month",
// so adjacent periods neither gap nor overlap at midnight.
package billingperiod

import "time"

// Period is a half-open billing window [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Current returns the billing period containing now.
func Current(now time.Time) Period {
	utc := now.UTC()
	start := time.Date(utc.Year(), utc.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		Start: start,
		End:   start.AddDate(0, 1, 0),
	}
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	utc := t.UTC()
	return !utc.Before(p.Start) && utc.Before(p.End)
}
