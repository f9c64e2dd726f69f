package models

import (
	"fmt"
	"time"
)

// Period is one ISO-8601 week (Monday through Sunday) for which a single
// override code is valid. The key format is "2024-W10".
//
// The week was chosen as the one rotation cycle for the whole deployment;
// mixing day- and week-based cycles would leave overlapping "active" records
// behind, so the daily variant is intentionally not supported.
type Period struct {
	// Key is the canonical period identifier, e.g. "2024-W10".
	Key string

	// Start is the first instant of the period (Monday 00:00 UTC), inclusive.
	Start time.Time

	// End is the first instant of the following period, exclusive.
	// A code is valid while Start <= now < End.
	End time.Time
}

// CurrentPeriod returns the ISO week containing now.
// All period arithmetic is done in UTC so that the same wall-clock instant
// maps to the same period on every host.
func CurrentPeriod(now time.Time) Period {
	now = now.UTC()
	year, week := now.ISOWeek()

	// walk back to Monday 00:00 of the current ISO week
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(day.Weekday())
	if weekday == 0 { // Sunday
		weekday = 7
	}
	start := day.AddDate(0, 0, -(weekday - 1))

	return Period{
		Key:   PeriodKey(year, week),
		Start: start,
		End:   start.AddDate(0, 0, 7),
	}
}

// PeriodKey formats an ISO year/week pair as a period key.
func PeriodKey(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start) && t.Before(p.End)
}

// Remaining returns the validity time left at now, or zero if the period
// has already ended.
func (p Period) Remaining(now time.Time) time.Duration {
	d := p.End.Sub(now.UTC())
	if d < 0 {
		return 0
	}
	return d
}
