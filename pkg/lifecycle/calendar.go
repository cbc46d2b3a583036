package lifecycle

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// DateOf returns the calendar date of t as seen in loc, as midnight UTC.
// All ledger dates are stored in this form so day arithmetic never crosses a DST boundary.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddMonths adds calendar months to a date, clamping the day to the last day of the target month
// (2024-01-31 + 1 month = 2024-02-29).
func AddMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	if last := daysInMonth(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, date.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween counts whole calendar days from a to b (negative when b is before a).
func DaysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
