package schedule

import (
	"time"

	"surveyd/internal/domain"
)

// Never is the sentinel next-fire time for rules that cannot be computed.
// A survey scheduled at Never is never selected as due again.
var Never = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// NextAfter computes the next delivery time following last for the given
// rule. Unknown units return Never. A non-positive interval is treated as 1
// so a zero-valued rule cannot schedule a survey into a tight loop.
func NextAfter(rule domain.RecurrenceRule, last time.Time) time.Time {
	n := rule.Interval
	if n <= 0 {
		n = 1
	}
	switch rule.Unit {
	case domain.Daily:
		return last.AddDate(0, 0, n)
	case domain.Weekly:
		return last.AddDate(0, 0, 7*n)
	case domain.Monthly:
		return addMonthsClamped(last, n)
	default:
		return Never
	}
}

// addMonthsClamped adds n calendar months, clamping the day-of-month to the
// last valid day of the target month. Go's AddDate normalizes overflow
// forward (Jan 31 + 1 month = Mar 2/3), which is not the calendar-add
// behavior callers expect, so the clamp is explicit.
func addMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}
