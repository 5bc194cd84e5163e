package forecast

import (
	"math"
	"time"

	"countcast-backend/internal/domain"
)

// DateOnly truncates t to a calendar date at UTC midnight. All interval
// comparisons in this package run on normalized values so a stray
// time-of-day or zone offset can never shift a boundary by a day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a canonical YYYY-MM-DD string. The zero time plus false
// signals an unparseable or empty value; callers treat that as "no date",
// never as day zero.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// daysBetween is the absolute calendar day count between two dates,
// computed as the ceiling of the interval so partial days still count.
func daysBetween(a, b time.Time) int {
	diff := DateOnly(b).Sub(DateOnly(a)).Hours() / 24
	return int(math.Ceil(math.Abs(diff)))
}

// inWindow reports whether d lies in the half-open-then-closed interval
// (after, upTo]. The open lower bound keeps a receipt that lands exactly on
// a count date from being attributed to two adjacent periods.
func inWindow(d, after, upTo time.Time) bool {
	d = DateOnly(d)
	return d.After(DateOnly(after)) && !d.After(DateOnly(upTo))
}
