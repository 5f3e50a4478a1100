// Package timeutil centralizes calendar-day arithmetic. Day-precision
// fields (bill dates, habit log dates, goal due dates) are stored as
// UTC-midnight instants and exposed as YYYY-MM-DD strings; instants such
// as a goal's updated_at are bucketed into local calendar days spanning
// [00:00:00, 23:59:59.999999].
package timeutil

import "time"

// DateLayout is the wire format for day-precision fields.
const DateLayout = "2006-01-02"

// DayStart returns midnight of t's calendar day, in t's location.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last counted microsecond of t's calendar day,
// in t's location.
func DayEnd(t time.Time) time.Time {
	return DayStart(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

// DateOf encodes the calendar day of t (read in t's location) as a
// UTC-midnight instant, the storage form for day-precision fields.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into storage form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a storage-form date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SameDate reports whether two storage-form dates name the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// MonthStart encodes the first day of t's calendar month (read in t's
// location) as a UTC-midnight instant.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
