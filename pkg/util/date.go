package util

import (
	"time"
)

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// permissive read format, accepts single-digit month/day
const dayFormatLoose = "2006-1-2"

// Day truncates t to its calendar day at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a calendar day. Accepts "2006-01-02", a permissive
// single-digit variant, and RFC3339 timestamps (truncated to the day).
// Returns (day, true) if any worked.
func ParseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(dayFormatLoose, s); err == nil {
		return Day(t), true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Day(t), true
	}
	return time.Time{}, false
}

// ParseDayDefault parses a day or returns default if empty/invalid.
func ParseDayDefault(s string, def time.Time) time.Time {
	if t, ok := ParseDay(s); ok {
		return t
	}
	return def
}

// FormatDay renders a day in DayFormat.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}

// Tomorrow returns the day after now's calendar day. Used as the exclusive
// end of a history window so today's bar is included.
func Tomorrow(now time.Time) time.Time {
	return Day(now).AddDate(0, 0, 1)
}
