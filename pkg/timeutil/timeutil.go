// Package timeutil provides UTC calendar-day utilities for streak computation.
// A user's daily streak is defined over UTC calendar days, so all day math in
// the engine goes through this package to stay consistent.
// No external dependencies - uses only standard library.
package timeutil

import (
	"time"
)

// DayOf returns the UTC calendar day of t (midnight UTC).
func DayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DayOf(a).Equal(DayOf(b))
}

// DaysBetween returns the number of whole UTC calendar days from a to b.
// Positive if b is after a, negative if before, zero for the same day.
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// NextDay returns the UTC calendar day immediately after t's day.
func NextDay(t time.Time) time.Time {
	return DayOf(t).AddDate(0, 0, 1)
}

// FormatDay formats the UTC calendar day of t as "2006-01-02".
func FormatDay(t time.Time) string {
	return DayOf(t).Format("2006-01-02")
}
