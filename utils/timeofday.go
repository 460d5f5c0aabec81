package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by every dated document.
const DateLayout = "2006-01-02"

// MinutesPerDay bounds a time of day: valid values are 0..MinutesPerDay-1.
const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, NewValidationError("time", "%q is not HH:MM", s)
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, NewValidationError("time", "%q is not HH:MM", s)
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching
// intervals do not overlap.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// ParseDate parses a "YYYY-MM-DD" calendar date as midnight UTC so that
// day arithmetic never crosses a DST transition.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, NewValidationError("date", "%q is not YYYY-MM-DD", s)
	}
	return t, nil
}

// DaysBetween returns the calendar-day difference b - a using only the
// date components of each value.
func DaysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int((db.Unix() - da.Unix()) / 86400)
}

// MonthsBetween returns the month difference b - a, ignoring the day.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()*12 + int(b.Month())) - (a.Year()*12 + int(a.Month()))
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}
