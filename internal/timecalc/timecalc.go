package timecalc

import (
	"errors"
	"fmt"
	"time"
)

// Units understood by Shift. They are the canonical keys of the
// definitions dictionary.
const (
	Minute = "minute"
	Hour   = "hour"
	Day    = "day"
	Week   = "week"
	Month  = "month"
	Year   = "year"
)

// ErrUnknownUnit is returned by Shift for a unit outside the list above.
var ErrUnknownUnit = errors.New("unknown time unit")

// ErrOutOfRange is returned by Shift when the step count exceeds MaxYears
// worth of the unit.
var ErrOutOfRange = errors.New("shift out of range")

// MaxYears bounds how far Shift moves a time in either direction.
const MaxYears = 10000

var maxSteps = map[string]int64{
	Minute: MaxYears * 366 * 24 * 60,
	Hour:   MaxYears * 366 * 24,
	Day:    MaxYears * 366,
	Week:   MaxYears * 53,
	Month:  MaxYears * 12,
	Year:   MaxYears,
}

// At returns hour:minute on the calendar day of date, in date's location.
func At(date time.Time, hour, minute int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// Shift moves t by n units using wall-clock arithmetic. Month and year
// steps clamp to the last day of the target month, so Jan 31 + 1 month
// is the last day of February.
func Shift(t time.Time, unit string, n int) (time.Time, error) {
	limit, ok := maxSteps[unit]
	if !ok {
		return t, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	if int64(n) > limit || int64(n) < -limit {
		return t, fmt.Errorf("%w: %d %s", ErrOutOfRange, n, unit)
	}

	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	loc := t.Location()

	switch unit {
	case Minute:
		return time.Date(y, mo, d, h, mi+n, s, t.Nanosecond(), loc), nil
	case Hour:
		return time.Date(y, mo, d, h+n, mi, s, t.Nanosecond(), loc), nil
	case Day:
		return time.Date(y, mo, d+n, h, mi, s, t.Nanosecond(), loc), nil
	case Week:
		return time.Date(y, mo, d+7*n, h, mi, s, t.Nanosecond(), loc), nil
	case Month:
		return addMonths(t, n), nil
	case Year:
		return addMonths(t, 12*n), nil
	}
	return t, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
}

func addMonths(t time.Time, n int) time.Time {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	first := time.Date(y, mo+time.Month(n), 1, h, mi, s, t.Nanosecond(), t.Location())
	if last := DaysIn(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, h, mi, s, t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in t's month.
func DaysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h >= 48 {
		return fmt.Sprintf("%dd %dh", h/24, h%24)
	}
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := t.AddDate(0, 0, -(wd - 1))
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
	sunday := monday.AddDate(0, 0, 6)
	sunday = time.Date(sunday.Year(), sunday.Month(), sunday.Day(), 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameMinute reports whether two times fall within the same wall-clock minute.
func SameMinute(a, b time.Time) bool {
	return SameDay(a, b) && a.Hour() == b.Hour() && a.Minute() == b.Minute()
}
