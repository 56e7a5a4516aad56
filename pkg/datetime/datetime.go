// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/store-eerr/pkg/constants"
)

const (
	// DateTimeLayout is the month format used in snapshots and output.
	DateTimeLayout = constants.DateTimeLayout

	// DayLayout is the format of daily dates.
	DayLayout = constants.DayLayout
)

// Month returns the first day of the given year and month in UTC.
func Month(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// Day returns midnight UTC of the given calendar date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// MonthStart truncates t to the first day of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	return Month(t.Year(), t.Month())
}

// DayStart truncates t to midnight UTC of its calendar date.
func DayStart(t time.Time) time.Time {
	return Day(t.Year(), t.Month(), t.Day())
}

// ParseMonth parses a "2006-01" string into a month start.
func ParseMonth(value string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return MonthStart(t), nil
}

// ParseDay parses a "2006-01-02" string into a calendar date.
func ParseDay(value string) (time.Time, error) {
	t, err := time.Parse(DayLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return DayStart(t), nil
}

// IsDecember reports whether t falls in December.
func IsDecember(t time.Time) bool {
	return int(t.Month()) == constants.DecemberMonth
}

// MonthWindow returns the inclusive daily window used to average a month:
// startDay of the month before m through endDay of m.
func MonthWindow(m time.Time, startDay, endDay int) (time.Time, time.Time) {
	first := MonthStart(m)
	prev := first.AddDate(0, -1, 0)
	return prev.AddDate(0, 0, startDay-1), first.AddDate(0, 0, endDay-1)
}

// DaysBetween returns every calendar date from start through end inclusive.
func DaysBetween(start, end time.Time) []time.Time {
	start, end = DayStart(start), DayStart(end)
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
