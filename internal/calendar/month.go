// Package calendar provides month-accurate date arithmetic and the date
// parsing boundary used when external rows enter the engine.
package calendar

import (
	"fmt"
	"time"
)

const MonthLayout = "2006-01"

// AddMonths shifts t by n calendar months, clamping the day to the last day
// of the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	if n == 0 {
		return t
	}
	y, m, d := t.Date()
	total := int(m) - 1 + n
	year := y + floorDiv(total, 12)
	month := time.Month(floorMod(total, 12) + 1)

	if last := DaysIn(year, month); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(year, month, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// MonthKeyOf returns "" for a nil date.
func MonthKeyOf(t *time.Time) string {
	if t == nil {
		return ""
	}
	return MonthKey(*t)
}

// MonthStart truncates t to the first instant of its month.
func MonthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// MonthEnd returns the last calendar day of t's month at midnight.
func MonthEnd(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, DaysIn(y, m), 0, 0, 0, 0, t.Location())
}

// ParseMonth parses a YYYY-MM key into the first day of that month (UTC).
func ParseMonth(key string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month key %q: %w", key, err)
	}
	return t, nil
}

// MonthRange returns n consecutive month keys starting at from's month.
func MonthRange(from time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	start := MonthStart(from)
	keys := make([]string, 0, n)
	for i := 0; i < n; i++ {
		keys = append(keys, MonthKey(AddMonths(start, i)))
	}
	return keys
}

// MonthsBetween counts whole calendar months from a's month to b's month.
func MonthsBetween(a, b time.Time) int {
	ay, am, _ := a.Date()
	by, bm, _ := b.Date()
	return (by-ay)*12 + int(bm-am)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
