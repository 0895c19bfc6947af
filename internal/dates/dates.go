package dates

import (
	"errors"
	"fmt"
	"time"
)

// KeyLayout is the calendar-date format used for completion keys.
const KeyLayout = "2006-01-02"

var ErrInvalidKey = errors.New("dates: invalid date key")

// Key formats t as YYYY-MM-DD in t's own location.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

func Parse(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(KeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return t, nil
}

// Day returns local midnight of t.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays moves by calendar days, so DST transitions never skip or repeat a date.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// Weekday returns 0 for Sunday through 6 for Saturday.
func Weekday(t time.Time) int {
	return int(t.Weekday())
}

// MondayOf returns the Monday that starts t's week. Sunday belongs to the
// week that began six days earlier.
func MondayOf(t time.Time) time.Time {
	offset := (Weekday(t) + 6) % 7
	return AddDays(t, -offset)
}

// DaysBetween counts calendar days from a to b; negative when b is before a.
func DaysBetween(a, b time.Time) int {
	da, db := Day(a), Day(b)
	ua := time.Date(da.Year(), da.Month(), da.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(db.Year(), db.Month(), db.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// MonthGridStart returns the Sunday on or before the first of the month.
func MonthGridStart(year int, month time.Month, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return AddDays(first, -Weekday(first))
}

func SameDay(a, b time.Time) bool {
	return Key(a) == Key(b.In(a.Location()))
}
