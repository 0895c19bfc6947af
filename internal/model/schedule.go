package model

import "time"

// IsDue reports whether the habit is tracked on date. Weekly habits fall on
// Mondays. Unrecognized frequencies are never due.
func (h Habit) IsDue(date time.Time) bool {
	switch h.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekly:
		return date.Weekday() == time.Monday
	case FrequencyCustom:
		wd := int(date.Weekday())
		for _, d := range h.CustomDays {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}
