package scheduler

import "time"

// NextRollover returns the next local midnight strictly after now.
func NextRollover(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// NextNudge returns the next occurrence of hour:minute in loc strictly after
// now.
func NextNudge(now time.Time, loc *time.Location, hour, minute int) time.Time {
	local := now.In(loc)
	y, m, d := local.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, loc)
	if !at.After(local) {
		at = time.Date(y, m, d+1, hour, minute, 0, 0, loc)
	}
	return at
}
