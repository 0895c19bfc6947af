package tracker

import "sort"

// Completions maps a date key (YYYY-MM-DD) to habit id to completion flag.
// A missing entry means "not completed".
type Completions map[string]map[string]bool

func (c Completions) Done(dateKey, habitID string) bool {
	day, ok := c[dateKey]
	if !ok {
		return false
	}
	return day[habitID]
}

func (c Completions) Set(dateKey, habitID string, done bool) {
	day, ok := c[dateKey]
	if !ok {
		day = make(map[string]bool)
		c[dateKey] = day
	}
	day[habitID] = done
}

// Toggle flips the flag and returns the new value.
func (c Completions) Toggle(dateKey, habitID string) bool {
	next := !c.Done(dateKey, habitID)
	c.Set(dateKey, habitID, next)
	return next
}

// HasEntry reports whether anything was recorded for the date.
func (c Completions) HasEntry(dateKey string) bool {
	_, ok := c[dateKey]
	return ok
}

// RemoveHabit deletes the habit id from every date. Date entries are kept
// even when they become empty.
func (c Completions) RemoveHabit(habitID string) {
	for _, day := range c {
		delete(day, habitID)
	}
}

// Dates returns the recorded date keys in ascending order.
func (c Completions) Dates() []string {
	out := make([]string, 0, len(c))
	for k := range c {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (c Completions) Clone() Completions {
	out := make(Completions, len(c))
	for k, day := range c {
		cp := make(map[string]bool, len(day))
		for id, done := range day {
			cp[id] = done
		}
		out[k] = cp
	}
	return out
}
