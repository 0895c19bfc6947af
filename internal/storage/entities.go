package storage

import "time"

// Well-known keys holding the tracker state.
const (
	KeyHabits      = "habits"
	KeyCompletions = "completions"
)

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
