// Package tracker owns the habit collection and the completion record and
// derives every statistic shown by the TUI, the CLI and the HTTP API.
//
// A Tracker is not safe for concurrent use. Callers persist the result of
// Snapshot after each mutation.
package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/habitd/internal/dates"
	"github.com/sandeepkv93/habitd/internal/model"
)

var ErrHabitNotFound = errors.New("tracker: habit not found")

// Snapshot is the persisted shape of the tracker state.
type Snapshot struct {
	Habits      []model.Habit `json:"habits"`
	Completions Completions   `json:"completions"`
}

func (s Snapshot) Clone() Snapshot {
	habits := make([]model.Habit, 0, len(s.Habits))
	for _, h := range s.Habits {
		habits = append(habits, h.Clone())
	}
	completions := s.Completions.Clone()
	return Snapshot{Habits: habits, Completions: completions}
}

type Tracker struct {
	habits      []model.Habit
	completions Completions
	now         func() time.Time
	loc         *time.Location
	newID       func() string
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) {
		if fn != nil {
			t.newID = fn
		}
	}
}

func New(snap Snapshot, opts ...Option) *Tracker {
	t := &Tracker{
		now:   time.Now,
		loc:   time.Local,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.load(snap)
	return t
}

func (t *Tracker) load(snap Snapshot) {
	cp := snap.Clone()
	for i := range cp.Habits {
		cp.Habits[i].Category = cp.Habits[i].Category.Normalize()
	}
	t.habits = cp.Habits
	t.completions = cp.Completions
}

func (t *Tracker) Location() *time.Location { return t.loc }

// Now is the clock reading in the tracker's location.
func (t *Tracker) Now() time.Time {
	return t.now().In(t.loc)
}

// Today is local midnight of the current day.
func (t *Tracker) Today() time.Time {
	return dates.Day(t.now().In(t.loc))
}

func (t *Tracker) TodayKey() string {
	return dates.Key(t.Today())
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{Habits: t.habits, Completions: t.completions}.Clone()
}

// Habits returns a copy of the habit collection in insertion order.
func (t *Tracker) Habits() []model.Habit {
	out := make([]model.Habit, 0, len(t.habits))
	for _, h := range t.habits {
		out = append(out, h.Clone())
	}
	return out
}

func (t *Tracker) Habit(id string) (model.Habit, bool) {
	idx := t.indexOf(id)
	if idx < 0 {
		return model.Habit{}, false
	}
	return t.habits[idx].Clone(), true
}

// Find resolves a habit by id, then by case-insensitive name, then by unique
// name prefix.
func (t *Tracker) Find(ref string) (model.Habit, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Habit{}, false
	}
	if h, ok := t.Habit(ref); ok {
		return h, true
	}
	var prefixed []model.Habit
	lower := strings.ToLower(ref)
	for _, h := range t.habits {
		name := strings.ToLower(h.Name)
		if name == lower {
			return h.Clone(), true
		}
		if strings.HasPrefix(name, lower) {
			prefixed = append(prefixed, h)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0].Clone(), true
	}
	return model.Habit{}, false
}

func (t *Tracker) Completions() Completions {
	return t.completions.Clone()
}

func (t *Tracker) indexOf(id string) int {
	for i := range t.habits {
		if t.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// AddHabit validates the habit, assigns a fresh id and creation time and
// appends it.
func (t *Tracker) AddHabit(h model.Habit) (model.Habit, error) {
	if err := h.Validate(); err != nil {
		return model.Habit{}, err
	}
	out := h.Normalized()
	out.ID = t.newID()
	out.CreatedAt = t.now().In(t.loc)
	t.habits = append(t.habits, out)
	return out.Clone(), nil
}

// UpdateHabit replaces the editable fields. Id and creation time are kept.
func (t *Tracker) UpdateHabit(h model.Habit) (model.Habit, error) {
	idx := t.indexOf(h.ID)
	if idx < 0 {
		return model.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, h.ID)
	}
	if err := h.Validate(); err != nil {
		return model.Habit{}, err
	}
	out := h.Normalized()
	out.CreatedAt = t.habits[idx].CreatedAt
	t.habits[idx] = out
	return out.Clone(), nil
}

// DeleteHabit removes the habit and its completions. Unknown ids are a no-op
// and report false.
func (t *Tracker) DeleteHabit(id string) bool {
	idx := t.indexOf(id)
	if idx < 0 {
		return false
	}
	t.habits = append(t.habits[:idx], t.habits[idx+1:]...)
	t.completions.RemoveHabit(id)
	return true
}

// Toggle flips today's completion for the habit and returns the new state.
func (t *Tracker) Toggle(habitID string) (bool, error) {
	if t.indexOf(habitID) < 0 {
		return false, fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if t.completions == nil {
		t.completions = make(Completions)
	}
	return t.completions.Toggle(t.TodayKey(), habitID), nil
}

func (t *Tracker) SetCompletion(habitID string, day time.Time, done bool) error {
	if t.indexOf(habitID) < 0 {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, habitID)
	}
	if t.completions == nil {
		t.completions = make(Completions)
	}
	t.completions.Set(dates.Key(day.In(t.loc)), habitID, done)
	return nil
}

// MarkAllDue marks every habit due today as completed and returns how many
// habits were due.
func (t *Tracker) MarkAllDue() int {
	if t.completions == nil {
		t.completions = make(Completions)
	}
	today := t.Today()
	key := dates.Key(today)
	count := 0
	for _, h := range t.habits {
		if h.IsDue(today) {
			t.completions.Set(key, h.ID, true)
			count++
		}
	}
	return count
}

// Replace swaps the whole state, as done when an import is committed.
func (t *Tracker) Replace(snap Snapshot) {
	if snap.Completions == nil {
		snap.Completions = make(Completions)
	}
	t.load(snap)
}

func (t *Tracker) IsCompleted(habitID string, day time.Time) bool {
	return t.completions.Done(dates.Key(day.In(t.loc)), habitID)
}

func (t *Tracker) IsCompletedToday(habitID string) bool {
	return t.IsCompleted(habitID, t.Today())
}

// DueOn returns the habits scheduled for the given day.
func (t *Tracker) DueOn(day time.Time) []model.Habit {
	day = day.In(t.loc)
	out := make([]model.Habit, 0, len(t.habits))
	for _, h := range t.habits {
		if h.IsDue(day) {
			out = append(out, h.Clone())
		}
	}
	return out
}

func (t *Tracker) TodayHabits() []model.Habit {
	return t.DueOn(t.Today())
}
