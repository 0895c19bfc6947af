package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

// BatchRepository can write several entries atomically.
type BatchRepository interface {
	Repository
	PutAll(ctx context.Context, entries map[string]string) error
}

// StateStore persists a tracker snapshot as the two entries "habits" and
// "completions".
type StateStore struct {
	repo BatchRepository
}

func NewStateStore(repo BatchRepository) *StateStore {
	return &StateStore{repo: repo}
}

// Load reads the stored snapshot. found is false when no habits entry has
// ever been written, which callers use to decide on first-run seeding. A
// missing completions entry loads as empty.
func (s *StateStore) Load(ctx context.Context) (snap tracker.Snapshot, found bool, err error) {
	snap = tracker.Snapshot{Habits: []model.Habit{}, Completions: tracker.Completions{}}

	habits, err := s.repo.Get(ctx, KeyHabits)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return snap, false, fmt.Errorf("load habits: %w", err)
	default:
		found = true
		if err := json.Unmarshal([]byte(habits.Value), &snap.Habits); err != nil {
			return snap, found, fmt.Errorf("decode habits: %w", err)
		}
	}

	completions, err := s.repo.Get(ctx, KeyCompletions)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return snap, found, fmt.Errorf("load completions: %w", err)
	default:
		if err := json.Unmarshal([]byte(completions.Value), &snap.Completions); err != nil {
			return snap, found, fmt.Errorf("decode completions: %w", err)
		}
	}
	if snap.Habits == nil {
		snap.Habits = []model.Habit{}
	}
	if snap.Completions == nil {
		snap.Completions = tracker.Completions{}
	}
	return snap, found, nil
}

// Save writes both entries in one transaction.
func (s *StateStore) Save(ctx context.Context, snap tracker.Snapshot) error {
	habits := snap.Habits
	if habits == nil {
		habits = []model.Habit{}
	}
	completions := snap.Completions
	if completions == nil {
		completions = tracker.Completions{}
	}
	habitsJSON, err := json.Marshal(habits)
	if err != nil {
		return fmt.Errorf("encode habits: %w", err)
	}
	completionsJSON, err := json.Marshal(completions)
	if err != nil {
		return fmt.Errorf("encode completions: %w", err)
	}
	return s.repo.PutAll(ctx, map[string]string{
		KeyHabits:      string(habitsJSON),
		KeyCompletions: string(completionsJSON),
	})
}
