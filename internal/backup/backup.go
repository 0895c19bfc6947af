// Package backup reads and writes the portable JSON backup format:
// {"habits": [...], "completions": {...}, "exportDate": "..."}.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
)

var (
	ErrNotJSON       = errors.New("backup: file is not valid JSON")
	ErrMissingFields = errors.New("backup: habits and completions fields are required")
	ErrMalformed     = errors.New("backup: habits or completions have an unexpected shape")
)

const filenamePrefix = "habit-tracker-data-"

type Payload struct {
	Habits      []model.Habit       `json:"habits"`
	Completions tracker.Completions `json:"completions"`
	ExportDate  string              `json:"exportDate,omitempty"`
}

func (p Payload) Snapshot() tracker.Snapshot {
	return tracker.Snapshot{Habits: p.Habits, Completions: p.Completions}.Clone()
}

// Validate checks an import payload without touching any state. Both fields
// must be present and non-null; the individual records are not checked beyond
// decoding, and categories are normalised.
func Validate(raw []byte) (Payload, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	obj, ok := doc.(map[string]any)
	if !ok || !present(obj["habits"]) || !present(obj["completions"]) {
		return Payload{}, ErrMissingFields
	}

	var out Payload
	if err := json.Unmarshal(raw, &out); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if out.Habits == nil {
		out.Habits = []model.Habit{}
	}
	if out.Completions == nil {
		out.Completions = tracker.Completions{}
	}
	for i := range out.Habits {
		out.Habits[i].Category = out.Habits[i].Category.Normalize()
	}
	return out, nil
}

// present mirrors a truthiness check: null, false, 0 and "" count as absent.
func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	default:
		return true
	}
}

// Load reads and validates a backup file.
func Load(path string) (Payload, error) {
	raw, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return Payload{}, fmt.Errorf("read backup: %w", err)
	}
	return Validate(raw)
}

// Export renders the snapshot as indented JSON with sorted map keys.
func Export(snap tracker.Snapshot, now time.Time) ([]byte, error) {
	p := Payload{
		Habits:      snap.Habits,
		Completions: snap.Completions,
		ExportDate:  now.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
	if p.Habits == nil {
		p.Habits = []model.Habit{}
	}
	if p.Completions == nil {
		p.Completions = tracker.Completions{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return buf.Bytes(), nil
}

func Filename(now time.Time) string {
	return filenamePrefix + now.Format("2006-01-02") + ".json"
}

// WriteFile exports the snapshot into dir and returns the written path.
func WriteFile(dir string, snap tracker.Snapshot, now time.Time) (string, error) {
	payload, err := Export(snap, now)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(now))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
