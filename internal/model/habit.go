package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNameRequired       = errors.New("model: habit name is required")
	ErrInvalidFrequency   = errors.New("model: invalid habit frequency")
	ErrInvalidWeekday     = errors.New("model: invalid weekday")
	ErrCustomDaysRequired = errors.New("model: custom frequency requires at least one weekday")
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return true
	default:
		return false
	}
}

// Habit mirrors the JSON records of the habits storage entry and backup files.
type Habit struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    Category         `json:"category"`
	Frequency   Frequency        `json:"frequency"`
	CustomDays  []int            `json:"customDays,omitempty"`
	Target      *decimal.Decimal `json:"target,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// MarshalJSON writes target as a bare JSON number, as backup files carry it.
// Decoding goes through decimal and accepts numbers and quoted strings.
func (h Habit) MarshalJSON() ([]byte, error) {
	type fields Habit
	out := struct {
		fields
		Target json.Number `json:"target,omitempty"`
	}{fields: fields(h)}
	if h.Target != nil {
		out.Target = json.Number(h.Target.String())
	}
	return json.Marshal(out)
}

// Validate checks a habit coming from a create or edit form. Loaded and
// imported records are not validated.
func (h Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return ErrNameRequired
	}
	if !h.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, h.Frequency)
	}
	for _, d := range h.CustomDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWeekday, d)
		}
	}
	if h.Frequency == FrequencyCustom && len(h.CustomDays) == 0 {
		return ErrCustomDaysRequired
	}
	return nil
}

// Normalized returns a copy with a known category, a trimmed name and
// custom days that are sorted, unique, and present only for custom habits.
func (h Habit) Normalized() Habit {
	out := h
	out.Name = strings.TrimSpace(h.Name)
	out.Description = strings.TrimSpace(h.Description)
	out.Unit = strings.TrimSpace(h.Unit)
	out.Category = h.Category.Normalize()
	if h.Frequency != FrequencyCustom {
		out.CustomDays = nil
		return out
	}
	seen := make(map[int]bool, len(h.CustomDays))
	days := make([]int, 0, len(h.CustomDays))
	for _, d := range h.CustomDays {
		if seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Ints(days)
	out.CustomDays = days
	return out
}

// TargetText renders the informational goal, e.g. "8 glasses".
func (h Habit) TargetText() string {
	if h.Target == nil {
		return ""
	}
	return strings.TrimSpace(h.Target.String() + " " + h.Unit)
}

// ScheduleText describes the frequency for list views.
func (h Habit) ScheduleText() string {
	switch h.Frequency {
	case FrequencyDaily:
		return "daily"
	case FrequencyWeekly:
		return "weekly (Mon)"
	case FrequencyCustom:
		names := make([]string, 0, len(h.CustomDays))
		for _, d := range h.CustomDays {
			if d >= 0 && d <= 6 {
				names = append(names, time.Weekday(d).String()[:3])
			}
		}
		return "custom (" + strings.Join(names, ",") + ")"
	default:
		return string(h.Frequency)
	}
}

func (h Habit) Clone() Habit {
	out := h
	if h.CustomDays != nil {
		out.CustomDays = append([]int(nil), h.CustomDays...)
	}
	if h.Target != nil {
		v := *h.Target
		out.Target = &v
	}
	return out
}
