package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestHabitValidateSuccess(t *testing.T) {
	h := Habit{
		ID:        "habit-1",
		Name:      "Read for 30 minutes",
		Category:  CategoryLearning,
		Frequency: FrequencyDaily,
		CreatedAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("expected valid habit, got error: %v", err)
	}
}

func TestHabitValidateErrors(t *testing.T) {
	h := Habit{Name: "  ", Frequency: FrequencyDaily}
	if err := h.Validate(); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("expected ErrNameRequired, got: %v", err)
	}

	h.Name = "Exercise"
	h.Frequency = Frequency("hourly")
	if err := h.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Fatalf("expected ErrInvalidFrequency, got: %v", err)
	}

	h.Frequency = FrequencyCustom
	if err := h.Validate(); !errors.Is(err, ErrCustomDaysRequired) {
		t.Fatalf("expected ErrCustomDaysRequired, got: %v", err)
	}

	h.CustomDays = []int{1, 7}
	if err := h.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got: %v", err)
	}
}

func TestHabitNormalized(t *testing.T) {
	h := Habit{
		Name:       " Exercise ",
		Category:   Category("Fitness"),
		Frequency:  FrequencyCustom,
		CustomDays: []int{5, 1, 3, 1},
	}
	got := h.Normalized()
	if got.Name != "Exercise" || got.Category != CategoryOther {
		t.Fatalf("unexpected normalized habit: %+v", got)
	}
	if len(got.CustomDays) != 3 || got.CustomDays[0] != 1 || got.CustomDays[2] != 5 {
		t.Fatalf("unexpected custom days: %v", got.CustomDays)
	}

	h.Frequency = FrequencyDaily
	if got := h.Normalized(); got.CustomDays != nil {
		t.Fatalf("expected custom days cleared for daily habit, got %v", got.CustomDays)
	}
}

func TestCategoryLookupsAreExhaustive(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Fatalf("category %q should be valid", c)
		}
		if c.Label() == "" || c.Icon() == "" || c.Color() == "" {
			t.Fatalf("category %q missing display data", c)
		}
		if seen[c.Color()] {
			t.Fatalf("duplicate colour for %q", c)
		}
		seen[c.Color()] = true
	}
	unknown := Category("gardening")
	if unknown.Label() != "Other" || unknown.Color() != CategoryOther.Color() {
		t.Fatalf("unknown category should fall back to other: %s", unknown.Label())
	}
	if Category("HEALTH").Normalize() != CategoryHealth {
		t.Fatal("expected case-insensitive normalization")
	}
}

func TestHabitJSONFieldNames(t *testing.T) {
	raw := []byte(`{"id":"sample1","name":"Drink water","category":"health","frequency":"custom",
		"customDays":[1,3,5],"target":8,"unit":"glasses","createdAt":"2024-01-01T09:00:00Z"}`)
	var h Habit
	if err := json.Unmarshal(raw, &h); err != nil {
		t.Fatalf("unmarshal habit: %v", err)
	}
	if h.ID != "sample1" || len(h.CustomDays) != 3 || h.Unit != "glasses" {
		t.Fatalf("unexpected decoded habit: %+v", h)
	}
	if h.Target == nil || !h.Target.Equal(decimal.NewFromInt(8)) {
		t.Fatalf("unexpected target: %v", h.Target)
	}
	if h.TargetText() != "8 glasses" {
		t.Fatalf("unexpected target text: %q", h.TargetText())
	}
	if h.ScheduleText() != "custom (Mon,Wed,Fri)" {
		t.Fatalf("unexpected schedule text: %q", h.ScheduleText())
	}
}

func TestHabitMarshalsTargetAsNumber(t *testing.T) {
	target := decimal.RequireFromString("2.5")
	h := Habit{ID: "h", Name: "Walk", Category: CategoryHealth, Frequency: FrequencyDaily,
		Target: &target, Unit: "km", CreatedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	raw, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal habit: %v", err)
	}
	if !strings.Contains(string(raw), `"target":2.5`) {
		t.Fatalf("expected numeric target, got %s", raw)
	}
	if strings.Count(string(raw), `"target"`) != 1 {
		t.Fatalf("target written more than once: %s", raw)
	}

	var back Habit
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal habit: %v", err)
	}
	if back.Target == nil || !back.Target.Equal(target) || back.Unit != "km" || !back.CreatedAt.Equal(h.CreatedAt) {
		t.Fatalf("unexpected decoded habit: %+v", back)
	}

	h.Target = nil
	raw, err = json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal habit without target: %v", err)
	}
	if strings.Contains(string(raw), "target") {
		t.Fatalf("empty target should be omitted: %s", raw)
	}
}

func TestHabitCloneIsDeep(t *testing.T) {
	target := decimal.NewFromInt(30)
	h := Habit{ID: "h", CustomDays: []int{1}, Target: &target}
	c := h.Clone()
	c.CustomDays[0] = 4
	*c.Target = decimal.NewFromInt(1)
	if h.CustomDays[0] != 1 || !h.Target.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("clone shares memory with original: %+v", h)
	}
}
