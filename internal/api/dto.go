package api

import (
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/shopspring/decimal"
)

// HabitRequest is the body of POST /api/habits and PUT /api/habits/{id}.
type HabitRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Frequency   string           `json:"frequency"`
	CustomDays  []int            `json:"customDays"`
	Target      *decimal.Decimal `json:"target"`
	Unit        string           `json:"unit"`
}

func (r HabitRequest) habit(id string) model.Habit {
	return model.Habit{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Category:    model.Category(r.Category),
		Frequency:   model.Frequency(r.Frequency),
		CustomDays:  r.CustomDays,
		Target:      r.Target,
		Unit:        r.Unit,
	}
}

type ToggleResponse struct {
	HabitID   string `json:"habitId"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type MarkAllResponse struct {
	Date   string `json:"date"`
	Marked int    `json:"marked"`
}

type TodayResponse struct {
	Date     string               `json:"date"`
	Progress tracker.Progress     `json:"progress"`
	Habits   []tracker.HabitStats `json:"habits"`
	Recent   []tracker.Activity   `json:"recent"`
}

type CalendarResponse struct {
	Year  int                   `json:"year"`
	Month int                   `json:"month"`
	Days  []tracker.CalendarDay `json:"days"`
}

type ImportResponse struct {
	Habits          int  `json:"habits"`
	CompletionDates int  `json:"completionDates"`
	Applied         bool `json:"applied"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
