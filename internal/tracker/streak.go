package tracker

import (
	"github.com/sandeepkv93/habitd/internal/dates"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/shopspring/decimal"
)

// StreakWindow bounds the backward walk. Longer streaks are reported as
// StreakWindow.
const StreakWindow = 365

// CurrentStreak counts consecutive completed due days walking back from
// today. Days on which the habit is not due are skipped; the first due day
// without a completion ends the walk.
func (t *Tracker) CurrentStreak(habitID string) int {
	idx := t.indexOf(habitID)
	if idx < 0 {
		return 0
	}
	return t.streakFor(t.habits[idx])
}

func (t *Tracker) streakFor(h model.Habit) int {
	today := t.Today()
	streak := 0
	for i := 0; i < StreakWindow; i++ {
		day := dates.AddDays(today, -i)
		if !h.IsDue(day) {
			continue
		}
		if !t.completions.Done(dates.Key(day), h.ID) {
			break
		}
		streak++
	}
	return streak
}

// CompletionRate is the rounded percentage of due days, from the creation
// date through today, that were completed. It is 0 when nothing was due.
func (t *Tracker) CompletionRate(habitID string) int {
	idx := t.indexOf(habitID)
	if idx < 0 {
		return 0
	}
	return t.rateFor(t.habits[idx])
}

func (t *Tracker) rateFor(h model.Habit) int {
	if h.CreatedAt.IsZero() {
		return 0
	}
	today := t.Today()
	total, completed := 0, 0
	for day := dates.Day(h.CreatedAt.In(t.loc)); !day.After(today); day = dates.AddDays(day, 1) {
		if !h.IsDue(day) {
			continue
		}
		total++
		if t.completions.Done(dates.Key(day), h.ID) {
			completed++
		}
	}
	return Percent(completed, total)
}

// Percent returns round(100*part/whole), rounding halves up, or 0 when whole
// is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	v := decimal.NewFromInt(int64(part)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(whole))).
		Round(0)
	return int(v.IntPart())
}

// meanRounded averages integer percentages and rounds halves up.
func meanRounded(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromInt(int64(v)))
	}
	return int(sum.Div(decimal.NewFromInt(int64(len(values)))).Round(0).IntPart())
}
