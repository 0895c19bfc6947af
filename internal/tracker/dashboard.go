package tracker

import (
	"time"

	"github.com/sandeepkv93/habitd/internal/dates"
)

type Progress struct {
	Due       int `json:"due"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

type ActivityKind string

const (
	ActivityCompleted ActivityKind = "completed"
	ActivityMissed    ActivityKind = "missed"
)

type Activity struct {
	HabitID   string       `json:"habitId"`
	HabitName string       `json:"habitName"`
	Kind      ActivityKind `json:"kind"`
	Date      string       `json:"date"`
	Label     string       `json:"label"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Day       int    `json:"day"`
	InMonth   bool   `json:"inMonth"`
	IsToday   bool   `json:"isToday"`
	Due       int    `json:"due"`
	Completed int    `json:"completed"`
	Percent   int    `json:"percent"`
}

// CalendarCells is the size of a six-week month grid.
const CalendarCells = 42

func (t *Tracker) TodayProgress() Progress {
	return t.progressOn(t.Today())
}

func (t *Tracker) progressOn(day time.Time) Progress {
	due := len(t.DueOn(day))
	done := t.completedDueCount(day)
	return Progress{Due: due, Completed: done, Percent: Percent(done, due)}
}

// RecentActivity lists completed and missed due habits over the last week,
// newest day first, for days that have any recorded entry.
func (t *Tracker) RecentActivity() []Activity {
	today := t.Today()
	out := make([]Activity, 0, RecentActivityMax)
	for i := 0; i < recentActivityDay; i++ {
		day := dates.AddDays(today, -i)
		key := dates.Key(day)
		if !t.completions.HasEntry(key) {
			continue
		}
		for _, h := range t.habits {
			if !h.IsDue(day) {
				continue
			}
			kind := ActivityMissed
			if t.completions.Done(key, h.ID) {
				kind = ActivityCompleted
			}
			out = append(out, Activity{
				HabitID:   h.ID,
				HabitName: h.Name,
				Kind:      kind,
				Date:      key,
				Label:     day.Format("Jan 2"),
			})
			if len(out) == RecentActivityMax {
				return out
			}
		}
	}
	return out
}

// CalendarMonth builds the 42-cell heatmap grid for a month, starting on the
// Sunday on or before the first.
func (t *Tracker) CalendarMonth(year int, month time.Month) []CalendarDay {
	start := dates.MonthGridStart(year, month, t.loc)
	today := t.Today()
	out := make([]CalendarDay, 0, CalendarCells)
	for i := 0; i < CalendarCells; i++ {
		day := dates.AddDays(start, i)
		p := t.progressOn(day)
		key := dates.Key(day)
		out = append(out, CalendarDay{
			Date:      key,
			Day:       day.Day(),
			InMonth:   day.Month() == month,
			IsToday:   dates.SameDay(day, today),
			Due:       p.Due,
			Completed: p.Completed,
			Percent:   p.Percent,
		})
	}
	return out
}
