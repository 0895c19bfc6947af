package tracker

import (
	"time"

	"github.com/sandeepkv93/habitd/internal/dates"
	"github.com/sandeepkv93/habitd/internal/model"
)

const (
	MonthlyWindow     = 30
	streakLabelRunes  = 15
	RecentActivityMax = 10
	recentActivityDay = 7
)

type CategoryCount struct {
	Category model.Category `json:"category"`
	Label    string         `json:"label"`
	Count    int            `json:"count"`
}

type DayPoint struct {
	Date    string `json:"date"`
	Label   string `json:"label"`
	Percent int    `json:"percent"`
}

type StreakBar struct {
	HabitID string `json:"habitId"`
	Label   string `json:"label"`
	Streak  int    `json:"streak"`
}

type HabitStats struct {
	Habit          model.Habit `json:"habit"`
	CurrentStreak  int         `json:"currentStreak"`
	CompletionRate int         `json:"completionRate"`
	DoneToday      bool        `json:"doneToday"`
	DueToday       bool        `json:"dueToday"`
}

// Summary bundles every aggregate shown on the analytics tab.
type Summary struct {
	LongestCurrentStreak  int             `json:"longestCurrentStreak"`
	OverallCompletionRate int             `json:"overallCompletionRate"`
	TotalTrackingDays     int             `json:"totalTrackingDays"`
	Today                 Progress        `json:"today"`
	Categories            []CategoryCount `json:"categories"`
	Weekly                [7]int          `json:"weekly"`
	Monthly               []DayPoint      `json:"monthly"`
	Streaks               []StreakBar     `json:"streaks"`
	Habits                []HabitStats    `json:"habits"`
}

func (t *Tracker) LongestCurrentStreak() int {
	longest := 0
	for _, h := range t.habits {
		if s := t.streakFor(h); s > longest {
			longest = s
		}
	}
	return longest
}

// OverallCompletionRate is the unweighted mean of per-habit rates.
func (t *Tracker) OverallCompletionRate() int {
	rates := make([]int, 0, len(t.habits))
	for _, h := range t.habits {
		rates = append(rates, t.rateFor(h))
	}
	return meanRounded(rates)
}

// TotalTrackingDays counts dates with any recorded entry.
func (t *Tracker) TotalTrackingDays() int {
	return len(t.completions)
}

// CategoryDistribution counts habits per category in display order, omitting
// empty categories.
func (t *Tracker) CategoryDistribution() []CategoryCount {
	counts := make(map[model.Category]int)
	for _, h := range t.habits {
		counts[h.Category.Normalize()]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for _, c := range model.Categories() {
		if n := counts[c]; n > 0 {
			out = append(out, CategoryCount{Category: c, Label: c.Label(), Count: n})
		}
	}
	return out
}

// WeeklyRollup counts habits both due and completed for each day of the
// current Monday-based week.
func (t *Tracker) WeeklyRollup() [7]int {
	var out [7]int
	monday := dates.MondayOf(t.Today())
	for i := 0; i < 7; i++ {
		out[i] = t.completedDueCount(dates.AddDays(monday, i))
	}
	return out
}

// MonthlyRollup returns the completion percentage of due habits for each of
// the trailing 30 days, oldest first.
func (t *Tracker) MonthlyRollup() []DayPoint {
	today := t.Today()
	out := make([]DayPoint, 0, MonthlyWindow)
	for i := MonthlyWindow - 1; i >= 0; i-- {
		day := dates.AddDays(today, -i)
		due := len(t.DueOn(day))
		out = append(out, DayPoint{
			Date:    dates.Key(day),
			Label:   day.Format("2"),
			Percent: Percent(t.completedDueCount(day), due),
		})
	}
	return out
}

func (t *Tracker) StreakChart() []StreakBar {
	out := make([]StreakBar, 0, len(t.habits))
	for _, h := range t.habits {
		out = append(out, StreakBar{HabitID: h.ID, Label: truncateLabel(h.Name), Streak: t.streakFor(h)})
	}
	return out
}

func (t *Tracker) HabitStats() []HabitStats {
	today := t.Today()
	out := make([]HabitStats, 0, len(t.habits))
	for _, h := range t.habits {
		out = append(out, t.statsFor(h, today))
	}
	return out
}

func (t *Tracker) StatsFor(habitID string) (HabitStats, bool) {
	i := t.indexOf(habitID)
	if i < 0 {
		return HabitStats{}, false
	}
	return t.statsFor(t.habits[i], t.Today()), true
}

func (t *Tracker) statsFor(h model.Habit, today time.Time) HabitStats {
	return HabitStats{
		Habit:          h.Clone(),
		CurrentStreak:  t.streakFor(h),
		CompletionRate: t.rateFor(h),
		DoneToday:      t.completions.Done(dates.Key(today), h.ID),
		DueToday:       h.IsDue(today),
	}
}

func (t *Tracker) Summary() Summary {
	return Summary{
		LongestCurrentStreak:  t.LongestCurrentStreak(),
		OverallCompletionRate: t.OverallCompletionRate(),
		TotalTrackingDays:     t.TotalTrackingDays(),
		Today:                 t.TodayProgress(),
		Categories:            t.CategoryDistribution(),
		Weekly:                t.WeeklyRollup(),
		Monthly:               t.MonthlyRollup(),
		Streaks:               t.StreakChart(),
		Habits:                t.HabitStats(),
	}
}

func (t *Tracker) completedDueCount(day time.Time) int {
	key := dates.Key(day)
	n := 0
	for _, h := range t.habits {
		if h.IsDue(day) && t.completions.Done(key, h.ID) {
			n++
		}
	}
	return n
}

func truncateLabel(name string) string {
	r := []rune(name)
	if len(r) <= streakLabelRunes {
		return name
	}
	return string(r[:streakLabelRunes]) + "..."
}
