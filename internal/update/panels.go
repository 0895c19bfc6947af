package update

import (
	"fmt"

	"github.com/sandeepkv93/habitd/internal/dates"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) habitRow(h model.Habit, selected bool) views.HabitRowData {
	return views.HabitRowData{
		ID:       h.ID,
		Name:     h.Name,
		Icon:     h.Category.Icon(),
		Color:    h.Category.Color(),
		Category: h.Category.Label(),
		Schedule: h.ScheduleText(),
		Target:   h.TargetText(),
		Streak:   m.tracker.CurrentStreak(h.ID),
		Rate:     m.tracker.CompletionRate(h.ID),
		Due:      h.IsDue(m.tracker.Today()),
		Done:     m.tracker.IsCompletedToday(h.ID),
		Selected: selected,
	}
}

func (m Model) rows() []views.HabitRowData {
	habits := m.visibleHabits()
	out := make([]views.HabitRowData, 0, len(habits))
	for i, h := range habits {
		out = append(out, m.habitRow(h, i == m.Cursor))
	}
	return out
}

func (m Model) renderDashboard() string {
	p := m.tracker.TodayProgress()
	recent := m.tracker.RecentActivity()
	activity := make([]views.ActivityData, 0, len(recent))
	for _, a := range recent {
		activity = append(activity, views.ActivityData{
			Label:     a.Label,
			Name:      a.HabitName,
			Completed: a.Kind == tracker.ActivityCompleted,
		})
	}
	return views.RenderDashboard(views.DashboardData{
		Date:         m.tracker.TodayKey(),
		Due:          p.Due,
		Completed:    p.Completed,
		Percent:      p.Percent,
		ProgressView: m.todayBar.ViewAs(float64(p.Percent) / 100),
		Habits:       m.rows(),
		Recent:       activity,
		Weekly:       m.tracker.WeeklyRollup(),
	})
}

func (m Model) renderHabitsPanel() string {
	confirm := ""
	if m.ConfirmDelete != "" {
		if h, ok := m.tracker.Habit(m.ConfirmDelete); ok {
			confirm = h.Name
		}
	}
	return views.RenderHabitsPanel(views.HabitsPanelData{Habits: m.rows(), ConfirmDelete: confirm})
}

func (m Model) renderHabitDetail() string {
	h, ok := m.selectedHabit()
	if !ok {
		return views.RenderHabitDetail(views.HabitDetailData{})
	}
	data := views.HabitDetailData{
		Habit:       m.habitRow(h, true),
		Description: h.Description,
	}
	if !h.CreatedAt.IsZero() {
		created := h.CreatedAt.In(m.tracker.Location())
		data.Created = created.Format("2006-01-02")
		data.DaysOld = dates.DaysBetween(created, m.tracker.Today())
	}
	return views.RenderHabitDetail(data)
}

func (m Model) renderAnalytics() string {
	s := m.tracker.Summary()
	monthly := make([]int, 0, len(s.Monthly))
	for _, p := range s.Monthly {
		monthly = append(monthly, p.Percent)
	}
	data := views.AnalyticsData{
		LongestStreak: s.LongestCurrentStreak,
		OverallRate:   s.OverallCompletionRate,
		TrackingDays:  s.TotalTrackingDays,
		Monthly:       monthly,
	}
	if len(s.Monthly) > 0 {
		data.MonthlyFrom = s.Monthly[0].Label
		data.MonthlyTo = s.Monthly[len(s.Monthly)-1].Label
	}
	for _, c := range s.Categories {
		data.Categories = append(data.Categories, views.CategoryData{
			Label: c.Label,
			Icon:  c.Category.Icon(),
			Color: c.Category.Color(),
			Count: c.Count,
		})
	}
	for _, b := range s.Streaks {
		data.Streaks = append(data.Streaks, views.StreakData{Label: b.Label, Streak: b.Streak})
	}
	return views.RenderAnalytics(data)
}

func (m Model) renderCalendar() string {
	grid := m.tracker.CalendarMonth(m.Calendar.Year, m.Calendar.Month)
	cells := make([]views.CalendarCellData, 0, len(grid))
	for _, d := range grid {
		cells = append(cells, views.CalendarCellData{
			Day:     d.Day,
			InMonth: d.InMonth,
			IsToday: d.IsToday,
			Due:     d.Due,
			Percent: d.Percent,
		})
	}
	return views.RenderCalendar(views.CalendarData{
		Title: fmt.Sprintf("%s %d", m.Calendar.Month, m.Calendar.Year),
		Cells: cells,
	})
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	return views.RenderNotification(n.Level, n.Body)
}
