package views

import (
	"strings"
	"testing"
)

func TestSparklineAndBar(t *testing.T) {
	if got := Sparkline([]int{0, 50, 100, 150, -5}); got != "▁▄██▁" {
		t.Fatalf("unexpected sparkline: %q", got)
	}
	if got := Bar(5, 10, 4); got != "██░░" {
		t.Fatalf("unexpected bar: %q", got)
	}
	if got := Bar(1, 100, 4); got != "█░░░" {
		t.Fatalf("small non-zero values should show one cell: %q", got)
	}
	if got := Bar(0, 0, 3); got != "░░░" {
		t.Fatalf("unexpected empty bar: %q", got)
	}
}

func TestRenderDashboardContainsSections(t *testing.T) {
	out := RenderDashboard(DashboardData{
		Date:      "2024-01-07",
		Due:       2,
		Completed: 1,
		Percent:   50,
		Habits:    []HabitRowData{{ID: "a", Name: "Read", Icon: "📚", Done: true, Streak: 3, Selected: true}},
		Recent:    []ActivityData{{Label: "Jan 7", Name: "Read", Completed: true}},
		Weekly:    [7]int{1, 2, 0, 0, 0, 0, 1},
	})
	for _, want := range []string{"today: 2024-01-07", "1/2 (50%)", "Read", "Mon", "Sun", "recent activity", "completed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCalendarGrid(t *testing.T) {
	cells := make([]CalendarCellData, 42)
	for i := range cells {
		cells[i] = CalendarCellData{Day: i%31 + 1, InMonth: true}
	}
	out := RenderCalendar(CalendarData{Title: "January 2024", Cells: cells})
	if !strings.Contains(out, "January 2024") || !strings.Contains(out, "Sun Mon Tue") {
		t.Fatalf("unexpected calendar output:\n%s", out)
	}
}

func TestRenderHabitsPanelConfirm(t *testing.T) {
	out := RenderHabitsPanel(HabitsPanelData{
		Habits:        []HabitRowData{{ID: "a", Name: "Run", Category: "Health", Schedule: "daily", Rate: 40}},
		ConfirmDelete: "Run",
	})
	if !strings.Contains(out, `delete "Run"`) || !strings.Contains(out, "rate 40%") {
		t.Fatalf("unexpected habits panel:\n%s", out)
	}
	if empty := RenderHabitsPanel(HabitsPanelData{}); !strings.Contains(empty, "no habits yet") {
		t.Fatalf("unexpected empty panel: %s", empty)
	}
}

func TestRenderHabitDetailAge(t *testing.T) {
	row := HabitRowData{ID: "h1", Name: "Read", Category: "Learning", Schedule: "daily"}
	cases := map[int]string{0: "(today)", 1: "(yesterday)", 12: "(12 days ago)"}
	for days, want := range cases {
		out := RenderHabitDetail(HabitDetailData{Habit: row, Created: "2024-01-01", DaysOld: days})
		if !strings.Contains(out, "created: 2024-01-01 "+want) {
			t.Fatalf("days=%d: expected %q in %q", days, want, out)
		}
	}
	if out := RenderHabitDetail(HabitDetailData{Habit: row}); strings.Contains(out, "created:") {
		t.Fatalf("missing creation date should not render: %q", out)
	}
}
