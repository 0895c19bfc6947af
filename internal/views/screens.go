package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

type HabitRowData struct {
	ID       string
	Name     string
	Icon     string
	Color    string
	Category string
	Schedule string
	Target   string
	Streak   int
	Rate     int
	Due      bool
	Done     bool
	Selected bool
}

type ActivityData struct {
	Label     string
	Name      string
	Completed bool
}

type DashboardData struct {
	Date         string
	Due          int
	Completed    int
	Percent      int
	ProgressView string
	Habits       []HabitRowData
	Recent       []ActivityData
	Weekly       [7]int
}

type HabitsPanelData struct {
	Habits        []HabitRowData
	ConfirmDelete string
}

type HabitDetailData struct {
	Habit       HabitRowData
	Description string
	Created     string
	DaysOld     int
}

type CategoryData struct {
	Label string
	Icon  string
	Color string
	Count int
}

type StreakData struct {
	Label  string
	Streak int
}

type AnalyticsData struct {
	LongestStreak int
	OverallRate   int
	TrackingDays  int
	Monthly       []int
	MonthlyFrom   string
	MonthlyTo     string
	Categories    []CategoryData
	Streaks       []StreakData
}

type CalendarCellData struct {
	Day     int
	InMonth bool
	IsToday bool
	Due     int
	Percent int
}

type CalendarData struct {
	Title string
	Cells []CalendarCellData
}

type FormFieldData struct {
	Label   string
	Value   string
	Focused bool
}

type FormData struct {
	Title  string
	Fields []FormFieldData
	Error  string
}

type ImportPromptData struct {
	PathView string
	Confirm  bool
	Summary  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderDashboard(data DashboardData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("today: %s\n", data.Date))
	b.WriteString(fmt.Sprintf("progress: %s %d/%d (%d%%)\n", data.ProgressView, data.Completed, data.Due, data.Percent))
	b.WriteString("\ndue today:\n")
	if len(data.Habits) == 0 {
		b.WriteString(mutedStyle.Render("  no habits due today") + "\n")
	}
	for _, h := range data.Habits {
		b.WriteString(renderHabitLine(h) + "\n")
	}

	b.WriteString("\nthis week:\n")
	max := 0
	for _, v := range data.Weekly {
		if v > max {
			max = v
		}
	}
	for i, v := range data.Weekly {
		b.WriteString(fmt.Sprintf("  %s %s %d\n", weekdayLabels[i], Bar(v, max, 20), v))
	}

	b.WriteString("\nrecent activity:\n")
	if len(data.Recent) == 0 {
		b.WriteString(mutedStyle.Render("  nothing recorded this week"))
	}
	for _, a := range data.Recent {
		mark := missedStyle.Render("✗ missed")
		if a.Completed {
			mark = doneStyle.Render("✓ completed")
		}
		b.WriteString(fmt.Sprintf("  %-6s %s %s\n", a.Label, mark, a.Name))
	}
	return strings.TrimSpace(b.String())
}

func RenderHabitsPanel(data HabitsPanelData) string {
	var b strings.Builder
	b.WriteString("habits:\n")
	b.WriteString("actions: [n]new [e]edit [d]delete [space]toggle today\n")
	if len(data.Habits) == 0 {
		b.WriteString(mutedStyle.Render("\n(no habits yet, press n to add one)"))
		return b.String()
	}
	for _, h := range data.Habits {
		b.WriteString(renderHabitLine(h))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("\n      %s | %s | rate %d%%", h.Category, h.Schedule, h.Rate)))
		b.WriteString("\n")
	}
	if data.ConfirmDelete != "" {
		b.WriteString("\n" + errorStyle.Render(fmt.Sprintf("delete %q and all its history? [y/n]", data.ConfirmDelete)))
	}
	return strings.TrimSpace(b.String())
}

func RenderHabitDetail(data HabitDetailData) string {
	h := data.Habit
	if h.ID == "" {
		return "details:\n(no selection)"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(h.Color)).Render(h.Icon+" "+h.Name) + "\n")
	b.WriteString(fmt.Sprintf("category: %s\nschedule: %s\n", h.Category, h.Schedule))
	if h.Target != "" {
		b.WriteString(fmt.Sprintf("target: %s\n", h.Target))
	}
	b.WriteString(fmt.Sprintf("streak: %d | rate: %d%%\n", h.Streak, h.Rate))
	if data.Created != "" {
		b.WriteString(fmt.Sprintf("created: %s (%s)\n", data.Created, ageText(data.DaysOld)))
	}
	if desc := RenderMarkdown(data.Description); desc != "" {
		b.WriteString("\n" + desc)
	}
	return strings.TrimSpace(b.String())
}

func ageText(days int) string {
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func RenderAnalytics(data AnalyticsData) string {
	var b strings.Builder
	b.WriteString("analytics:\n")
	b.WriteString(fmt.Sprintf("longest streak: %d days\n", data.LongestStreak))
	b.WriteString(fmt.Sprintf("completion rate: %d%%\n", data.OverallRate))
	b.WriteString(fmt.Sprintf("tracking days: %d\n", data.TrackingDays))

	b.WriteString("\nlast 30 days:\n")
	b.WriteString("  " + Sparkline(data.Monthly) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s .. %s", data.MonthlyFrom, data.MonthlyTo)) + "\n")

	b.WriteString("\ncategories:\n")
	total := 0
	for _, c := range data.Categories {
		total += c.Count
	}
	if len(data.Categories) == 0 {
		b.WriteString(mutedStyle.Render("  (none)") + "\n")
	}
	for _, c := range data.Categories {
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(Bar(c.Count, total, 16))
		b.WriteString(fmt.Sprintf("  %s %-13s %s %d\n", c.Icon, c.Label, bar, c.Count))
	}

	b.WriteString("\nstreaks:\n")
	max := 0
	for _, s := range data.Streaks {
		if s.Streak > max {
			max = s.Streak
		}
	}
	if len(data.Streaks) == 0 {
		b.WriteString(mutedStyle.Render("  (none)"))
	}
	for _, s := range data.Streaks {
		b.WriteString(fmt.Sprintf("  %-18s %s %d\n", s.Label, Bar(s.Streak, max, 16), s.Streak))
	}
	return strings.TrimSpace(b.String())
}

func RenderCalendar(data CalendarData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("calendar: %s\n", data.Title))
	b.WriteString("actions: [h/l] previous/next month\n\n")
	b.WriteString(" Sun Mon Tue Wed Thu Fri Sat\n")
	for i, c := range data.Cells {
		label := fmt.Sprintf("%3d", c.Day)
		style := heat(c.Percent, c.Due)
		if !c.InMonth {
			style = mutedStyle
		}
		if c.IsToday {
			style = style.Underline(true).Bold(true)
		}
		b.WriteString(" " + style.Render(label))
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + mutedStyle.Render("legend: green 100% | yellow ≥50% | amber >0% | red 0% | grey nothing due"))
	return strings.TrimSpace(b.String())
}

func RenderHabitForm(data FormData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	b.WriteString("keys: [tab] next field [←/→] change choice [space] toggle day [enter] save [esc] cancel\n\n")
	for _, f := range data.Fields {
		cursor := " "
		if f.Focused {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-12s %s\n", cursor, f.Label+":", f.Value))
	}
	if data.Error != "" {
		b.WriteString("\n" + errorStyle.Render("error: "+data.Error))
	}
	return strings.TrimSpace(b.String())
}

func RenderImportPrompt(data ImportPromptData) string {
	var b strings.Builder
	b.WriteString("import:\n")
	if !data.Confirm {
		b.WriteString("path to backup file, [enter] validate, [esc] cancel\n")
		b.WriteString(data.PathView)
		return b.String()
	}
	b.WriteString(data.Summary + "\n")
	b.WriteString(errorStyle.Render("this replaces all current habits and history. continue? [y/n]"))
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderHabitLine(h HabitRowData) string {
	cursor := " "
	if h.Selected {
		cursor = ">"
	}
	check := "[ ]"
	if h.Done {
		check = doneStyle.Render("[x]")
	}
	name := lipgloss.NewStyle().Foreground(lipgloss.Color(h.Color)).Render(h.Icon) + " " + h.Name
	if h.Target != "" {
		name += mutedStyle.Render(" (" + h.Target + ")")
	}
	return fmt.Sprintf("%s %s %s  🔥%d", cursor, check, name, h.Streak)
}
