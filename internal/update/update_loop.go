package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/views"
)

func (m Model) Init() tea.Cmd {
	if m.Scheduler != nil {
		return waitForEventCmd(m.Scheduler.C())
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.switchView(typed.View)
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.fail(typed.Err)
		}
		return m, nil
	case ReminderDueMsg:
		m.applyReminder(typed.Event)
		if m.Scheduler != nil {
			return m, waitForEventCmd(m.Scheduler.C())
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	if m.Form.Active {
		return m.handleFormKey(msg), nil
	}
	if m.Import.stage != importIdle {
		return m.handleImportKey(msg), nil
	}
	if m.ConfirmDelete != "" {
		return m.handleDeleteConfirmKey(msg), nil
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Focus()
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Dashboard:
		m.switchView(ViewDashboard)
		return m, nil
	case m.Keys.Habits:
		m.switchView(ViewHabits)
		return m, nil
	case m.Keys.Analytics:
		m.switchView(ViewAnalytics)
		return m, nil
	case m.Keys.Calendar:
		m.switchView(ViewCalendar)
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	case "a":
		m.markAllDue()
		return m, nil
	case "n":
		m.openForm(nil)
		return m, nil
	case "x":
		m.exportBackup(m.exportDir)
		return m, nil
	case "i":
		m.openImport()
		return m, nil
	}

	switch m.CurrentView {
	case ViewDashboard, ViewHabits:
		return m.handleListKey(msg), nil
	case ViewCalendar:
		return m.handleCalendarKey(msg), nil
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	habits := m.visibleHabits()
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(habits)-1 {
			m.Cursor++
		}
	case " ", "space", "enter":
		if h, ok := m.selectedHabit(); ok {
			m.toggleHabit(h.ID)
		}
	case "e":
		if h, ok := m.selectedHabit(); ok && m.CurrentView == ViewHabits {
			m.openForm(&h)
		}
	case "d":
		if h, ok := m.selectedHabit(); ok && m.CurrentView == ViewHabits {
			m.ConfirmDelete = h.ID
			m.Status = StatusBar{Text: fmt.Sprintf("delete %s? [y/n]", h.Name)}
		}
	}
	return m
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y":
		id := m.ConfirmDelete
		m.ConfirmDelete = ""
		m.deleteHabit(id)
	case "n", "N", "esc":
		m.ConfirmDelete = ""
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

func (m Model) handleCalendarKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "h", "left":
		m.shiftMonth(-1)
	case "l", "right":
		m.shiftMonth(1)
	case "t":
		today := m.tracker.Today()
		m.Calendar = CalendarState{Year: today.Year(), Month: today.Month()}
	}
	return m
}

func (m *Model) shiftMonth(delta int) {
	month := int(m.Calendar.Month) - 1 + delta
	year := m.Calendar.Year
	for month < 0 {
		month += 12
		year--
	}
	for month > 11 {
		month -= 12
		year++
	}
	m.Calendar = CalendarState{Year: year, Month: time.Month(month + 1)}
	m.Status = StatusBar{Text: fmt.Sprintf("calendar: %s %d", m.Calendar.Month, m.Calendar.Year)}
}

func (m *Model) switchView(v View) {
	m.CurrentView = v
	m.Cursor = 0
	m.ConfirmDelete = ""
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	left, right := "", ""
	switch {
	case m.Form.Active:
		left = m.renderForm()
	case m.Import.stage != importIdle:
		left = m.renderImportPrompt()
	default:
		switch m.CurrentView {
		case ViewDashboard:
			left = m.renderDashboard()
		case ViewHabits:
			left = m.renderHabitsPanel()
			right = m.renderHabitDetail()
		case ViewAnalytics:
			left = m.renderAnalytics()
		case ViewCalendar:
			left = m.renderCalendar()
		}
	}
	if m.Palette.Active {
		right = joinSections(right, views.RenderCommandPalette(true, m.commandInput.Value()))
	}
	if m.HelpVisible {
		right = joinSections(right, m.renderHelpView())
	}

	tabs := make([]string, 0, len(allViews))
	for _, v := range allViews {
		tabs = append(tabs, string(v))
	}
	return views.RenderApp(views.AppData{
		Tabs:         tabs,
		ActiveTab:    string(m.CurrentView),
		LeftPane:     left,
		RightPane:    right,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: m.renderNotificationsView(),
		Footer: fmt.Sprintf("keys: %s-%s tabs | space toggle | a mark all | n new | x export | i import | / cmd | %s help | %s quit",
			m.Keys.Dashboard, m.Keys.Calendar, m.Keys.Help, m.Keys.Quit),
	})
}

func isKnownView(v View) bool {
	switch v {
	case ViewDashboard, ViewHabits, ViewAnalytics, ViewCalendar:
		return true
	default:
		return false
	}
}
