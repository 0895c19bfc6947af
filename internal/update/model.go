// Package update holds the Bubble Tea model of the interactive habit tracker.
package update

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/sandeepkv93/habitd/internal/backup"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/tracker"
	"go.uber.org/zap"
)

type View string

const (
	ViewDashboard View = "Dashboard"
	ViewHabits    View = "Habits"
	ViewAnalytics View = "Analytics"
	ViewCalendar  View = "Calendar"
)

var allViews = []View{ViewDashboard, ViewHabits, ViewAnalytics, ViewCalendar}

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Dashboard string
	Habits    string
	Analytics string
	Calendar  string
	Help      string
	Quit      string
}

// Store persists the tracker state after each mutation.
type Store interface {
	Save(ctx context.Context, snap tracker.Snapshot) error
}

type Options struct {
	Store                Store
	Scheduler            *scheduler.Engine
	Notifier             DesktopNotifier
	DesktopNotifications bool
	// ReminderHour and ReminderMinute are used only when RemindersEnabled.
	RemindersEnabled bool
	ReminderHour     int
	ReminderMinute   int
	ExportDir        string
	Logger           *zap.Logger
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type importStage int

const (
	importIdle importStage = iota
	importPath
	importConfirm
)

type ImportState struct {
	stage   importStage
	payload backup.Payload
}

type CalendarState struct {
	Year  int
	Month time.Month
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type Model struct {
	CurrentView   View
	Cursor        int
	ConfirmDelete string
	Form          FormState
	Import        ImportState
	Calendar      CalendarState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error
	Scheduler     *scheduler.Engine

	tracker        *tracker.Tracker
	store          Store
	notifier       DesktopNotifier
	desktopEnabled bool
	reminders      bool
	reminderHour   int
	reminderMinute int
	exportDir      string
	logger         *zap.Logger

	commandInput textinput.Model
	importInput  textinput.Model
	todayBar     progress.Model
	helpModel    help.Model
}

type DesktopNotifier interface {
	Send(Notification) error
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

type ExecDesktopNotifier struct{}

func (ExecDesktopNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", n.Title, n.Body).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Event scheduler.Event
}

// NewModel builds the TUI around a loaded tracker. Reminder events are queued
// on opts.Scheduler immediately; the caller starts and stops the engine.
func NewModel(t *tracker.Tracker, opts Options) Model {
	today := t.Today()
	m := Model{
		CurrentView:    ViewDashboard,
		Calendar:       CalendarState{Year: today.Year(), Month: today.Month()},
		Scheduler:      opts.Scheduler,
		tracker:        t,
		store:          opts.Store,
		notifier:       opts.Notifier,
		desktopEnabled: opts.DesktopNotifications,
		reminders:      opts.RemindersEnabled,
		reminderHour:   opts.ReminderHour,
		reminderMinute: opts.ReminderMinute,
		exportDir:      opts.ExportDir,
		logger:         opts.Logger,
		Keys: GlobalKeyMap{
			Dashboard: "1",
			Habits:    "2",
			Analytics: "3",
			Calendar:  "4",
			Help:      "?",
			Quit:      "q",
		},
	}
	if m.notifier == nil {
		m.notifier = NoopDesktopNotifier{}
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	m.Form = newFormState()
	m.initBubbleComponents()
	m.scheduleRollover(t.Now())
	m.scheduleNudge(t.Now())
	return m
}

func (m *Model) initBubbleComponents() {
	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.importInput = textinput.New()
	m.importInput.Prompt = "path> "
	m.importInput.CharLimit = 1024
	m.importInput.Width = 48

	m.todayBar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.todayBar.Width = 30

	m.helpModel = help.New()
}

// Tracker exposes the tracker owned by the model.
func (m Model) Tracker() *tracker.Tracker {
	return m.tracker
}
