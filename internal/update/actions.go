package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/habitd/internal/backup"
	"github.com/sandeepkv93/habitd/internal/model"
	"go.uber.org/zap"
)

const (
	maxNotifications = 40
	saveTimeout      = 5 * time.Second
)

// visibleHabits lists the rows of the active tab: habits due today on the
// dashboard, every habit on the habits tab.
func (m Model) visibleHabits() []model.Habit {
	if m.CurrentView == ViewDashboard {
		return m.tracker.TodayHabits()
	}
	return m.tracker.Habits()
}

func (m Model) selectedHabit() (model.Habit, bool) {
	habits := m.visibleHabits()
	if m.Cursor < 0 || m.Cursor >= len(habits) {
		return model.Habit{}, false
	}
	return habits[m.Cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.visibleHabits())
	if m.Cursor >= n {
		m.Cursor = n - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
}

func (m *Model) toggleHabit(id string) {
	h, ok := m.tracker.Habit(id)
	if !ok {
		m.fail(fmt.Errorf("habit %s not found", id))
		return
	}
	done, err := m.tracker.Toggle(id)
	if err != nil {
		m.fail(err)
		return
	}
	if !m.persist("toggle") {
		return
	}
	if done {
		m.succeed(fmt.Sprintf("completed %s (streak %d)", h.Name, m.tracker.CurrentStreak(id)))
	} else {
		m.succeed(fmt.Sprintf("unchecked %s", h.Name))
	}
}

func (m *Model) markAllDue() {
	n := m.tracker.MarkAllDue()
	if n == 0 {
		m.Status = StatusBar{Text: "no habits due today"}
		return
	}
	if m.persist("mark_all") {
		m.succeed(fmt.Sprintf("marked %d habit(s) complete", n))
	}
}

func (m *Model) deleteHabit(id string) {
	h, ok := m.tracker.Habit(id)
	if !ok || !m.tracker.DeleteHabit(id) {
		m.fail(fmt.Errorf("habit %s not found", id))
		return
	}
	m.clampCursor()
	if m.persist("delete") {
		m.succeed(fmt.Sprintf("deleted %s", h.Name))
	}
}

func (m *Model) exportBackup(dir string) {
	if strings.TrimSpace(dir) == "" {
		dir = m.exportDir
	}
	path, err := backup.WriteFile(dir, m.tracker.Snapshot(), m.tracker.Now())
	if err != nil {
		m.fail(err)
		return
	}
	m.logger.Info("exported backup", zap.String("path", path))
	m.succeed(fmt.Sprintf("exported to %s", path))
}

// persist saves the tracker state and reports a failure on the status bar.
// The in-memory change is kept either way.
func (m *Model) persist(op string) bool {
	if m.store == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.store.Save(ctx, m.tracker.Snapshot()); err != nil {
		m.fail(fmt.Errorf("save after %s: %w", op, err))
		return false
	}
	m.logger.Debug("state saved", zap.String("op", op))
	return true
}

func (m *Model) succeed(text string) {
	m.Status = StatusBar{Text: text}
	m.notify("habitd", text, "info")
}

func (m *Model) fail(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
	m.notify("Error", err.Error(), "error")
	m.logger.Warn("action failed", zap.Error(err))
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.tracker.Now(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

// notifyDesktop records the notification and forwards it to the desktop when
// enabled.
func (m *Model) notifyDesktop(title, body, level string) {
	m.notify(title, body, level)
	if !m.desktopEnabled || m.notifier == nil {
		return
	}
	if err := m.notifier.Send(Notification{Title: title, Body: body, Level: level, At: m.tracker.Now()}); err != nil {
		m.logger.Warn("desktop notification failed", zap.Error(err))
	}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}

func escapeAppleScript(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

func joinSections(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}
