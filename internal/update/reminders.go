package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"go.uber.org/zap"
)

func waitForEventCmd(ch <-chan scheduler.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Event: ev}
	}
}

func (m *Model) applyReminder(ev scheduler.Event) {
	now := m.tracker.Now()
	switch ev.Kind {
	case scheduler.KindRollover:
		today := m.tracker.Today()
		m.Cursor = 0
		m.Calendar = CalendarState{Year: today.Year(), Month: today.Month()}
		m.succeed(fmt.Sprintf("new day: %s, %d habit(s) due", m.tracker.TodayKey(), len(m.tracker.TodayHabits())))
		m.scheduleRollover(now)
	case scheduler.KindNudge:
		p := m.tracker.TodayProgress()
		if left := p.Due - p.Completed; left > 0 {
			m.Status = StatusBar{Text: fmt.Sprintf("reminder: %d habit(s) left today", left)}
			m.notifyDesktop("Habit reminder", fmt.Sprintf("%d of %d habits still open today", left, p.Due), "warn")
		} else {
			m.Status = StatusBar{Text: "reminder: all habits done today"}
		}
		m.scheduleNudge(now)
	default:
		m.logger.Warn("unknown scheduler event", zap.String("kind", string(ev.Kind)), zap.String("id", ev.ID))
	}
}

func (m *Model) scheduleRollover(now time.Time) {
	at := scheduler.NextRollover(now, m.tracker.Location())
	m.schedule(scheduler.Event{ID: "rollover-" + at.Format("2006-01-02"), Kind: scheduler.KindRollover, At: at})
}

// scheduleNudge drops any pending nudge when reminders are off, since the
// engine can outlive a model built with other options.
func (m *Model) scheduleNudge(now time.Time) {
	if !m.reminders {
		if m.Scheduler != nil && m.Scheduler.Cancel(scheduler.KindNudge) {
			m.logger.Debug("pending nudge cancelled")
		}
		return
	}
	at := scheduler.NextNudge(now, m.tracker.Location(), m.reminderHour, m.reminderMinute)
	m.schedule(scheduler.Event{ID: "nudge-" + at.Format("2006-01-02"), Kind: scheduler.KindNudge, At: at})
}

func (m *Model) schedule(ev scheduler.Event) {
	if m.Scheduler == nil {
		return
	}
	if err := m.Scheduler.Schedule(ev); err != nil {
		m.fail(fmt.Errorf("schedule %s: %w", ev.Kind, err))
		return
	}
	m.logger.Debug("event scheduled", zap.String("id", ev.ID), zap.Time("at", ev.At))
}
