package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/scheduler"
	"github.com/sandeepkv93/habitd/internal/update"
)

func (a *app) runTUI(ctx context.Context) error {
	hour, minute, enabled, err := a.cfg.ReminderClock()
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(a.cfg.SchedulerBuffer)
	engine.Start()
	defer engine.Stop()

	var notifier update.DesktopNotifier = update.NoopDesktopNotifier{}
	if a.cfg.DesktopNotifications {
		notifier = update.ExecDesktopNotifier{}
	}
	m := update.NewModel(a.tracker, update.Options{
		Store:                a.store,
		Scheduler:            engine,
		Notifier:             notifier,
		DesktopNotifications: a.cfg.DesktopNotifications,
		RemindersEnabled:     enabled,
		ReminderHour:         hour,
		ReminderMinute:       minute,
		ExportDir:            a.cfg.ExportDir,
		Logger:               a.logger,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}
	_, err = tea.NewProgram(m, opts...).Run()
	return err
}
