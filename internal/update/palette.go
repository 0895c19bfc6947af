package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/commands"
	"github.com/sandeepkv93/habitd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		typeInto(&m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	// Handlers that mutate report through the status bar themselves; they
	// return the resulting status text so Execute's contract holds.
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			freq := model.Frequency(a.Frequency)
			if freq == "" {
				freq = model.FrequencyDaily
			}
			h, err := m.tracker.AddHabit(model.Habit{
				Name:       a.Name,
				Category:   model.Category(a.Category).Normalize(),
				Frequency:  freq,
				CustomDays: a.Days,
			})
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			if !m.persist("create") {
				return commands.Result{}, m.LastError
			}
			return commands.Result{Message: fmt.Sprintf("added %s (%s)", h.Name, h.ScheduleText())}, nil
		},
		Done: func(r commands.RefArgs) (commands.Result, error) {
			h, err := m.resolve(r.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			m.toggleHabit(h.ID)
			return m.statusResult()
		},
		Delete: func(r commands.RefArgs) (commands.Result, error) {
			h, err := m.resolve(r.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			m.switchView(ViewHabits)
			m.ConfirmDelete = h.ID
			return commands.Result{Message: fmt.Sprintf("delete %s? [y/n]", h.Name)}, nil
		},
		MarkAll: func() (commands.Result, error) {
			m.markAllDue()
			return m.statusResult()
		},
		Export: func(e commands.ExportArgs) (commands.Result, error) {
			m.exportBackup(e.Dir)
			return m.statusResult()
		},
		Import: func(i commands.ImportArgs) (commands.Result, error) {
			m.stageImport(i.Path)
			return m.statusResult()
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			for _, v := range allViews {
				if strings.EqualFold(string(v), s.Tab) {
					m.switchView(v)
					return commands.Result{Message: fmt.Sprintf("showing %s", v)}, nil
				}
			}
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown tab %q", s.Tab)}
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

func (m Model) resolve(ref string) (model.Habit, error) {
	h, ok := m.tracker.Find(ref)
	if !ok {
		return model.Habit{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no single habit matches %q", ref)}
	}
	return h, nil
}

func (m Model) statusResult() (commands.Result, error) {
	if m.Status.IsError {
		return commands.Result{}, m.LastError
	}
	return commands.Result{Message: m.Status.Text}, nil
}
