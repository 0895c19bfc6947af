package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/model"
	"github.com/sandeepkv93/habitd/internal/views"
	"github.com/shopspring/decimal"
)

type formField int

const (
	fieldName formField = iota
	fieldDescription
	fieldCategory
	fieldFrequency
	fieldDays
	fieldTarget
	fieldUnit
	fieldCount
)

var frequencies = []model.Frequency{model.FrequencyDaily, model.FrequencyWeekly, model.FrequencyCustom}

// FormState backs the add/edit habit form.
type FormState struct {
	Active    bool
	EditID    string
	Focus     formField
	Category  int
	Frequency int
	Days      [7]bool
	DayCursor int
	Err       string

	name        textinput.Model
	description textinput.Model
	target      textinput.Model
	unit        textinput.Model
}

func newFormState() FormState {
	return FormState{
		name:        newFormInput("Morning run", 80),
		description: newFormInput("markdown allowed", 256),
		target:      newFormInput("e.g. 8", 16),
		unit:        newFormInput("e.g. glasses", 32),
	}
}

func newFormInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 36
	return in
}

func (m *Model) openForm(h *model.Habit) {
	f := newFormState()
	f.Active = true
	if h == nil {
		f.Days[int(time.Monday)] = true
		m.Form = f
		m.Status = StatusBar{Text: "new habit"}
		return
	}
	f.EditID = h.ID
	f.name.SetValue(h.Name)
	f.description.SetValue(h.Description)
	f.unit.SetValue(h.Unit)
	if h.Target != nil {
		f.target.SetValue(h.Target.String())
	}
	for i, c := range model.Categories() {
		if c == h.Category.Normalize() {
			f.Category = i
		}
	}
	for i, fr := range frequencies {
		if fr == h.Frequency {
			f.Frequency = i
		}
	}
	for _, d := range h.CustomDays {
		if d >= 0 && d <= 6 {
			f.Days[d] = true
		}
	}
	m.Form = f
	m.Status = StatusBar{Text: fmt.Sprintf("editing %s", h.Name)}
}

func (m Model) handleFormKey(msg tea.KeyMsg) Model {
	f := &m.Form
	switch msg.String() {
	case "esc":
		f.Active = false
		m.Status = StatusBar{Text: "form cancelled"}
		return m
	case "enter":
		m.submitForm()
		return m
	case "tab", "down":
		f.moveFocus(1)
		return m
	case "shift+tab", "up":
		f.moveFocus(-1)
		return m
	}

	switch f.Focus {
	case fieldCategory:
		f.Category = cycle(f.Category, len(model.Categories()), msg.String())
	case fieldFrequency:
		f.Frequency = cycle(f.Frequency, len(frequencies), msg.String())
	case fieldDays:
		switch msg.String() {
		case "left", "h":
			f.DayCursor = (f.DayCursor + 6) % 7
		case "right", "l":
			f.DayCursor = (f.DayCursor + 1) % 7
		case " ", "space":
			f.Days[f.DayCursor] = !f.Days[f.DayCursor]
		}
	default:
		if in := f.input(); in != nil {
			typeInto(in, msg)
		}
	}
	return m
}

func (f *FormState) moveFocus(delta int) {
	next := f.Focus
	for {
		next = formField((int(next) + delta + int(fieldCount)) % int(fieldCount))
		if next != fieldDays || frequencies[f.Frequency] == model.FrequencyCustom {
			break
		}
	}
	f.Focus = next
}

func (f *FormState) input() *textinput.Model {
	switch f.Focus {
	case fieldName:
		return &f.name
	case fieldDescription:
		return &f.description
	case fieldTarget:
		return &f.target
	case fieldUnit:
		return &f.unit
	default:
		return nil
	}
}

func (f FormState) habit() (model.Habit, error) {
	h := model.Habit{
		ID:          f.EditID,
		Name:        f.name.Value(),
		Description: f.description.Value(),
		Category:    model.Categories()[f.Category],
		Frequency:   frequencies[f.Frequency],
		Unit:        f.unit.Value(),
	}
	if h.Frequency == model.FrequencyCustom {
		for d, on := range f.Days {
			if on {
				h.CustomDays = append(h.CustomDays, d)
			}
		}
	}
	if raw := strings.TrimSpace(f.target.Value()); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil || !v.IsPositive() {
			return model.Habit{}, errors.New("target must be a positive number")
		}
		h.Target = &v
	}
	return h, nil
}

func (m *Model) submitForm() {
	h, err := m.Form.habit()
	if err != nil {
		m.Form.Err = err.Error()
		return
	}
	op, verb := "create", "added"
	if m.Form.EditID == "" {
		h, err = m.tracker.AddHabit(h)
	} else {
		op, verb = "update", "updated"
		h, err = m.tracker.UpdateHabit(h)
	}
	if err != nil {
		m.Form.Err = err.Error()
		return
	}
	m.Form.Active = false
	m.clampCursor()
	if m.persist(op) {
		m.succeed(fmt.Sprintf("%s %s", verb, h.Name))
	}
}

func (m Model) renderForm() string {
	f := m.Form
	title := "new habit"
	if f.EditID != "" {
		title = "edit habit"
	}
	cat := model.Categories()[f.Category]
	fields := []views.FormFieldData{
		{Label: "name", Value: f.name.View(), Focused: f.Focus == fieldName},
		{Label: "description", Value: f.description.View(), Focused: f.Focus == fieldDescription},
		{Label: "category", Value: fmt.Sprintf("‹ %s %s ›", cat.Icon(), cat.Label()), Focused: f.Focus == fieldCategory},
		{Label: "frequency", Value: fmt.Sprintf("‹ %s ›", frequencies[f.Frequency]), Focused: f.Focus == fieldFrequency},
	}
	if frequencies[f.Frequency] == model.FrequencyCustom {
		fields = append(fields, views.FormFieldData{Label: "days", Value: f.daysView(), Focused: f.Focus == fieldDays})
	}
	fields = append(fields,
		views.FormFieldData{Label: "target", Value: f.target.View(), Focused: f.Focus == fieldTarget},
		views.FormFieldData{Label: "unit", Value: f.unit.View(), Focused: f.Focus == fieldUnit},
	)
	return views.RenderHabitForm(views.FormData{Title: title, Fields: fields, Error: f.Err})
}

func (f FormState) daysView() string {
	parts := make([]string, 0, 7)
	for d := 0; d < 7; d++ {
		mark := " "
		if f.Days[d] {
			mark = "x"
		}
		label := fmt.Sprintf("%s[%s]", time.Weekday(d).String()[:2], mark)
		if f.Focus == fieldDays && f.DayCursor == d {
			label = "›" + label
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

func cycle(idx, n int, key string) int {
	switch key {
	case "left", "h":
		return (idx + n - 1) % n
	case "right", "l", " ", "space":
		return (idx + 1) % n
	}
	return idx
}

// typeInto applies an edit key to a text input without requiring focus.
func typeInto(in *textinput.Model, msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes:
		in.SetValue(in.Value() + string(msg.Runes))
	case tea.KeySpace:
		in.SetValue(in.Value() + " ")
	case tea.KeyBackspace:
		v := []rune(in.Value())
		if len(v) > 0 {
			in.SetValue(string(v[:len(v)-1]))
		}
	}
}
