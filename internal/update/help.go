package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/habitd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	contextual := m.viewBindings()
	plain := make([]string, 0, len(contextual))
	for _, kb := range contextual {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView:    m.helpModel.View(m.helpKeys()),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Dashboard, Action: "switch to Dashboard"},
		{Key: m.Keys.Habits, Action: "switch to Habits"},
		{Key: m.Keys.Analytics, Action: "switch to Analytics"},
		{Key: m.Keys.Calendar, Action: "switch to Calendar"},
		{Key: "a", Action: "mark all due habits complete"},
		{Key: "n", Action: "new habit"},
		{Key: "x", Action: "export backup"},
		{Key: "i", Action: "import backup"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDashboard:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle today"},
		}
	case ViewHabits:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "space", Action: "toggle today"},
			{Key: "e", Action: "edit habit"},
			{Key: "d", Action: "delete habit"},
		}
	case ViewCalendar:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next month"},
			{Key: "t", Action: "jump to current month"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

// helpKeys shows the view's own keys plus help and quit in short form; the
// full form lists global and view keys as separate columns.
func (m Model) helpKeys() helpKeyMap {
	global := toKeyBindings(m.globalBindings())
	contextual := toKeyBindings(m.viewBindings())
	short := append(append([]key.Binding{}, contextual...),
		key.NewBinding(key.WithKeys(m.Keys.Help), key.WithHelp(m.Keys.Help, "help")),
		key.NewBinding(key.WithKeys(m.Keys.Quit), key.WithHelp(m.Keys.Quit, "quit")),
	)
	return helpKeyMap{short: short, full: [][]key.Binding{global, contextual}}
}

func toKeyBindings(in []KeyBinding) []key.Binding {
	out := make([]key.Binding, 0, len(in))
	for _, kb := range in {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
