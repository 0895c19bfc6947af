package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/habitd/internal/backup"
	"github.com/sandeepkv93/habitd/internal/views"
	"go.uber.org/zap"
)

func (m *Model) openImport() {
	m.Import = ImportState{stage: importPath}
	m.importInput.SetValue("")
	m.importInput.Focus()
	m.Status = StatusBar{Text: "import: enter a backup file path"}
}

// stageImport validates the file and waits for confirmation. Nothing is
// replaced until the user answers y.
func (m *Model) stageImport(path string) bool {
	payload, err := backup.Load(path)
	if err != nil {
		m.Import = ImportState{}
		m.importInput.Blur()
		m.fail(fmt.Errorf("import %s: %w", path, err))
		return false
	}
	m.Import = ImportState{stage: importConfirm, payload: payload}
	m.Status = StatusBar{Text: importSummary(payload) + ", replace current data? [y/n]"}
	return true
}

func (m Model) handleImportKey(msg tea.KeyMsg) Model {
	switch m.Import.stage {
	case importPath:
		switch msg.String() {
		case "esc":
			m.cancelImport()
		case "enter":
			m.stageImport(m.importInput.Value())
		default:
			typeInto(&m.importInput, msg)
		}
	case importConfirm:
		switch msg.String() {
		case "y", "Y":
			m.commitImport()
		case "n", "N", "esc":
			m.cancelImport()
		}
	}
	return m
}

func (m *Model) commitImport() {
	payload := m.Import.payload
	m.Import = ImportState{}
	m.importInput.Blur()
	m.tracker.Replace(payload.Snapshot())
	m.Cursor = 0
	m.logger.Info("imported backup", zap.Int("habits", len(payload.Habits)), zap.Int("dates", len(payload.Completions)))
	if m.persist("import") {
		m.succeed("imported " + importSummary(payload))
	}
}

func (m *Model) cancelImport() {
	m.Import = ImportState{}
	m.importInput.Blur()
	m.Status = StatusBar{Text: "import cancelled"}
}

func (m Model) renderImportPrompt() string {
	return views.RenderImportPrompt(views.ImportPromptData{
		PathView: m.importInput.View(),
		Confirm:  m.Import.stage == importConfirm,
		Summary:  importSummary(m.Import.payload),
	})
}

func importSummary(p backup.Payload) string {
	return fmt.Sprintf("%d habit(s), %d day(s) of completions", len(p.Habits), len(p.Completions))
}
