package tui

import (
	"blobdeps/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// ScanFunc produces the result to browse. It runs outside the UI loop.
type ScanFunc func() (model.Result, error)

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Result  model.Result
	Loading bool
	Err     error

	// UI State
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg

	// View Modes
	ShowDiagnostics bool
	ShowHelp        bool

	// Search State
	InputMode       bool
	InputBuffer     textinput.Model
	FilteredIndices []int // Indices of Outcomes to show
	SearchActive    bool

	// Components
	DetailsViewport viewport.Model

	scan ScanFunc
}

// InitialModel returns the initial state.
func InitialModel(scan ScanFunc) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Library name..."
	ti.CharLimit = 64
	ti.Width = 24

	return AppModel{
		Loading:     true,
		InputBuffer: ti,
		SelectedIdx: 0,
		scan:        scan,
	}
}

// Selected returns the outcome under the cursor.
func (m AppModel) Selected() (model.Outcome, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.FilteredIndices) {
		return model.Outcome{}, false
	}
	return m.Result.Outcomes[m.FilteredIndices[m.SelectedIdx]], true
}
