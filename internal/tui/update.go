package tui

import (
	"strings"

	"blobdeps/internal/model"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgScanReady indicates that the scan has completed.
type MsgScanReady model.Result

// MsgError indicates an error occurred.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 4 // minus footer/header
		return m, nil

	case MsgScanReady:
		m.Loading = false
		m.Result = model.Result(msg)
		m.performSearch()
		m.SelectedIdx = 0
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				// Keep the filter, leave input mode
				m.InputMode = false
				m.InputBuffer.Blur()
				m.performSearch()
				return m, nil
			case tea.KeyEsc:
				m.clearSearch()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.performSearch()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.ShowHelp || m.ShowDiagnostics {
				m.ShowHelp = false
				m.ShowDiagnostics = false
				return m, nil
			}
			if m.SearchActive {
				m.clearSearch()
				return m, nil
			}
		case "up", "k":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case "down", "j":
			if m.SelectedIdx < len(m.FilteredIndices)-1 {
				m.SelectedIdx++
			}
		case "home", "g":
			m.SelectedIdx = 0
		case "end", "G":
			if len(m.FilteredIndices) > 0 {
				m.SelectedIdx = len(m.FilteredIndices) - 1
			}
		case "d":
			m.ShowDiagnostics = !m.ShowDiagnostics
			m.ShowHelp = false
		case "?":
			m.ShowHelp = !m.ShowHelp
			m.ShowDiagnostics = false
		case "/", "w":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("")
			return m, textinput.Blink
		}
	}

	return m, cmd
}

func (m *AppModel) clearSearch() {
	m.InputMode = false
	m.InputBuffer.Blur()
	m.InputBuffer.SetValue("")
	m.performSearch()
}

// performSearch filters outcomes by name (case-insensitive substring).
func (m *AppModel) performSearch() {
	term := strings.ToLower(strings.TrimSpace(m.InputBuffer.Value()))
	m.SearchActive = term != ""

	var result []int
	for i, o := range m.Result.Outcomes {
		if term == "" || strings.Contains(strings.ToLower(o.Name), term) {
			result = append(result, i)
		}
	}
	m.FilteredIndices = result

	// Bounds check
	if m.SelectedIdx >= len(m.FilteredIndices) {
		if len(m.FilteredIndices) > 0 {
			m.SelectedIdx = len(m.FilteredIndices) - 1
		} else {
			m.SelectedIdx = 0
		}
	}
}

// runScan runs the scan in the background.
func runScan(scan ScanFunc) tea.Cmd {
	return func() tea.Msg {
		res, err := scan()
		if err != nil {
			return MsgError(err)
		}
		return MsgScanReady(res)
	}
}
