package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobdeps/internal/model"
)

func loaded(t *testing.T) AppModel {
	t.Helper()
	m := InitialModel(nil)
	next, _ := m.Update(MsgScanReady(model.Result{
		Outcomes: []model.Outcome{
			{Name: "mm-qcamera-daemon", Kind: model.OutcomeTree, Recursed: true},
			{Name: "libc.so", Kind: model.OutcomeBaseline, Depth: 1},
			{Name: "libmmcamera_interface.so", Kind: model.OutcomeTree, Depth: 1},
			{Name: "libmmcamera_%s.so", Kind: model.OutcomeWildcard, Depth: 1},
			{Name: "libgone.so", Kind: model.OutcomeUnresolved, Depth: 2},
		},
		Diagnostics: []string{"blob file libgone.so missing or broken"},
	}))
	return next.(AppModel)
}

func press(m AppModel, keys ...string) AppModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(AppModel)
	}
	return m
}

func TestScanReady(t *testing.T) {
	m := loaded(t)
	assert.False(t, m.Loading)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, m.FilteredIndices)

	o, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "mm-qcamera-daemon", o.Name)
}

func TestNavigation(t *testing.T) {
	m := press(loaded(t), "j", "j")
	assert.Equal(t, 2, m.SelectedIdx)

	m = press(m, "k")
	assert.Equal(t, 1, m.SelectedIdx)

	m = press(m, "G")
	assert.Equal(t, 4, m.SelectedIdx)
	m = press(m, "j")
	assert.Equal(t, 4, m.SelectedIdx, "cursor stops at the end")

	m = press(m, "g", "k")
	assert.Equal(t, 0, m.SelectedIdx)
}

func TestFilter(t *testing.T) {
	m := press(loaded(t), "/", "m", "m", "c", "a", "m")
	assert.True(t, m.InputMode)
	assert.Equal(t, []int{2, 3}, m.FilteredIndices)

	m = press(m, "enter")
	assert.False(t, m.InputMode)
	assert.True(t, m.SearchActive)
	assert.Equal(t, []int{2, 3}, m.FilteredIndices)

	m = press(m, "esc")
	assert.False(t, m.SearchActive)
	assert.Len(t, m.FilteredIndices, 5)
}

func TestFilterNoMatchClampsCursor(t *testing.T) {
	m := press(loaded(t), "G", "/", "z", "z", "z")
	assert.Empty(t, m.FilteredIndices)
	assert.Equal(t, 0, m.SelectedIdx)
	_, ok := m.Selected()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "nothing matches")
}

func TestToggles(t *testing.T) {
	m := press(loaded(t), "d")
	assert.True(t, m.ShowDiagnostics)
	assert.Contains(t, m.View(), "blob file libgone.so missing or broken")

	m = press(m, "?")
	assert.True(t, m.ShowHelp)
	assert.False(t, m.ShowDiagnostics)

	m = press(m, "esc")
	assert.False(t, m.ShowHelp)
}

func TestQuit(t *testing.T) {
	_, cmd := loaded(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewStates(t *testing.T) {
	m := InitialModel(nil)
	assert.Contains(t, m.View(), "Scanning")

	next, _ := m.Update(MsgError(errors.New("build.prop not found")))
	assert.Contains(t, next.(AppModel).View(), "build.prop not found")

	view := loaded(t).View()
	assert.Contains(t, view, "mm-qcamera-daemon")
	assert.Contains(t, view, "Named on the command line")
}

func TestInitRunsScan(t *testing.T) {
	m := InitialModel(func() (model.Result, error) {
		return model.Result{Targets: []string{"rild"}}, nil
	})
	cmd := m.Init()
	require.NotNil(t, cmd)
	msg, ok := cmd().(MsgScanReady)
	require.True(t, ok)
	assert.Equal(t, []string{"rild"}, model.Result(msg).Targets)

	assert.Nil(t, InitialModel(nil).Init())
}
