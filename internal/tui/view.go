package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"blobdeps/internal/model"
)

// contextRadius is how many bytes either side of a reference are shown.
const contextRadius = 32

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	kindStyles = map[model.OutcomeKind]lipgloss.Style{
		model.OutcomeBaseline:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		model.OutcomeTree:       lipgloss.NewStyle().Foreground(lipgloss.Color("81")), // Sky Blue/Cyan
		model.OutcomeWildcard:   lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		model.OutcomeUnresolved: lipgloss.NewStyle().Foreground(lipgloss.Color("208")), // Orange
	}

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63"))

	popupStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205"))

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Bold(true)
)

func (m AppModel) View() string {
	if m.Loading {
		return "\n  Scanning blobs... please wait.\n"
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}
	if m.ShowDiagnostics {
		return m.renderDiagnosticsPopup()
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height
	if width == 0 {
		width = 100
	}
	if height == 0 {
		height = 30
	}

	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := panelStyle.Width(leftWidth).Height(interiorHeight).Render(m.renderList(interiorHeight))
	right := panelStyle.Width(rightWidth).Height(interiorHeight).Render(m.renderDetails())

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("blobdeps %s", model.Version)))
	sb.WriteString("  ")
	sb.WriteString(m.renderSummary())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m AppModel) renderSummary() string {
	r := m.Result
	return dimStyle.Render(fmt.Sprintf("%d blobs · %d baseline · %d wildcards · %d missing · %d warnings",
		r.Count(model.OutcomeTree), r.Count(model.OutcomeBaseline), r.Count(model.OutcomeWildcard),
		r.Count(model.OutcomeUnresolved), len(r.Diagnostics)))
}

func (m AppModel) renderList(height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Libraries"))
	sb.WriteString("\n\n")

	if len(m.FilteredIndices) == 0 {
		sb.WriteString(dimStyle.Render("  (nothing matches)"))
		return sb.String()
	}

	// Keep the cursor roughly centred
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	start := 0
	if len(m.FilteredIndices) > visible && m.SelectedIdx >= visible/2 {
		start = m.SelectedIdx - visible/2
		if start+visible > len(m.FilteredIndices) {
			start = len(m.FilteredIndices) - visible
		}
	}
	end := start + visible
	if end > len(m.FilteredIndices) {
		end = len(m.FilteredIndices)
	}

	for i := start; i < end; i++ {
		o := m.Result.Outcomes[m.FilteredIndices[i]]
		line := fmt.Sprintf("%s %s%s", model.IconFor(o), strings.Repeat(" ", o.Depth), o.Name)
		if i == m.SelectedIdx {
			sb.WriteString(selectedStyle.Render(line))
		} else {
			sb.WriteString(kindStyles[o.Kind].Render(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m AppModel) renderDetails() string {
	o, ok := m.Selected()
	if !ok {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(o.Name))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Kind:   %s\n", o.Kind)
	fmt.Fprintf(&sb, "Depth:  %d\n", o.Depth)

	switch o.Kind {
	case model.OutcomeTree:
		fmt.Fprintf(&sb, "Dir:    %s\n", o.Directory)
		fmt.Fprintf(&sb, "Source: %s\n", o.Source)
		fmt.Fprintf(&sb, "Dest:   %s\n", o.Dest)
		if !o.Recursed {
			sb.WriteString(kindStyles[model.OutcomeUnresolved].Render("Blob could not be scanned"))
			sb.WriteString("\n")
		}
	case model.OutcomeBaseline:
		fmt.Fprintf(&sb, "Index:  %s\n", o.BaselinePath)
	case model.OutcomeWildcard:
		fmt.Fprintf(&sb, "Prefix: %q\nSuffix: %q\nMatches: %d\n", o.Prefix, o.Suffix, o.Matches)
	case model.OutcomeUnresolved:
		sb.WriteString(kindStyles[model.OutcomeUnresolved].Render("In neither the baseline nor the dump"))
		sb.WriteString("\n")
	}

	if o.ReferencedBy == "" {
		sb.WriteString("\nNamed on the command line\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "\nReferenced by %s @ 0x%x\n\n", o.ReferencedBy, o.Offset)
	ctx := model.GetByteContext(o.ReferencedBy, o.Offset, contextRadius)
	if ctx.ErrorMsg != "" {
		sb.WriteString(dimStyle.Render(ctx.ErrorMsg))
		return sb.String()
	}
	sb.WriteString(dimStyle.Render(ctx.Before))
	sb.WriteString(matchStyle.Render(ctx.At))
	return sb.String()
}

func (m AppModel) renderFooter() string {
	if m.InputMode {
		return "Filter: " + m.InputBuffer.View()
	}
	help := "↑/↓ move · / filter · d diagnostics · ? help · q quit"
	if m.SearchActive {
		help = fmt.Sprintf("Filter %q (%d) · esc clear · ", m.InputBuffer.Value(), len(m.FilteredIndices)) + help
	}
	return dimStyle.Render(help)
}

func (m *AppModel) renderDiagnosticsPopup() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Diagnostics"))
	sb.WriteString("\n\n")
	if len(m.Result.Diagnostics) == 0 {
		sb.WriteString("No warnings.\n")
	}
	for _, d := range m.Result.Diagnostics {
		sb.WriteString("• ")
		sb.WriteString(d)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("esc / d to close"))
	return popupStyle.Render(sb.String())
}

func (m *AppModel) renderHelpDialog() string {
	lines := []string{
		titleStyle.Render("Keys"),
		"",
		"↑/k ↓/j   move",
		"g / G     first / last",
		"/ or w    filter by name",
		"d         diagnostics",
		"?         this help",
		"q         quit",
		"",
		"Icons",
		fmt.Sprintf("%s  blob found in the dump", model.IconBlob),
		fmt.Sprintf("%s  blob found and scanned", model.IconRecursed),
		fmt.Sprintf("%s  wildcard expanded", model.IconWildcard),
		fmt.Sprintf("%s  missing from baseline and dump", model.IconUnresolved),
		"   satisfied by the baseline",
	}
	return popupStyle.Render(strings.Join(lines, "\n"))
}

func (m AppModel) Init() tea.Cmd {
	if m.scan == nil {
		return nil
	}
	return runScan(m.scan)
}
