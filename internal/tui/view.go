package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stepNowStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	severityStyles = map[wizard.Severity]lipgloss.Style{
		wizard.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		wizard.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		wizard.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		wizard.SeveritySuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	}
)

var stepLabels = []struct {
	state wizard.State
	label string
}{
	{wizard.StateInit, "Start"},
	{wizard.StateSelectDimension, "Dimensions"},
	{wizard.StateInputElements, "Entries"},
	{wizard.StateElementaryTransformation, "Transform"},
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.menu.Title))
	b.WriteString("  ")
	b.WriteString(m.renderSteps())
	b.WriteString("\n\n")

	if body := m.renderBody(); body != "" {
		b.WriteString(boxStyle.Render(body))
		b.WriteString("\n")
	}
	if j := m.wiz.Journal(); len(j) > 0 {
		b.WriteString(dimStyle.Render("applied: " + strings.Join(j, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.menu.Items {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + item.Label))
		} else {
			b.WriteString("  " + item.Label)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for _, n := range m.notes {
		b.WriteString(severityStyles[n.Severity].Render(n.Message))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(strings.Join(commandHelp, "\n")))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ menu • enter select • esc back • ctrl+c quit"))
	return b.String()
}

func (m Model) renderSteps() string {
	parts := make([]string, len(stepLabels))
	for i, s := range stepLabels {
		if s.state == m.wiz.State() {
			parts[i] = stepNowStyle.Render(s.label)
		} else {
			parts[i] = stepStyle.Render(s.label)
		}
	}
	return strings.Join(parts, stepStyle.Render(" › "))
}

func (m Model) renderBody() string {
	switch m.wiz.State() {
	case wizard.StateSelectDimension:
		return m.renderSelection()
	case wizard.StateInputElements:
		return renderGrid(m.wiz.Drafts(), nil)
	case wizard.StateElementaryTransformation:
		if v, ok := m.wiz.View(); ok {
			return renderGrid(v.Cells, &v)
		}
	}
	return ""
}

// renderSelection draws the selection grid with the chosen region lit.
func (m Model) renderSelection() string {
	sel := m.wiz.Selection()
	opts := m.wiz.Options()

	var b strings.Builder
	for r := 0; r < opts.MaxRows; r++ {
		for c := 0; c < opts.MaxCols; c++ {
			if r < sel.Rows && c < sel.Cols {
				b.WriteString(selectedStyle.Render("■ "))
			} else {
				b.WriteString(dimStyle.Render("· "))
			}
		}
		b.WriteString("\n")
	}
	if sel.Empty() {
		b.WriteString("size R C to choose the dimensions")
	} else {
		b.WriteString("selected " + sel.String())
	}
	return b.String()
}

// renderGrid right-aligns each column to its widest cell. Blank cells show
// as "_"; cells of v that are degraded are highlighted.
func renderGrid(cells [][]string, v *matrix.View) string {
	if len(cells) == 0 {
		return ""
	}
	widths := make([]int, len(cells[0]))
	for _, row := range cells {
		for c, s := range row {
			widths[c] = max(widths[c], lipgloss.Width(display(s)))
		}
	}

	lines := make([]string, len(cells))
	for r, row := range cells {
		parts := make([]string, len(row))
		for c, s := range row {
			st := lipgloss.NewStyle().Width(widths[c]).Align(lipgloss.Right)
			if v != nil && v.IsDegraded(r, c) {
				st = st.Inherit(degradedStyle)
			}
			parts[c] = st.Render(display(s))
		}
		lines[r] = fmt.Sprintf("r%-2d [ %s ]", r+1, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

func display(s string) string {
	if strings.TrimSpace(s) == "" {
		return "_"
	}
	return s
}
