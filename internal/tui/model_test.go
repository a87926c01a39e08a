package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

func newTestModel() Model {
	return New(wizard.Options{MaxRows: 4, MaxCols: 4, FillEmptyWithZero: true})
}

// enter types line on the command line and presses Enter.
func enter(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	m.input.SetValue(line)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func key(m Model, k tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: k})
	return updated.(Model)
}

func lastNote(m Model) wizard.Note {
	return m.notes[len(m.notes)-1]
}

func TestModel_Init(t *testing.T) {
	m := newTestModel()
	assert.NotNil(t, m.Init())
	assert.Equal(t, wizard.StateInit, m.Session().State())
	assert.Equal(t, "Matrix Wizard", m.menu.Title)
}

func TestModel_WindowSize(t *testing.T) {
	updated, _ := newTestModel().Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := updated.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 116, m.input.Width)
}

func TestModel_CommandLineWalkthrough(t *testing.T) {
	m := newTestModel()

	m, _ = enter(t, m, "next")
	assert.Equal(t, wizard.StateSelectDimension, m.Session().State())

	m, _ = enter(t, m, "size 2 2")
	m, _ = enter(t, m, "next")
	require.Equal(t, wizard.StateInputElements, m.Session().State())

	m, _ = enter(t, m, "set 1 1 1/2 + 1/2")
	m, _ = enter(t, m, "set 2 2 x")
	assert.Empty(t, m.input.Value())
	m, _ = enter(t, m, "next")
	require.Equal(t, wizard.StateElementaryTransformation, m.Session().State())

	v, ok := m.Session().View()
	require.True(t, ok)
	assert.Equal(t, [][]string{{"1", "0"}, {"0", "x"}}, v.Cells)

	m, _ = enter(t, m, "add r1 r2 2")
	v, _ = m.Session().View()
	assert.Equal(t, [][]string{{"1", "2x"}, {"0", "x"}}, v.Cells)
	assert.Equal(t, wizard.SeveritySuccess, lastNote(m).Severity)

	m, _ = enter(t, m, "undo")
	v, _ = m.Session().View()
	assert.Equal(t, [][]string{{"1", "0"}, {"0", "x"}}, v.Cells)

	view := m.View()
	assert.Contains(t, view, "Transform")
	assert.Contains(t, view, "r1")
}

func TestModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"unknown command", "frobnicate", "unknown command"},
		{"bad size", "size two 2", "rows must be a positive number"},
		{"wrong step", "swap r1 r2", "not available in this step"},
		{"undo at start", "undo", "nothing to undo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := enter(t, newTestModel(), tt.line)
			n := lastNote(m)
			assert.Equal(t, wizard.SeverityError, n.Severity)
			assert.Contains(t, n.Message, tt.want)
			assert.Equal(t, wizard.StateInit, m.Session().State())
		})
	}
}

func TestModel_QuickInputAndCoefficientRule(t *testing.T) {
	m, _ := enter(t, newTestModel(), "quick [[1, 2], [3, 4]]")
	require.Equal(t, wizard.StateElementaryTransformation, m.Session().State())

	m, _ = enter(t, m, "scale r1 x")
	assert.Contains(t, lastNote(m).Message, "integer or fraction")
	assert.Equal(t, 1, m.Session().HistoryDepth())
}

func TestModel_VerbsAreCaseInsensitive(t *testing.T) {
	m, _ := enter(t, newTestModel(), "QUICK [[5], [1]]")
	require.Equal(t, wizard.StateElementaryTransformation, m.Session().State())

	m, _ = enter(t, m, "SUB r1 r2 1")
	v, _ := m.Session().View()
	assert.Equal(t, [][]string{{"4"}, {"1"}}, v.Cells)

	m, _ = enter(t, m, "Add r1 r2 2")
	v, _ = m.Session().View()
	assert.Equal(t, [][]string{{"6"}, {"1"}}, v.Cells)
	assert.Equal(t, 3, m.Session().HistoryDepth())
}

func TestModel_SetToleratesExtraSpaces(t *testing.T) {
	m := newTestModel()
	m, _ = enter(t, m, "next")
	m, _ = enter(t, m, "size 2 2")
	m, _ = enter(t, m, "next")
	require.Equal(t, wizard.StateInputElements, m.Session().State())

	tests := []struct {
		line string
		row  int
		col  int
		want string
	}{
		{"set 1  2 x", 0, 1, "x"},
		{"set  2   1   1/2 + 1/2", 1, 0, "1/2 + 1/2"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			m, _ := enter(t, m, tt.line)
			got, ok := m.Session().Draft(tt.row, tt.col)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModel_MenuNavigation(t *testing.T) {
	m := newTestModel()

	// Enter on the first item runs "Next step".
	m = key(m, tea.KeyEnter)
	assert.Equal(t, wizard.StateSelectDimension, m.Session().State())

	// Open the Transform submenu and prefill a swap.
	m = key(m, tea.KeyDown)
	m = key(m, tea.KeyDown)
	m = key(m, tea.KeyEnter)
	require.Equal(t, "Transform", m.menu.Title)
	m = key(m, tea.KeyEnter)
	assert.Equal(t, "swap r1 r2", m.input.Value())

	// Esc clears the input first, then leaves the submenu.
	m = key(m, tea.KeyEsc)
	assert.Empty(t, m.input.Value())
	m = key(m, tea.KeyEsc)
	assert.Equal(t, "Matrix Wizard", m.menu.Title)
	assert.Nil(t, m.menu.Parent)
}

func TestModel_BackItemReturnsToParent(t *testing.T) {
	root := buildMenuTree()
	sub := root.Items[2].Submenu
	require.NotNil(t, sub)
	assert.Same(t, root, sub.Parent)

	back := sub.Items[len(sub.Items)-1]
	assert.Equal(t, "Back", back.Label)
	assert.Same(t, root, back.Submenu)
}

func TestModel_Quit(t *testing.T) {
	for _, tt := range []struct {
		name string
		run  func(Model) tea.Cmd
	}{
		{"ctrl+c", func(m Model) tea.Cmd {
			_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
			return cmd
		}},
		{"quit command", func(m Model) tea.Cmd {
			_, cmd := enter(t, m, "quit")
			return cmd
		}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cmd := tt.run(newTestModel())
			require.NotNil(t, cmd)
			_, ok := cmd().(tea.QuitMsg)
			assert.True(t, ok)
		})
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := enter(t, newTestModel(), "help")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "scale r1 K")

	m, _ = enter(t, m, "?")
	assert.False(t, m.showHelp)
}

func TestModel_NotesAreBounded(t *testing.T) {
	m := newTestModel()
	for i := 0; i < maxNotes+3; i++ {
		m, _ = enter(t, m, "bogus")
	}
	assert.Len(t, m.notes, maxNotes)
}
