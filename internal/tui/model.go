// Package tui is the terminal front end of the matrix wizard. It drives a
// wizard.Session from a menu and a command line and renders the matrix
// after every step.
package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

// maxNotes is how many notifications stay on screen.
const maxNotes = 4

// Model implements tea.Model around one wizard session.
type Model struct {
	wiz   *wizard.Session
	inbox *wizard.Recorder

	input  textinput.Model
	menu   *Menu
	cursor int

	notes    []wizard.Note
	showHelp bool
	quitting bool

	width  int
	height int
}

// New creates a model with a fresh session. opts.Notifier is replaced by
// the model's own.
func New(opts wizard.Options) Model {
	inbox := &wizard.Recorder{}
	opts.Notifier = inbox

	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = "type a command, or help"
	ti.CharLimit = 512
	ti.Focus()

	return Model{
		wiz:   wizard.New(opts),
		inbox: inbox,
		input: ti,
		menu:  buildMenuTree(),
		notes: []wizard.Note{{Message: "Press Enter on Next step to begin", Severity: wizard.SeverityInfo}},
		width: 80,
	}
}

// Session exposes the underlying wizard session.
func (m Model) Session() *wizard.Session { return m.wiz }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.menu.Items)-1 {
			m.cursor++
		}
		return m, nil

	case tea.KeyEsc:
		if m.input.Value() != "" {
			m.input.Reset()
		} else if m.menu.Parent != nil {
			m.menu = m.menu.Parent
			m.cursor = 0
		}
		return m, nil

	case tea.KeyEnter:
		line := m.input.Value()
		if line == "" {
			cmd := m.activate()
			return m, cmd
		}
		m.input.Reset()
		cmd := m.runLine(line)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// activate runs or opens the highlighted menu item.
func (m *Model) activate() tea.Cmd {
	item := m.menu.Items[m.cursor]
	if item.Submenu != nil {
		m.menu = item.Submenu
		m.cursor = 0
		return nil
	}
	if item.Action != nil {
		return item.Action(m)
	}
	return nil
}

func (m *Model) runLine(line string) tea.Cmd {
	switch line {
	case "help", "?":
		m.showHelp = !m.showHelp
		return nil
	}

	fn, err := parseCommand(line)
	if err != nil {
		m.addNote(wizard.Note{Message: err.Error(), Severity: wizard.SeverityError})
		return nil
	}
	return m.exec(fn)
}

// exec runs fn against the session and collects what it reported.
func (m *Model) exec(fn action) tea.Cmd {
	err := fn(m.wiz)
	if errors.Is(err, errQuit) {
		m.quitting = true
		return tea.Quit
	}
	for _, n := range m.inbox.Drain() {
		m.addNote(n)
	}
	return nil
}

func (m *Model) addNote(n wizard.Note) {
	m.notes = append(m.notes, n)
	if len(m.notes) > maxNotes {
		m.notes = m.notes[len(m.notes)-maxNotes:]
	}
}
