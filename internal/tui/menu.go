package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one selectable line. Items with a Submenu open it; items
// with an Action run it. A "Back" item returns to the parent menu.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func(m *Model) tea.Cmd
}

type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

/* ----------------------------------------
	MENU TREE DEFINITION
---------------------------------------- */

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == "Back" {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

func buildMenuTree() *Menu {
	root := &Menu{
		Title: "Matrix Wizard",
		Items: []MenuItem{
			{Label: "Next step", Action: run((*wizard.Session).Next)},
			{Label: "Undo", Action: run((*wizard.Session).Undo)},
			{Label: "Transform ->", Submenu: loadTransformMenu()},
			{Label: "Quick input", Action: prefill("quick [[1, 2], [3, 4]]")},
			{Label: "Reset", Action: run(func(s *wizard.Session) error {
				s.Reset()
				return nil
			})},
			{Label: "Quit", Action: func(*Model) tea.Cmd { return tea.Quit }},
		},
	}

	linkParents(root, nil)

	return root
}

/* ----------------------------------------
	LOAD MENUS
---------------------------------------- */

func loadTransformMenu() *Menu {
	return &Menu{
		Title: "Transform",
		Items: []MenuItem{
			{Label: "Swap rows", Action: prefill("swap r1 r2")},
			{Label: "Swap columns", Action: prefill("swap c1 c2")},
			{Label: "Add multiple", Action: prefill("add r1 r2 1")},
			{Label: "Subtract multiple", Action: prefill("sub r1 r2 1")},
			{Label: "Scale", Action: prefill("scale r1 2")},
			{Label: "Back"},
		},
	}
}

// run wraps a session operation as a menu action.
func run(fn action) func(m *Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		return m.exec(fn)
	}
}

// prefill puts a command template on the input line for editing.
func prefill(line string) func(m *Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		m.input.SetValue(line)
		m.input.CursorEnd()
		return nil
	}
}
