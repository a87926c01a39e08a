package wizard

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
)

var (
	ErrEmptySelection  = errors.New("wizard: select at least one row and one column")
	ErrNoHistoryToUndo = errors.New("wizard: nothing to undo")
	ErrTerminalState   = errors.New("wizard: there is no step after elementary transformation")
	ErrWrongState      = errors.New("wizard: not available in this step")

	// Re-exported so callers can match every wizard failure from one package.
	ErrUnfilledCell = entry.ErrUnfilledCell
	ErrEmptyMatrix  = matrix.ErrEmptyMatrix
)

// State is a step of the wizard.
type State int

const (
	StateInit State = iota
	StateSelectDimension
	StateInputElements
	StateElementaryTransformation
)

var stateNames = [...]string{
	StateInit:                     "init",
	StateSelectDimension:          "select_dimension",
	StateInputElements:            "input_elements",
	StateElementaryTransformation: "elementary_transformation",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// ParseState is the inverse of State.String.
func ParseState(name string) (State, error) {
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return 0, fmt.Errorf("wizard: unknown state %q", name)
}

func (s State) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(stateNames) {
		return nil, fmt.Errorf("wizard: invalid state %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	v, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Selection is the region chosen in the dimension step.
type Selection struct {
	Rows int `json:"rows" yaml:"rows"`
	Cols int `json:"cols" yaml:"cols"`
}

// Empty reports whether the selection covers no cell.
func (s Selection) Empty() bool { return s.Rows < 1 || s.Cols < 1 }

func (s Selection) String() string { return fmt.Sprintf("%d×%d", s.Rows, s.Cols) }
