// Package wizard sequences matrix authoring: choose dimensions, type the
// entries, then apply elementary transformations, with undo at every step.
//
//	Init --Next--> SelectDimension --Next--> InputElements --Next--> ElementaryTransformation
//
// Every forward step pushes a history frame first and pops it again if the
// step fails, so the history depth always equals the number of successful
// forward steps and a failed step changes nothing.
//
// A Session is not safe for concurrent use; callers serving several
// goroutines must serialize access.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/JonMunkholm/MatrixWizard/internal/transform"
)

// DefaultGridSize is the largest selectable region per side, matching the
// 10×10 selection grid.
const DefaultGridSize = 10

// Options configures a Session. Zero values take defaults.
type Options struct {
	MaxRows int
	MaxCols int

	// FillEmptyWithZero turns blank cells into 0 when leaving the input
	// step. When false a blank cell fails with ErrUnfilledCell.
	FillEmptyWithZero bool

	Logger   *slog.Logger
	Notifier Notifier
}

// DefaultOptions returns a 10×10 grid that fills blanks with zero.
func DefaultOptions() Options {
	return Options{MaxRows: DefaultGridSize, MaxCols: DefaultGridSize, FillEmptyWithZero: true}
}

// Session is one matrix-authoring context.
type Session struct {
	opts   Options
	log    *slog.Logger
	notify Notifier

	state     State
	matrix    *matrix.Matrix
	drafts    [][]string
	selection Selection
	history   History
	journal   []string
}

// New returns a session in StateInit.
func New(opts Options) *Session {
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultGridSize
	}
	if opts.MaxCols <= 0 {
		opts.MaxCols = DefaultGridSize
	}
	s := &Session{opts: opts, log: opts.Logger, notify: opts.Notifier}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.notify == nil {
		s.notify = discard{}
	}
	return s
}

// SetNotifier replaces the notifier. A nil notifier discards reports.
func (s *Session) SetNotifier(n Notifier) {
	if n == nil {
		n = discard{}
	}
	s.notify = n
}

func (s *Session) State() State         { return s.state }
func (s *Session) Selection() Selection { return s.selection }
func (s *Session) HistoryDepth() int    { return s.history.Len() }
func (s *Session) CanNext() bool        { return s.state != StateElementaryTransformation }
func (s *Session) CanUndo() bool        { return s.history.Len() > 0 }
func (s *Session) Options() Options     { return s.opts }

// View returns the rendering view of the live matrix. ok is false before
// dimensions are committed.
func (s *Session) View() (v matrix.View, ok bool) {
	if s.matrix == nil {
		return matrix.View{}, false
	}
	return s.matrix.View(), true
}

// Matrix returns a copy of the live matrix, or nil.
func (s *Session) Matrix() *matrix.Matrix { return s.matrix.Clone() }

// Drafts returns a copy of the raw cell texts.
func (s *Session) Drafts() [][]string { return copyDrafts(s.drafts) }

// Journal returns the operations applied in the transformation step,
// oldest first.
func (s *Session) Journal() []string { return append([]string(nil), s.journal...) }

// Next advances one step. See the package documentation.
func (s *Session) Next() error {
	if s.state == StateElementaryTransformation {
		return s.fail("next", ErrTerminalState)
	}

	from := s.state
	s.pushFrame()

	var err error
	switch s.state {
	case StateInit:
		s.state = StateSelectDimension
		s.notify.Report("Select the matrix dimensions", SeverityInfo)
	case StateSelectDimension:
		err = s.commitSelection()
	case StateInputElements:
		err = s.commitDrafts()
	}

	if err != nil {
		s.history.Pop()
		return s.fail("next", err)
	}
	s.log.Debug("wizard step", "from", from, "to", s.state, "history", s.history.Len())
	return nil
}

// Undo returns to the state before the last successful forward step.
func (s *Session) Undo() error {
	f, ok := s.history.Pop()
	if !ok {
		return s.fail("undo", ErrNoHistoryToUndo)
	}
	from := s.state
	s.state = f.State
	s.matrix = f.Matrix
	s.drafts = f.Drafts
	s.selection = f.Selection
	s.journal = s.journal[:f.JournalLen]

	s.log.Debug("wizard undo", "from", from, "to", s.state, "history", s.history.Len())
	s.notify.Report(fmt.Sprintf("Undone: back to %s", s.state), SeverityInfo)
	return nil
}

// Reset discards the matrix, drafts, selection and history and returns to
// StateInit.
func (s *Session) Reset() {
	s.state = StateInit
	s.matrix = nil
	s.drafts = nil
	s.selection = Selection{}
	s.history.Clear()
	s.journal = nil
	s.log.Debug("wizard reset")
	s.notify.Report("Wizard reset", SeverityInfo)
}

// Select chooses a rows×cols region in the dimension step. A 0 in either
// direction clears the selection.
func (s *Session) Select(rows, cols int) error {
	if s.state != StateSelectDimension {
		return s.fail("select", s.wrongState("select dimensions"))
	}
	if rows < 0 || rows > s.opts.MaxRows {
		return s.fail("select", fmt.Errorf("%w: %d rows, grid allows 1..%d", matrix.ErrOutOfRange, rows, s.opts.MaxRows))
	}
	if cols < 0 || cols > s.opts.MaxCols {
		return s.fail("select", fmt.Errorf("%w: %d columns, grid allows 1..%d", matrix.ErrOutOfRange, cols, s.opts.MaxCols))
	}
	s.selection = Selection{Rows: rows, Cols: cols}
	s.notify.Report("Dimensions: "+s.selection.String(), SeverityInfo)
	return nil
}

// SetDraft records the text typed into cell (row, col), 0-based, and
// validates it. The text is kept even when invalid so it can be corrected;
// valid values are written to the live matrix immediately.
func (s *Session) SetDraft(row, col int, raw string) (entry.Entry, error) {
	if s.state != StateInputElements {
		return entry.Entry{}, s.fail("set cell", s.wrongState("edit cells"))
	}
	if row < 0 || row >= len(s.drafts) || col < 0 || col >= len(s.drafts[row]) {
		return entry.Entry{}, s.fail("set cell", fmt.Errorf("%w: cell (%d, %d) outside %s",
			matrix.ErrOutOfRange, row+1, col+1, s.selection))
	}

	s.drafts[row][col] = raw
	e, err := entry.Normalize(raw, entry.Position{Row: row + 1, Col: col + 1})
	if err != nil {
		return entry.Entry{}, s.fail("set cell", err)
	}
	if err := s.matrix.Set(row, col, e); err != nil {
		panic(err)
	}
	return e, nil
}

// Draft returns the raw text of cell (row, col), 0-based.
func (s *Session) Draft(row, col int) (string, bool) {
	if row < 0 || row >= len(s.drafts) || col < 0 || col >= len(s.drafts[row]) {
		return "", false
	}
	return s.drafts[row][col], true
}

// QuickInput replaces the matrix with a bulk literal such as [[1,2],[3,x]]
// and jumps to the transformation step. It is a forward step and can be
// undone. It is not available once the transformation step is reached;
// Undo or Reset first.
func (s *Session) QuickInput(literal string) error {
	if s.state == StateElementaryTransformation {
		return s.fail("quick input", s.wrongState("replace the matrix"))
	}
	if strings.TrimSpace(literal) == "" {
		return s.fail("quick input", fmt.Errorf("%w: enter a matrix such as [[1,2],[3,4]]", ErrEmptyMatrix))
	}

	from := s.state
	s.pushFrame()

	err := func() error {
		grid, err := matrix.ParseLiteral(literal)
		if err != nil {
			return err
		}
		if len(grid) > s.opts.MaxRows || len(grid[0]) > s.opts.MaxCols {
			return fmt.Errorf("%w: %d×%d exceeds the %d×%d grid",
				matrix.ErrOutOfRange, len(grid), len(grid[0]), s.opts.MaxRows, s.opts.MaxCols)
		}
		return s.commitGrid(grid)
	}()
	if err != nil {
		s.history.Pop()
		return s.fail("quick input", err)
	}

	s.selection = Selection{Rows: s.matrix.Rows(), Cols: s.matrix.Cols()}
	s.log.Debug("wizard quick input", "from", from, "dimensions", s.matrix.Dimensions())
	return nil
}

// Apply runs an elementary transformation on the live matrix.
func (s *Session) Apply(cmd transform.Command) error {
	if s.state != StateElementaryTransformation {
		return s.fail("transform", s.wrongState("apply transformations"))
	}
	if s.matrix == nil {
		return s.fail("transform", ErrEmptyMatrix)
	}

	s.pushFrame()
	out, err := transform.Apply(s.matrix, cmd)
	if err != nil {
		s.history.Pop()
		return s.fail("transform", err)
	}

	s.matrix = out
	s.drafts = out.Strings()
	s.journal = append(s.journal, cmd.String())
	s.log.Debug("wizard transform", "op", cmd.Op, "command", cmd.String())
	s.notify.Report("Applied "+cmd.String(), SeveritySuccess)
	return nil
}

// ApplyFields parses the transformation form fields and applies the result.
func (s *Session) ApplyFields(target, param, coefficient, operator string) error {
	if s.state != StateElementaryTransformation {
		return s.fail("transform", s.wrongState("apply transformations"))
	}
	cmd, err := transform.ParseCommand(target, param, coefficient, operator)
	if err != nil {
		return s.fail("transform", err)
	}
	return s.Apply(cmd)
}

func (s *Session) pushFrame() {
	s.history.Push(Frame{
		State:      s.state,
		Matrix:     s.matrix.Clone(),
		Drafts:     copyDrafts(s.drafts),
		Selection:  s.selection,
		JournalLen: len(s.journal),
	})
}

// commitSelection allocates the drafts and a zero matrix for the selected
// region. Drafts typed before an undo survive where the shapes overlap.
func (s *Session) commitSelection() error {
	if s.selection.Empty() {
		return ErrEmptySelection
	}
	m, err := matrix.New(s.selection.Rows, s.selection.Cols)
	if err != nil {
		return err
	}

	drafts := make([][]string, s.selection.Rows)
	for r := range drafts {
		drafts[r] = make([]string, s.selection.Cols)
		for c := range drafts[r] {
			if old, ok := s.Draft(r, c); ok {
				drafts[r][c] = old
				if e, err := entry.Parse(old); err == nil {
					if err := m.Set(r, c, e); err != nil {
						panic(err)
					}
				}
			}
		}
	}

	s.matrix = m
	s.drafts = drafts
	s.state = StateInputElements
	s.notify.Report("Enter the elements of the "+s.selection.String()+" matrix", SeverityInfo)
	return nil
}

func (s *Session) commitDrafts() error {
	return s.commitGrid(s.drafts)
}

// commitGrid validates every cell and, only if all pass, installs the
// matrix and moves to StateElementaryTransformation.
func (s *Session) commitGrid(grid [][]string) error {
	filled := 0
	cells := make([][]string, len(grid))
	for r, row := range grid {
		cells[r] = make([]string, len(row))
		for c, raw := range row {
			if strings.TrimSpace(raw) == "" {
				if !s.opts.FillEmptyWithZero {
					return &entry.ValidationError{
						Position: entry.Position{Row: r + 1, Col: c + 1},
						Value:    raw,
						Offset:   -1,
						Reason:   "enter a value",
						Err:      ErrUnfilledCell,
					}
				}
				filled++
				raw = "0"
			}
			cells[r][c] = raw
		}
	}

	m, err := matrix.FromStrings(cells)
	if err != nil {
		return err
	}

	s.matrix = m
	s.drafts = m.Strings()
	s.state = StateElementaryTransformation
	if filled > 0 {
		s.notify.Report(fmt.Sprintf("%d empty cell(s) filled with 0", filled), SeverityWarning)
	}
	s.notify.Report("Matrix entered: "+m.Dimensions(), SeveritySuccess)
	return nil
}

func (s *Session) wrongState(action string) error {
	return fmt.Errorf("%w: cannot %s during %s", ErrWrongState, action, s.state)
}

// fail logs and reports err and returns it unchanged.
func (s *Session) fail(op string, err error) error {
	level := slog.LevelInfo
	var verr *entry.ValidationError
	if errors.As(err, &verr) {
		level = slog.LevelDebug
	}
	s.log.Log(context.Background(), level, "wizard operation rejected", "op", op, "state", s.state, "error", err)
	s.notify.Report(err.Error(), SeverityError)
	return err
}
