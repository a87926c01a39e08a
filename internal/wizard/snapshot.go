package wizard

import (
	"fmt"

	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
)

// Snapshot is the serializable form of a Session, history included.
type Snapshot struct {
	State     State           `json:"state" yaml:"state"`
	Selection Selection       `json:"selection" yaml:"selection"`
	Matrix    *matrix.View    `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Drafts    [][]string      `json:"drafts,omitempty" yaml:"drafts,omitempty"`
	Journal   []string        `json:"journal,omitempty" yaml:"journal,omitempty"`
	History   []FrameSnapshot `json:"history,omitempty" yaml:"history,omitempty"`
}

// FrameSnapshot is the serializable form of a Frame.
type FrameSnapshot struct {
	State      State        `json:"state" yaml:"state"`
	Selection  Selection    `json:"selection" yaml:"selection"`
	Matrix     *matrix.View `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Drafts     [][]string   `json:"drafts,omitempty" yaml:"drafts,omitempty"`
	JournalLen int          `json:"journal_len" yaml:"journal_len"`
}

// Snapshot captures the session. The result shares nothing with it.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Selection: s.selection,
		Matrix:    viewOf(s.matrix),
		Drafts:    copyDrafts(s.drafts),
		Journal:   s.Journal(),
	}
	for _, f := range s.history.Frames() {
		snap.History = append(snap.History, FrameSnapshot{
			State:      f.State,
			Selection:  f.Selection,
			Matrix:     viewOf(f.Matrix),
			Drafts:     copyDrafts(f.Drafts),
			JournalLen: f.JournalLen,
		})
	}
	return snap
}

// Restore replaces the session's contents with snap. On error the session
// is unchanged.
func (s *Session) Restore(snap Snapshot) error {
	m, err := matrixOf(snap.Matrix)
	if err != nil {
		return fmt.Errorf("restore matrix: %w", err)
	}
	if err := checkState(snap.State, m); err != nil {
		return err
	}

	var h History
	for i, fs := range snap.History {
		fm, err := matrixOf(fs.Matrix)
		if err != nil {
			return fmt.Errorf("restore history frame %d: %w", i, err)
		}
		if err := checkState(fs.State, fm); err != nil {
			return fmt.Errorf("restore history frame %d: %w", i, err)
		}
		if fs.JournalLen < 0 || fs.JournalLen > len(snap.Journal) {
			return fmt.Errorf("restore history frame %d: journal length %d out of range", i, fs.JournalLen)
		}
		h.Push(Frame{
			State:      fs.State,
			Matrix:     fm,
			Drafts:     copyDrafts(fs.Drafts),
			Selection:  fs.Selection,
			JournalLen: fs.JournalLen,
		})
	}

	s.state = snap.State
	s.selection = snap.Selection
	s.matrix = m
	s.drafts = copyDrafts(snap.Drafts)
	s.journal = append([]string(nil), snap.Journal...)
	s.history = h
	return nil
}

func checkState(st State, m *matrix.Matrix) error {
	if st < StateInit || st > StateElementaryTransformation {
		return fmt.Errorf("restore: invalid state %d", int(st))
	}
	if st >= StateInputElements && m == nil {
		return fmt.Errorf("restore: state %s needs a matrix: %w", st, ErrEmptyMatrix)
	}
	return nil
}

func viewOf(m *matrix.Matrix) *matrix.View {
	if m == nil {
		return nil
	}
	v := m.View()
	return &v
}

func matrixOf(v *matrix.View) (*matrix.Matrix, error) {
	if v == nil {
		return nil, nil
	}
	return matrix.FromView(*v)
}

// Clone returns a deep copy of snap.
func (snap Snapshot) Clone() Snapshot {
	out := Snapshot{
		State:     snap.State,
		Selection: snap.Selection,
		Matrix:    cloneView(snap.Matrix),
		Drafts:    copyDrafts(snap.Drafts),
		Journal:   append([]string(nil), snap.Journal...),
	}
	for _, f := range snap.History {
		f.Matrix = cloneView(f.Matrix)
		f.Drafts = copyDrafts(f.Drafts)
		out.History = append(out.History, f)
	}
	return out
}

func cloneView(v *matrix.View) *matrix.View {
	if v == nil {
		return nil
	}
	c := v.Clone()
	return &c
}
