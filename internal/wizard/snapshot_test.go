package wizard

import (
	"encoding/json"
	"testing"

	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSnapshotRestore(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)
	enter(t, s, [][]string{{"1", "a/b"}, {"x", "4"}})
	require.NoError(t, s.ApplyFields("r2", "r1", "2", "+"))

	snap := s.Snapshot()
	assert.Equal(t, StateElementaryTransformation, snap.State)
	require.Len(t, snap.History, 4)
	require.NotNil(t, snap.Matrix)
	assert.True(t, snap.Matrix.IsDegraded(0, 1))
	assert.True(t, snap.Matrix.IsDegraded(1, 1))
	assert.False(t, snap.Matrix.IsDegraded(1, 0))

	restored := New(DefaultOptions())
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, s.State(), restored.State())
	assert.True(t, s.Matrix().Equal(restored.Matrix()))
	assert.Equal(t, s.Journal(), restored.Journal())
	assert.Equal(t, 4, restored.HistoryDepth())

	for i := 0; i < 4; i++ {
		require.NoError(t, restored.Undo())
	}
	assert.Equal(t, StateInit, restored.State())
}

func TestSnapshotEncodings(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)
	enter(t, s, [][]string{{"1/2", "x-y"}})

	snap := s.Snapshot()

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(snap)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"state":"elementary_transformation"`)

		var back Snapshot
		require.NoError(t, json.Unmarshal(data, &back))
		restored := New(DefaultOptions())
		require.NoError(t, restored.Restore(back))
		assert.True(t, s.Matrix().Equal(restored.Matrix()))
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		data, err := yaml.Marshal(snap)
		require.NoError(t, err)
		assert.Contains(t, string(data), "state: elementary_transformation")

		var back Snapshot
		require.NoError(t, yaml.Unmarshal(data, &back))
		restored := New(DefaultOptions())
		require.NoError(t, restored.Restore(back))
		assert.Equal(t, s.HistoryDepth(), restored.HistoryDepth())
	})
}

func TestRestoreRejectsBadSnapshot(t *testing.T) {
	t.Parallel()
	s, _ := newSession(t)
	enter(t, s, [][]string{{"1"}})

	err := s.Restore(Snapshot{State: StateInputElements})
	assert.ErrorIs(t, err, ErrEmptyMatrix)

	err = s.Restore(Snapshot{
		State:  StateElementaryTransformation,
		Matrix: &matrix.View{Rows: 1, Cols: 1, Cells: [][]string{{"k"}}},
	})
	assert.Error(t, err)

	assert.Equal(t, StateElementaryTransformation, s.State())
	assert.Equal(t, 3, s.HistoryDepth())
}

func TestRestoreRejectsBadHistoryFrame(t *testing.T) {
	t.Parallel()
	one := &matrix.View{Rows: 1, Cols: 1, Cells: [][]string{{"2"}}}

	tests := []struct {
		name  string
		frame FrameSnapshot
	}{
		{"unknown state", FrameSnapshot{State: State(9)}},
		{"negative state", FrameSnapshot{State: State(-1)}},
		{"input without matrix", FrameSnapshot{State: StateInputElements}},
		{"transformation without matrix", FrameSnapshot{State: StateElementaryTransformation}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newSession(t)
			enter(t, s, [][]string{{"1"}})

			err := s.Restore(Snapshot{
				State:   StateElementaryTransformation,
				Matrix:  one,
				History: []FrameSnapshot{{State: StateInit}, tt.frame},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "history frame 1")

			assert.Equal(t, [][]string{{"1"}}, cellsOf(t, s))
			assert.Equal(t, 3, s.HistoryDepth())
		})
	}
}

func TestHistory(t *testing.T) {
	t.Parallel()

	var h History
	_, ok := h.Pop()
	assert.False(t, ok)

	h.Push(Frame{State: StateInit})
	h.Push(Frame{State: StateSelectDimension, Selection: Selection{Rows: 2, Cols: 3}})
	assert.Equal(t, 2, h.Len())

	f, ok := h.Pop()
	require.True(t, ok)
	assert.Equal(t, StateSelectDimension, f.State)
	assert.Equal(t, Selection{Rows: 2, Cols: 3}, f.Selection)

	h.Clear()
	assert.Zero(t, h.Len())
}

func TestStateText(t *testing.T) {
	t.Parallel()

	for _, st := range []State{StateInit, StateSelectDimension, StateInputElements, StateElementaryTransformation} {
		got, err := ParseState(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, got)
	}
	_, err := ParseState("finished")
	assert.Error(t, err)
	assert.Equal(t, "state(9)", State(9).String())
}

func TestNoteJSON(t *testing.T) {
	for _, sev := range []Severity{SeverityInfo, SeverityWarning, SeverityError, SeveritySuccess} {
		b, err := json.Marshal(Note{Message: "m", Severity: sev})
		require.NoError(t, err)

		var got Note
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, sev, got.Severity)
	}

	var n Note
	assert.Error(t, json.Unmarshal([]byte(`{"message":"m","severity":"fatal"}`), &n))
}
