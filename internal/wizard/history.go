package wizard

import "github.com/JonMunkholm/MatrixWizard/internal/matrix"

// Frame is what a session looked like before a forward step.
type Frame struct {
	State      State
	Matrix     *matrix.Matrix // nil before dimensions are committed
	Drafts     [][]string
	Selection  Selection
	JournalLen int
}

// History is a LIFO of frames. It owns its frames: matrices and drafts
// pushed here are copies the live session never touches.
type History struct {
	frames []Frame
}

// Push appends f.
func (h *History) Push(f Frame) {
	h.frames = append(h.frames, f)
}

// Pop removes and returns the most recent frame.
func (h *History) Pop() (Frame, bool) {
	if len(h.frames) == 0 {
		return Frame{}, false
	}
	f := h.frames[len(h.frames)-1]
	h.frames[len(h.frames)-1] = Frame{}
	h.frames = h.frames[:len(h.frames)-1]
	return f, true
}

// Len returns the number of frames.
func (h *History) Len() int { return len(h.frames) }

// Clear drops every frame.
func (h *History) Clear() { h.frames = nil }

// Frames returns the frames oldest first. The slice is a copy; the frames
// still share matrices with the history.
func (h *History) Frames() []Frame {
	out := make([]Frame, len(h.frames))
	copy(out, h.frames)
	return out
}

func copyDrafts(d [][]string) [][]string {
	if d == nil {
		return nil
	}
	out := make([][]string, len(d))
	for i, row := range d {
		out[i] = append([]string(nil), row...)
	}
	return out
}
