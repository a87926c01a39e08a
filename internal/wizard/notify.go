package wizard

import (
	"fmt"
	"sync"
)

// Severity classifies a notification.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeveritySuccess
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	default:
		return "info"
	}
}

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	switch string(b) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	case "success":
		*s = SeveritySuccess
	default:
		return fmt.Errorf("wizard: unknown severity %q", b)
	}
	return nil
}

// Notifier receives the outcome of every session operation. Sessions never
// format UI; displaying the message is the notifier's business.
type Notifier interface {
	Report(message string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Report(message string, severity Severity) { f(message, severity) }

type discard struct{}

func (discard) Report(string, Severity) {}

// Note is one recorded notification.
type Note struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Recorder is a Notifier that keeps what it receives. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Report(message string, severity Severity) {
	r.mu.Lock()
	r.notes = append(r.notes, Note{Message: message, Severity: severity})
	r.mu.Unlock()
}

// Notes returns a copy of everything recorded so far.
func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Note(nil), r.notes...)
}

// Drain returns the recorded notes and forgets them.
func (r *Recorder) Drain() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.notes
	r.notes = nil
	return out
}

// Last returns the most recent note.
func (r *Recorder) Last() (Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Note{}, false
	}
	return r.notes[len(r.notes)-1], true
}
