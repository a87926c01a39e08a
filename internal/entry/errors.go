package entry

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped in *ValidationError) by Normalize.
var (
	ErrDenominatorZero     = errors.New("denominator is zero")
	ErrUnknownVariable     = errors.New("unknown variable")
	ErrMalformedPolynomial = errors.New("malformed polynomial")
	ErrUnfilledCell        = errors.New("cell is empty")
)

// Position is a 1-based cell coordinate. The zero Position means the value
// was not typed into a cell.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("row %d, column %d", p.Row, p.Col)
}

// ValidationError reports why a raw cell value was rejected.
type ValidationError struct {
	Position
	Value  string // raw input
	Offset int    // rune offset into Value, -1 if not applicable
	Name   string // offending variable name for ErrUnknownVariable
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Row > 0 {
		return fmt.Sprintf("%s (%q): %s", e.Position, e.Value, msg)
	}
	return fmt.Sprintf("%q: %s", e.Value, msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// At returns a copy of e located at pos.
func (e *ValidationError) At(pos Position) *ValidationError {
	c := *e
	c.Position = pos
	return &c
}
