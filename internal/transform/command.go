// Package transform applies elementary row and column operations to a
// matrix: swap, scaled add/subtract and scale.
//
// Scaling by zero is not elementary and is rejected with ErrZeroScale.
package transform

import (
	"errors"
	"fmt"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
)

var (
	ErrCoefficientMustBeConstant = errors.New("transform: coefficient must be an integer or fraction")
	ErrIncompatibleAxisTypes     = errors.New("transform: cannot mix a row with a column")
	ErrMalformedCommand          = errors.New("transform: malformed command")
	ErrZeroScale                 = errors.New("transform: cannot scale by zero")

	// ErrIndexOutOfRange is the same sentinel the matrix package uses.
	ErrIndexOutOfRange = matrix.ErrOutOfRange
)

// Axis selects rows or columns.
type Axis int

const (
	Row Axis = iota
	Col
)

func (a Axis) String() string {
	if a == Col {
		return "column"
	}
	return "row"
}

// Prefix is the one-letter form used in command fields: "r" or "c".
func (a Axis) Prefix() string {
	if a == Col {
		return "c"
	}
	return "r"
}

// Op is an elementary operation.
type Op int

const (
	OpSwap Op = iota
	OpAdd
	OpSubtract
	OpScale
)

// Symbol returns the operator symbol shown to users.
func (o Op) Symbol() string {
	switch o {
	case OpSwap:
		return "↔"
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpScale:
		return "×"
	default:
		return "?"
	}
}

func (o Op) String() string {
	switch o {
	case OpSwap:
		return "swap"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpScale:
		return "scale"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// IndexError reports a row or column index outside the matrix.
type IndexError struct {
	Axis  Axis
	Index int // 0-based
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s %d is out of range (matrix has %d)", e.Axis, e.Index+1, e.Count)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// Command is one elementary operation. Target and Source are 0-based.
// Source is unused by OpScale; Coefficient is unused by OpSwap.
type Command struct {
	Op          Op
	Axis        Axis
	Target      int
	Source      int
	Coefficient entry.Entry
}

// Swap exchanges lines i and j.
func Swap(axis Axis, i, j int) Command {
	return Command{Op: OpSwap, Axis: axis, Target: i, Source: j}
}

// ScaledAdd sets target = target + k·source.
func ScaledAdd(axis Axis, target, source int, k entry.Entry) Command {
	return Command{Op: OpAdd, Axis: axis, Target: target, Source: source, Coefficient: k}
}

// ScaledSubtract sets target = target - k·source.
func ScaledSubtract(axis Axis, target, source int, k entry.Entry) Command {
	return Command{Op: OpSubtract, Axis: axis, Target: target, Source: source, Coefficient: k}
}

// Scale sets target = k·target. Apply rejects k = 0 with ErrZeroScale.
func Scale(axis Axis, target int, k entry.Entry) Command {
	return Command{Op: OpScale, Axis: axis, Target: target, Coefficient: k}
}

// String renders the command the way a user writes it, 1-based:
// "r1 ↔ r2", "r1 + 2×r3", "c2 − 1/2×c1", "3×r2".
func (c Command) String() string {
	t := fmt.Sprintf("%s%d", c.Axis.Prefix(), c.Target+1)
	s := fmt.Sprintf("%s%d", c.Axis.Prefix(), c.Source+1)
	switch c.Op {
	case OpSwap:
		return t + " ↔ " + s
	case OpAdd, OpSubtract:
		return fmt.Sprintf("%s %s %s×%s", t, c.Op.Symbol(), c.Coefficient, s)
	case OpScale:
		return fmt.Sprintf("%s×%s", c.Coefficient, t)
	default:
		return c.Op.String()
	}
}
