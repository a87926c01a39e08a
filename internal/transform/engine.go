package transform

import (
	"fmt"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
)

// Apply runs cmd against a copy of m and returns the copy. m itself is never
// modified, so a failed command leaves nothing to roll back.
//
// A scaled add or subtract whose target equals its source is allowed: the
// source line is read in full before the target is written, so
// "r1 + 2×r1" triples row 1. Scaling by zero returns ErrZeroScale.
func Apply(m *matrix.Matrix, cmd Command) (*matrix.Matrix, error) {
	if m == nil {
		return nil, matrix.ErrEmptyMatrix
	}
	if err := Validate(m, cmd); err != nil {
		return nil, err
	}

	out := m.Clone()
	switch cmd.Op {
	case OpSwap:
		if cmd.Target == cmd.Source {
			return out, nil
		}
		a := line(m, cmd.Axis, cmd.Target)
		b := line(m, cmd.Axis, cmd.Source)
		setLine(out, cmd.Axis, cmd.Target, b)
		setLine(out, cmd.Axis, cmd.Source, a)

	case OpAdd, OpSubtract:
		src := line(m, cmd.Axis, cmd.Source)
		dst := line(m, cmd.Axis, cmd.Target)
		for p := range dst {
			dst[p] = entry.AddScaled(dst[p], cmd.Coefficient, src[p], cmd.Op == OpSubtract)
		}
		setLine(out, cmd.Axis, cmd.Target, dst)

	case OpScale:
		dst := line(m, cmd.Axis, cmd.Target)
		for p := range dst {
			dst[p] = entry.Mul(cmd.Coefficient, dst[p])
		}
		setLine(out, cmd.Axis, cmd.Target, dst)
	}
	return out, nil
}

// Validate checks cmd against the shape of m without applying it.
func Validate(m *matrix.Matrix, cmd Command) error {
	count := m.Rows()
	if cmd.Axis == Col {
		count = m.Cols()
	}

	if cmd.Target < 0 || cmd.Target >= count {
		return &IndexError{Axis: cmd.Axis, Index: cmd.Target, Count: count}
	}

	switch cmd.Op {
	case OpSwap:
		if cmd.Source < 0 || cmd.Source >= count {
			return &IndexError{Axis: cmd.Axis, Index: cmd.Source, Count: count}
		}
	case OpAdd, OpSubtract:
		if cmd.Source < 0 || cmd.Source >= count {
			return &IndexError{Axis: cmd.Axis, Index: cmd.Source, Count: count}
		}
		if !cmd.Coefficient.IsConstant() {
			return fmt.Errorf("%w: got %q", ErrCoefficientMustBeConstant, cmd.Coefficient)
		}
	case OpScale:
		if !cmd.Coefficient.IsConstant() {
			return fmt.Errorf("%w: got %q", ErrCoefficientMustBeConstant, cmd.Coefficient)
		}
		if cmd.Coefficient.IsZero() {
			return ErrZeroScale
		}
	default:
		return fmt.Errorf("%w: unknown operation %d", ErrMalformedCommand, int(cmd.Op))
	}
	return nil
}

// line and setLine assume the index was validated.
func line(m *matrix.Matrix, axis Axis, i int) []entry.Entry {
	var (
		out []entry.Entry
		err error
	)
	if axis == Col {
		out, err = m.Col(i)
	} else {
		out, err = m.Row(i)
	}
	if err != nil {
		panic(err)
	}
	return out
}

func setLine(m *matrix.Matrix, axis Axis, i int, vals []entry.Entry) {
	var err error
	if axis == Col {
		err = m.SetCol(i, vals)
	} else {
		err = m.SetRow(i, vals)
	}
	if err != nil {
		panic(err)
	}
}
