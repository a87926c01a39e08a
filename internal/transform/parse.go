package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
)

// ParseCommand builds a Command from the free-text fields of the
// transformation form:
//
//	target       "r<N>" or "c<N>", 1-based
//	param        same shape; required for swap, add and subtract, empty for scale
//	coefficient  integer, decimal or fraction; required for add, subtract and scale
//	operator     one of ↔ + − × (ASCII "<->", "-", "*" and "x" are accepted)
//
// The coefficient is normalized but not checked for being constant; Apply
// does that so both entry points report ErrCoefficientMustBeConstant.
func ParseCommand(target, param, coefficient, operator string) (Command, error) {
	op, err := parseOp(operator)
	if err != nil {
		return Command{}, err
	}

	axis, t, err := parseRef("target", target)
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Op: op, Axis: axis, Target: t}

	if op == OpScale {
		if strings.TrimSpace(param) != "" {
			return Command{}, fmt.Errorf("%w: scale takes no second %s", ErrMalformedCommand, axis)
		}
	} else {
		paxis, p, err := parseRef("parameter", param)
		if err != nil {
			return Command{}, err
		}
		if paxis != axis {
			return Command{}, fmt.Errorf("%w: %s is a %s but %s is a %s",
				ErrIncompatibleAxisTypes, strings.TrimSpace(target), axis, strings.TrimSpace(param), paxis)
		}
		cmd.Source = p
	}

	if op == OpSwap {
		return cmd, nil
	}

	coefficient = strings.TrimSpace(coefficient)
	if coefficient == "" {
		return Command{}, fmt.Errorf("%w: %s needs a coefficient", ErrMalformedCommand, op)
	}
	k, err := entry.Parse(coefficient)
	if err != nil {
		return Command{}, fmt.Errorf("%w: coefficient: %w", ErrMalformedCommand, err)
	}
	cmd.Coefficient = k
	return cmd, nil
}

func parseOp(s string) (Op, error) {
	switch strings.TrimSpace(s) {
	case "↔", "<->", "<>":
		return OpSwap, nil
	case "+":
		return OpAdd, nil
	case "−", "-":
		return OpSubtract, nil
	case "×", "*", "x", "X":
		return OpScale, nil
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrMalformedCommand, s)
}

// parseRef reads "r3" or "C12" into an axis and a 0-based index.
func parseRef(field, s string) (Axis, int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, fmt.Errorf("%w: %s %q must look like r1 or c1", ErrMalformedCommand, field, s)
	}

	var axis Axis
	switch s[0] {
	case 'r':
		axis = Row
	case 'c':
		axis = Col
	default:
		return 0, 0, fmt.Errorf("%w: %s %q must start with r or c", ErrMalformedCommand, field, s)
	}

	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 1 {
		return 0, 0, fmt.Errorf("%w: %s %q needs a positive number after %q", ErrMalformedCommand, field, s, s[:1])
	}
	return axis, n - 1, nil
}
