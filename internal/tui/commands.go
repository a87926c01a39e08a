package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/wizard"
)

// errQuit is returned by the quit command so the model can stop the program.
var errQuit = errors.New("quit")

// errUsage marks a command line that could not be understood.
var errUsage = errors.New("usage")

// action is one parsed command line, run against the session.
type action func(*wizard.Session) error

// commandHelp lists the command line forms, one per line.
var commandHelp = []string{
	"next | undo | reset | quit",
	"size R C            select R rows and C columns",
	"set R C VALUE       type VALUE into cell (R, C)",
	"quick [[1,2],[3,4]] enter the whole matrix",
	"swap r1 r2          exchange two rows (or c1 c2)",
	"add r1 r2 K         r1 ← r1 + K×r2",
	"sub r1 r2 K         r1 ← r1 − K×r2",
	"scale r1 K          r1 ← K×r1",
}

// parseCommand turns a command line into an action. Row and column
// numbers are 1-based, as shown on screen.
func parseCommand(line string) (action, error) {
	line = strings.TrimSpace(line)
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	verb = strings.ToLower(verb)

	switch verb {
	case "next", "n":
		return (*wizard.Session).Next, nil
	case "undo", "u":
		return (*wizard.Session).Undo, nil
	case "reset":
		return func(s *wizard.Session) error {
			s.Reset()
			return nil
		}, nil
	case "quit", "q", "exit":
		return func(*wizard.Session) error { return errQuit }, nil

	case "size":
		if len(args) != 2 {
			return nil, usage("size R C")
		}
		rows, err := positive("rows", args[0])
		if err != nil {
			return nil, err
		}
		cols, err := positive("columns", args[1])
		if err != nil {
			return nil, err
		}
		return func(s *wizard.Session) error { return s.Select(rows, cols) }, nil

	case "set":
		// The value may contain spaces: "set 1 2 x + 1".
		if len(args) < 2 {
			return nil, usage("set R C VALUE")
		}
		row, err := positive("row", args[0])
		if err != nil {
			return nil, err
		}
		col, err := positive("column", args[1])
		if err != nil {
			return nil, err
		}
		value := strings.TrimSpace(strings.TrimPrefix(rest, args[0]))
		value = strings.TrimSpace(strings.TrimPrefix(value, args[1]))
		return func(s *wizard.Session) error {
			_, err := s.SetDraft(row-1, col-1, value)
			return err
		}, nil

	case "quick":
		if rest == "" {
			return nil, usage("quick [[1,2],[3,4]]")
		}
		return func(s *wizard.Session) error { return s.QuickInput(rest) }, nil

	case "swap":
		if len(args) != 2 {
			return nil, usage("swap r1 r2")
		}
		return fields(args[0], args[1], "", "↔"), nil
	case "add", "sub":
		if len(args) != 3 {
			return nil, usage(verb + " r1 r2 K")
		}
		op := "+"
		if verb == "sub" {
			op = "−"
		}
		return fields(args[0], args[1], args[2], op), nil
	case "scale":
		if len(args) != 2 {
			return nil, usage("scale r1 K")
		}
		return fields(args[0], "", args[1], "×"), nil
	}
	return nil, fmt.Errorf("%w: unknown command %q, type help", errUsage, verb)
}

func fields(target, param, coefficient, operator string) action {
	return func(s *wizard.Session) error {
		return s.ApplyFields(target, param, coefficient, operator)
	}
}

func usage(form string) error {
	return fmt.Errorf("%w: %s", errUsage, form)
}

func positive(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive number, got %q", errUsage, name, s)
	}
	return n, nil
}
