package matrix

import (
	"fmt"
	"strings"
	"unicode"
)

// ParseLiteral reads a bulk matrix literal such as
//
//	[[1, 2/3], [x, "2y-1"]]
//
// Elements may be quoted with " or ' or written bare. Bare elements run up
// to the next ',' or ']' and are trimmed, so fractions, variables and
// polynomials need no quotes. A bare null or an empty slot such as the
// middle of [1,,2] yields "", which the wizard treats as a blank cell; a
// trailing comma is still an error. Every row must have the same number of
// columns. The returned strings are not normalized.
func ParseLiteral(s string) ([][]string, error) {
	l := &literal{src: []rune(s)}
	grid, err := l.parse()
	if err != nil {
		return nil, err
	}
	return grid, nil
}

type literal struct {
	src []rune
	pos int
}

func (l *literal) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrMalformedLiteral, l.pos, fmt.Sprintf(format, args...))
}

func (l *literal) skipSpace() {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
}

func (l *literal) peek() (rune, bool) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return 0, false
	}
	return l.src[l.pos], true
}

func (l *literal) expect(want rune) error {
	r, ok := l.peek()
	if !ok {
		return l.errorf("expected %q, got end of input", want)
	}
	if r != want {
		return l.errorf("expected %q, got %q", want, r)
	}
	l.pos++
	return nil
}

func (l *literal) parse() ([][]string, error) {
	if err := l.expect('['); err != nil {
		return nil, err
	}
	if r, ok := l.peek(); ok && r == ']' {
		return nil, ErrEmptyMatrix
	}

	var grid [][]string
	for {
		row, err := l.row()
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			return nil, ErrEmptyMatrix
		}
		if len(grid) > 0 && len(row) != len(grid[0]) {
			return nil, fmt.Errorf("%w: row %d has %d columns, row 1 has %d",
				ErrRaggedRows, len(grid)+1, len(row), len(grid[0]))
		}
		grid = append(grid, row)

		r, ok := l.peek()
		if !ok {
			return nil, l.errorf("missing closing ']'")
		}
		l.pos++
		if r == ']' {
			break
		}
		if r != ',' {
			l.pos--
			return nil, l.errorf("expected ',' or ']' between rows, got %q", r)
		}
	}

	if _, ok := l.peek(); ok {
		return nil, l.errorf("unexpected text after matrix")
	}
	return grid, nil
}

func (l *literal) row() ([]string, error) {
	if err := l.expect('['); err != nil {
		return nil, err
	}
	if r, ok := l.peek(); ok && r == ']' {
		l.pos++
		return nil, nil
	}

	var cells []string
	for {
		cell, err := l.element()
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)

		r, ok := l.peek()
		if !ok {
			return nil, l.errorf("missing closing ']' for row %d", len(cells))
		}
		l.pos++
		if r == ']' {
			return cells, nil
		}
		if r != ',' {
			l.pos--
			return nil, l.errorf("expected ',' or ']' after element, got %q", r)
		}
	}
}

func (l *literal) element() (string, error) {
	r, ok := l.peek()
	if !ok {
		return "", l.errorf("expected element, got end of input")
	}
	if r == '"' || r == '\'' {
		return l.quoted(r)
	}

	start := l.pos
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ',', ']':
			text := strings.TrimSpace(string(l.src[start:l.pos]))
			switch {
			case text == "null":
				return "", nil
			case text == "" && l.src[l.pos] == ',':
				return "", nil
			case text == "":
				return "", l.errorf("empty element")
			}
			return text, nil
		case '[', '"', '\'':
			return "", l.errorf("unexpected %q inside element", l.src[l.pos])
		}
		l.pos++
	}
	return "", l.errorf("unterminated element")
}

func (l *literal) quoted(q rune) (string, error) {
	l.pos++
	var b strings.Builder
	for l.pos < len(l.src) {
		r := l.src[l.pos]
		l.pos++
		switch {
		case r == '\\' && l.pos < len(l.src):
			b.WriteRune(l.src[l.pos])
			l.pos++
		case r == q:
			return b.String(), nil
		default:
			b.WriteRune(r)
		}
	}
	return "", l.errorf("unterminated string")
}
