package entry

import (
	"fmt"
	"unicode"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokVariable
	tokPlus
	tokMinus
	tokSlash
	tokEOF
)

func (k tokenKind) String() string {
	switch k {
	case tokNumber:
		return "number"
	case tokVariable:
		return "variable"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokSlash:
		return "'/'"
	default:
		return "end of input"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int // rune offset
}

func (t token) isSign() bool { return t.kind == tokPlus || t.kind == tokMinus }

// lex splits raw into tokens. An unknown letter anywhere in the input wins
// over every other lexical problem so such inputs always report
// ErrUnknownVariable.
func lex(raw string) ([]token, *ValidationError) {
	runes := []rune(raw)
	tokens := make([]token, 0, len(runes)+1)
	var firstErr *ValidationError

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case r >= '0' && r <= '9':
			start := i
			for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
				i++
			}
			if i < len(runes) && runes[i] == '.' {
				i++
				if i >= len(runes) || runes[i] < '0' || runes[i] > '9' {
					if firstErr == nil {
						firstErr = malformed(raw, i-1, "decimal point must be followed by digits")
					}
					continue
				}
				for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
					i++
				}
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[start:i]), pos: start})

		case unicode.IsLetter(r):
			if _, ok := LookupVariable(r); !ok {
				return nil, &ValidationError{
					Value:  raw,
					Offset: i,
					Name:   string(r),
					Reason: fmt.Sprintf("%q is not one of a, b, c, d, m, n, x, y, z, λ", string(r)),
					Err:    ErrUnknownVariable,
				}
			}
			tokens = append(tokens, token{kind: tokVariable, text: string(r), pos: i})
			i++

		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+", pos: i})
			i++

		case r == '-' || r == '−':
			tokens = append(tokens, token{kind: tokMinus, text: "-", pos: i})
			i++

		case r == '/':
			tokens = append(tokens, token{kind: tokSlash, text: "/", pos: i})
			i++

		default:
			if firstErr == nil {
				firstErr = malformed(raw, i, fmt.Sprintf("unexpected character %q", string(r)))
			}
			i++
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return append(tokens, token{kind: tokEOF, pos: len(runes)}), nil
}

func malformed(raw string, offset int, reason string) *ValidationError {
	return &ValidationError{Value: raw, Offset: offset, Reason: reason, Err: ErrMalformedPolynomial}
}
