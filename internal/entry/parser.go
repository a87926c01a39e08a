package entry

import (
	"fmt"
	"math/big"
)

// Normalize parses raw as the value typed into the cell at pos and returns
// its canonical form. An empty or blank string is Integer(0).
//
// Errors are *ValidationError values wrapping ErrDenominatorZero,
// ErrUnknownVariable or ErrMalformedPolynomial, located at pos. Normalize is
// pure: nothing is committed anywhere on success or failure.
func Normalize(raw string, pos Position) (Entry, error) {
	e, verr := parse(raw)
	if verr != nil {
		verr.Position = pos
		return Entry{}, verr
	}
	return e, nil
}

// Parse is Normalize without a cell position.
func Parse(raw string) (Entry, error) {
	return Normalize(raw, Position{})
}

// MustParse is like Parse but panics on error. It is meant for constants
// and tests.
func MustParse(raw string) Entry {
	e, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return e
}

func parse(raw string) (Entry, *ValidationError) {
	toks, err := lex(raw)
	if err != nil {
		return Entry{}, err
	}
	if len(toks) == 1 {
		return Zero(), nil
	}
	if text, ok := variableFraction(toks); ok {
		return Unsimplified(text), nil
	}
	p := &parser{raw: raw, toks: toks}
	return p.sum()
}

// variableFraction recognises a whole input of the form [sign] atom '/' var,
// e.g. "1/x" or "-a/b". It is a legal entry but not a linear polynomial, so
// it is kept as canonical text.
func variableFraction(toks []token) (string, bool) {
	i := 0
	neg := false
	if toks[0].isSign() {
		neg = toks[0].kind == tokMinus
		i++
	}
	if len(toks)-i != 4 {
		return "", false
	}
	num, slash, den := toks[i], toks[i+1], toks[i+2]
	if slash.kind != tokSlash || den.kind != tokVariable {
		return "", false
	}

	var numText string
	switch num.kind {
	case tokVariable:
		numText = num.text
	case tokNumber:
		n, ok := new(big.Int).SetString(num.text, 10)
		if !ok {
			return "", false
		}
		numText = n.String()
	default:
		return "", false
	}

	text := numText + "/" + den.text
	if neg {
		text = "-" + text
	}
	return text, true
}

type parser struct {
	raw  string
	toks []token
	i    int
}

func (p *parser) peek() token { return p.toks[p.i] }

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

// sum := [sign] term { sign term }
func (p *parser) sum() (Entry, *ValidationError) {
	var terms []Term
	neg := false
	signed := false

	if t := p.peek(); t.isSign() {
		neg = t.kind == tokMinus
		signed = true
		p.next()
	}

	for {
		if err := p.expectTerm(signed); err != nil {
			return Entry{}, err
		}
		term, err := p.term()
		if err != nil {
			return Entry{}, err
		}
		if neg {
			term.Coef.Neg(term.Coef)
		}
		terms = append(terms, term)

		t := p.peek()
		switch {
		case t.kind == tokEOF:
			return Poly(terms...), nil
		case t.isSign():
			neg = t.kind == tokMinus
			signed = true
			p.next()
		case t.kind == tokSlash:
			return Entry{}, malformed(p.raw, t.pos, "only one '/' is allowed per term")
		default:
			return Entry{}, malformed(p.raw, t.pos, fmt.Sprintf("missing operator before %s %q", t.kind, t.text))
		}
	}
}

func (p *parser) expectTerm(afterSign bool) *ValidationError {
	t := p.peek()
	switch {
	case t.kind == tokEOF && afterSign:
		return malformed(p.raw, t.pos, "expression cannot end with an operator")
	case t.isSign():
		return malformed(p.raw, t.pos, "two consecutive sign operators")
	case t.kind == tokSlash && p.i == 0:
		return malformed(p.raw, t.pos, "expression cannot start with '/'")
	case t.kind == tokSlash:
		return malformed(p.raw, t.pos, "'/' needs a numerator")
	}
	return nil
}

type factor struct {
	coef   *big.Rat
	v      Variable
	hasNum bool
	pos    int
}

// factor := number [variable] | variable
func (p *parser) factor() (factor, *ValidationError) {
	t := p.next()
	f := factor{v: NoVariable, pos: t.pos}

	switch t.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return f, malformed(p.raw, t.pos, fmt.Sprintf("invalid number %q", t.text))
		}
		f.coef = r
		f.hasNum = true
		if p.peek().kind == tokVariable {
			f.v = Variable([]rune(p.next().text)[0])
		}
	case tokVariable:
		f.coef = big.NewRat(1, 1)
		f.v = Variable([]rune(t.text)[0])
	default:
		return f, malformed(p.raw, t.pos, fmt.Sprintf("unexpected %s", t.kind))
	}

	if nt := p.peek(); nt.kind == tokVariable {
		return f, malformed(p.raw, nt.pos, "a product of variables is not linear")
	}
	return f, nil
}

// term := factor [ '/' factor ]
func (p *parser) term() (Term, *ValidationError) {
	num, err := p.factor()
	if err != nil {
		return Term{}, err
	}
	if p.peek().kind != tokSlash {
		return Term{Coef: num.coef, Var: num.v}, nil
	}

	slash := p.next()
	switch t := p.peek(); {
	case t.kind == tokEOF:
		return Term{}, malformed(p.raw, slash.pos, "expression cannot end with '/'")
	case t.kind == tokSlash:
		return Term{}, malformed(p.raw, t.pos, "two consecutive '/'")
	case t.isSign():
		return Term{}, malformed(p.raw, t.pos, "'/' must be followed by a denominator")
	}

	den, err := p.factor()
	if err != nil {
		return Term{}, err
	}
	if !den.hasNum || (num.v != NoVariable && den.v != NoVariable) {
		return Term{}, malformed(p.raw, den.pos, "a variable in the denominator is not linear")
	}
	if den.coef.Sign() == 0 {
		return Term{}, &ValidationError{
			Value:  p.raw,
			Offset: den.pos,
			Reason: "division by zero",
			Err:    ErrDenominatorZero,
		}
	}

	v := num.v
	if den.v != NoVariable {
		v = den.v
	}
	return Term{Coef: num.coef.Quo(num.coef, den.coef), Var: v}, nil
}
