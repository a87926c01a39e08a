// Package entry implements the values a matrix cell can hold and the
// normalizer that turns typed text into them.
//
// An Entry is one of five kinds:
//
//   - Integer: arbitrary precision, e.g. "-3"
//   - Fraction: reduced, positive denominator, e.g. "1/2"
//   - Variable: a single name from the alphabet a b c d m n x y z λ
//   - Polynomial: linear terms over the alphabet plus an optional constant,
//     e.g. "2x-1/2y+3"
//   - Unsimplified: opaque text produced when arithmetic cannot stay in
//     canonical form, e.g. "(x)*(y)"
//
// Canonical entries are built only through the constructors in this
// package, which merge like terms, drop zero coefficients and order terms
// by alphabet position with the constant last. The zero value of Entry is
// Integer(0).
//
// Entries are immutable. Operations return new values and never modify the
// rationals held by their operands.
package entry

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Kind identifies which variant an Entry holds.
type Kind int

const (
	KindInteger Kind = iota
	KindFraction
	KindVariable
	KindPolynomial
	KindUnsimplified
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFraction:
		return "fraction"
	case KindVariable:
		return "variable"
	case KindPolynomial:
		return "polynomial"
	case KindUnsimplified:
		return "unsimplified"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Variable is a symbolic name. Only the runes listed in Alphabet are valid.
// The zero Variable marks the constant slot of a term.
type Variable rune

// NoVariable is the variable slot of a constant term.
const NoVariable Variable = 0

// Alphabet lists the valid variable names in canonical order.
var Alphabet = []Variable{'a', 'b', 'c', 'd', 'm', 'n', 'x', 'y', 'z', 'λ'}

var alphabetIndex = func() map[Variable]int {
	idx := make(map[Variable]int, len(Alphabet))
	for i, v := range Alphabet {
		idx[v] = i
	}
	return idx
}()

// LookupVariable reports whether r names a variable in the alphabet.
func LookupVariable(r rune) (Variable, bool) {
	v := Variable(r)
	_, ok := alphabetIndex[v]
	return v, ok
}

// Valid reports whether v is in the alphabet.
func (v Variable) Valid() bool {
	_, ok := alphabetIndex[v]
	return ok
}

func (v Variable) String() string {
	if v == NoVariable {
		return ""
	}
	return string(rune(v))
}

// order places variables by alphabet position and the constant slot last.
func (v Variable) order() int {
	if v == NoVariable {
		return len(Alphabet)
	}
	return alphabetIndex[v]
}

// Term is one coefficient/variable pair of an entry. Var is NoVariable for
// the constant term.
type Term struct {
	Coef *big.Rat
	Var  Variable
}

// Entry is a single matrix cell value. See the package documentation for
// the variants.
type Entry struct {
	terms    []Term
	text     string
	degraded bool
}

// Zero returns Integer(0).
func Zero() Entry { return Entry{} }

// Int returns an Integer entry.
func Int(n int64) Entry {
	return fromRat(new(big.Rat).SetInt64(n))
}

// IntBig returns an Integer entry holding a copy of n.
func IntBig(n *big.Int) Entry {
	return fromRat(new(big.Rat).SetInt(n))
}

// Frac returns num/den reduced. It panics if den is zero.
func Frac(num, den int64) Entry {
	if den == 0 {
		panic("entry: Frac with zero denominator")
	}
	return fromRat(big.NewRat(num, den))
}

// Rat returns the constant entry for r. The rational is copied.
func Rat(r *big.Rat) Entry {
	return fromRat(new(big.Rat).Set(r))
}

// Var returns the Variable entry for v. It panics if v is not in the
// alphabet.
func Var(v Variable) Entry {
	return Poly(Term{Coef: big.NewRat(1, 1), Var: v})
}

// Poly builds a canonical entry from terms. Like terms are merged, zero
// coefficients dropped, and the result collapses to Integer, Fraction or
// Variable where possible. Coefficients are copied. A term naming a
// variable outside the alphabet is a programming error and panics.
func Poly(terms ...Term) Entry {
	sums := make(map[Variable]*big.Rat, len(terms))
	for _, t := range terms {
		if t.Var != NoVariable && !t.Var.Valid() {
			panic(fmt.Sprintf("entry: variable %q outside alphabet", rune(t.Var)))
		}
		if t.Coef == nil {
			continue
		}
		if acc, ok := sums[t.Var]; ok {
			acc.Add(acc, t.Coef)
		} else {
			sums[t.Var] = new(big.Rat).Set(t.Coef)
		}
	}
	return canonical(sums)
}

// Unsimplified returns the degraded textual entry. It is the explicit escape
// hatch for results symbolic arithmetic cannot express canonically.
func Unsimplified(text string) Entry {
	return Entry{text: text, degraded: true}
}

func fromRat(r *big.Rat) Entry {
	if r.Sign() == 0 {
		return Entry{}
	}
	return Entry{terms: []Term{{Coef: r, Var: NoVariable}}}
}

// canonical takes ownership of the rationals in sums.
func canonical(sums map[Variable]*big.Rat) Entry {
	terms := make([]Term, 0, len(sums))
	for v, c := range sums {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, Term{Coef: c, Var: v})
	}
	if len(terms) == 0 {
		return Entry{}
	}
	sort.Slice(terms, func(i, j int) bool {
		return terms[i].Var.order() < terms[j].Var.order()
	})
	return Entry{terms: terms}
}

// Kind reports the variant held by e.
func (e Entry) Kind() Kind {
	switch {
	case e.degraded:
		return KindUnsimplified
	case len(e.terms) == 0:
		return KindInteger
	case len(e.terms) == 1 && e.terms[0].Var == NoVariable:
		if e.terms[0].Coef.IsInt() {
			return KindInteger
		}
		return KindFraction
	case len(e.terms) == 1 && isOne(e.terms[0].Coef):
		return KindVariable
	default:
		return KindPolynomial
	}
}

// IsConstant reports whether e is an Integer or a Fraction.
func (e Entry) IsConstant() bool {
	k := e.Kind()
	return k == KindInteger || k == KindFraction
}

// IsDegraded reports whether e is Unsimplified.
func (e Entry) IsDegraded() bool { return e.degraded }

// IsZero reports whether e is Integer(0).
func (e Entry) IsZero() bool { return !e.degraded && len(e.terms) == 0 }

// IsOne reports whether e is Integer(1).
func (e Entry) IsOne() bool {
	return !e.degraded && len(e.terms) == 1 && e.terms[0].Var == NoVariable && isOne(e.terms[0].Coef)
}

// Rat returns a copy of the value of a constant entry.
func (e Entry) Rat() (*big.Rat, bool) {
	if !e.IsConstant() {
		return nil, false
	}
	if len(e.terms) == 0 {
		return new(big.Rat), true
	}
	return new(big.Rat).Set(e.terms[0].Coef), true
}

// Variable returns the name of a Variable entry.
func (e Entry) Variable() (Variable, bool) {
	if e.Kind() != KindVariable {
		return NoVariable, false
	}
	return e.terms[0].Var, true
}

// Terms returns a copy of the canonical terms. It is nil for Integer(0) and
// for Unsimplified entries.
func (e Entry) Terms() []Term {
	if e.degraded || len(e.terms) == 0 {
		return nil
	}
	out := make([]Term, len(e.terms))
	for i, t := range e.terms {
		out[i] = Term{Coef: new(big.Rat).Set(t.Coef), Var: t.Var}
	}
	return out
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	if e.degraded {
		return Entry{text: e.text, degraded: true}
	}
	return Entry{terms: e.Terms()}
}

// Equal reports whether e and o are the same canonical value, or the same
// degraded text.
func (e Entry) Equal(o Entry) bool {
	if e.degraded || o.degraded {
		return e.degraded == o.degraded && e.text == o.text
	}
	if len(e.terms) != len(o.terms) {
		return false
	}
	for i := range e.terms {
		if e.terms[i].Var != o.terms[i].Var || e.terms[i].Coef.Cmp(o.terms[i].Coef) != 0 {
			return false
		}
	}
	return true
}

// String renders e in canonical display form: "-3", "1/2", "x",
// "2x-1/2y+3/4". Unsimplified entries render their text.
func (e Entry) String() string {
	if e.degraded {
		return e.text
	}
	if len(e.terms) == 0 {
		return "0"
	}

	var b strings.Builder
	abs := new(big.Rat)
	for i, t := range e.terms {
		switch {
		case t.Coef.Sign() < 0:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		abs.Abs(t.Coef)
		if t.Var == NoVariable {
			b.WriteString(ratString(abs))
			continue
		}
		if !isOne(abs) {
			b.WriteString(ratString(abs))
		}
		b.WriteString(t.Var.String())
	}
	return b.String()
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + "/" + r.Denom().String()
}

func isOne(r *big.Rat) bool {
	return r.IsInt() && r.Num().IsInt64() && r.Num().Int64() == 1
}
