package entry

import (
	"fmt"
	"math/big"
)

// Symbolic arithmetic over entries.
//
// Canonical operands combine exactly: rationals are reduced and like terms
// merged. When a result has no canonical form (a product of two
// non-constant entries) or an operand is already Unsimplified, the result
// degrades to Unsimplified text such as "(x)*(y)" or "(a)+(2)*(b)" instead
// of failing. Unsimplified operands are opaque: they are never looked into,
// only wrapped. The identities 0·u = 0, 1·u = u and u ± 0 = u are applied
// first, so they hold for opaque operands too.

// Neg returns -a.
func Neg(a Entry) Entry {
	if a.degraded {
		return Unsimplified(fmt.Sprintf("-(%s)", a.text))
	}
	return scaleTerms(a, big.NewRat(-1, 1))
}

// Add returns a + b.
func Add(a, b Entry) Entry {
	switch {
	case b.IsZero():
		return a.Clone()
	case a.IsZero():
		return b.Clone()
	case a.degraded || b.degraded:
		return Unsimplified(fmt.Sprintf("(%s)+(%s)", a, b))
	}
	terms := make([]Term, 0, len(a.terms)+len(b.terms))
	terms = append(terms, a.terms...)
	return Poly(append(terms, b.terms...)...)
}

// Sub returns a - b.
func Sub(a, b Entry) Entry {
	switch {
	case b.IsZero():
		return a.Clone()
	case a.degraded || b.degraded:
		if a.IsZero() {
			return Neg(b)
		}
		return Unsimplified(fmt.Sprintf("(%s)-(%s)", a, b))
	}
	return Add(a, Neg(b))
}

// Mul returns a · b.
func Mul(a, b Entry) Entry {
	switch {
	case a.IsZero() || b.IsZero():
		return Zero()
	case a.IsOne():
		return b.Clone()
	case b.IsOne():
		return a.Clone()
	case a.IsConstant() && !b.degraded:
		return scaleTerms(b, a.terms[0].Coef)
	case b.IsConstant() && !a.degraded:
		return scaleTerms(a, b.terms[0].Coef)
	}
	return Unsimplified(fmt.Sprintf("(%s)*(%s)", a, b))
}

// AddScaled returns t + k·s, or t - k·s when subtract is set. It is the
// kernel of the scaled add/subtract row operation. With an Unsimplified
// operand the result is the text "(t)+(k)*(s)" (or with '-').
func AddScaled(t, k, s Entry, subtract bool) Entry {
	if k.IsZero() || s.IsZero() {
		return t.Clone()
	}
	if t.degraded || k.degraded || s.degraded {
		op := "+"
		if subtract {
			op = "-"
		}
		return Unsimplified(fmt.Sprintf("(%s)%s(%s)*(%s)", t, op, k, s))
	}
	p := Mul(k, s)
	if subtract {
		return Sub(t, p)
	}
	return Add(t, p)
}

// scaleTerms multiplies every coefficient of a canonical entry by k.
func scaleTerms(a Entry, k *big.Rat) Entry {
	terms := make([]Term, len(a.terms))
	for i, t := range a.terms {
		terms[i] = Term{Coef: new(big.Rat).Mul(t.Coef, k), Var: t.Var}
	}
	return Poly(terms...)
}
