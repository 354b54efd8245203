package cell

import (
	"math"

	"github.com/cwbudde/goapl/internal/errors"
)

// DyadicBif is the signature every dyadic scalar primitive implements
// (§4.1): write the result into dst (which must be None on entry),
// read from a (left) and b (right), return an ErrorCode on domain
// violations. ct is the current ⎕CT, needed for demotion.
type DyadicBif func(dst *Cell, a, b Cell, ct float64) error

// MonadicBif is the monadic counterpart.
type MonadicBif func(dst *Cell, b Cell, ct float64) error

// Associative marks primitives usable by `f/` reduction without
// bracketing concerns about evaluation order (§4.1: "the primitive
// table exposes a flag usable by reduction").
var Associative = map[string]bool{
	"+": true, "×": true, "∧": true, "∨": true, "⌈": true, "⌊": true,
	"-": false, "÷": false, "⍴": false,
}

func requireNumeric2(a, b Cell) error {
	if !a.IsNumeric() || !b.IsNumeric() {
		return errors.New(errors.DOMAIN, "arithmetic requires numeric arguments")
	}
	return nil
}

// BifAdd implements dyadic "+".
func BifAdd(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	return Init(dst, Demote(MakeComplex(a.AsComplex()+b.AsComplex()), ct))
}

// BifSubtract implements dyadic "-".
func BifSubtract(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	return Init(dst, Demote(MakeComplex(a.AsComplex()-b.AsComplex()), ct))
}

// BifMultiply implements dyadic "×".
func BifMultiply(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	return Init(dst, Demote(MakeComplex(a.AsComplex()*b.AsComplex()), ct))
}

// BifDivide implements dyadic "÷". Division by (tolerantly) zero is a
// DOMAIN error, matching E7 of spec.md §8.
func BifDivide(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	if TolerantEqual(b, MakeInt(0), ct) {
		return errors.New(errors.DOMAIN, "division by zero")
	}
	return Init(dst, Demote(MakeComplex(a.AsComplex()/b.AsComplex()), ct))
}

// BifNegate implements monadic "-" (arithmetic negation).
func BifNegate(dst *Cell, b Cell, ct float64) error {
	if !b.IsNumeric() {
		return errors.New(errors.DOMAIN, "negate requires a numeric argument")
	}
	return Init(dst, Demote(MakeComplex(-b.AsComplex()), ct))
}

// BifReciprocal implements monadic "÷".
func BifReciprocal(dst *Cell, b Cell, ct float64) error {
	if !b.IsNumeric() {
		return errors.New(errors.DOMAIN, "reciprocal requires a numeric argument")
	}
	if TolerantEqual(b, MakeInt(0), ct) {
		return errors.New(errors.DOMAIN, "reciprocal of zero")
	}
	return Init(dst, Demote(MakeComplex(1/b.AsComplex()), ct))
}

// BifSign implements monadic "×" (sign/direction).
func BifSign(dst *Cell, b Cell, ct float64) error {
	if !b.IsNumeric() {
		return errors.New(errors.DOMAIN, "sign requires a numeric argument")
	}
	r := real(b.AsComplex())
	switch {
	case TolerantEqual(b, MakeInt(0), ct):
		return Init(dst, MakeInt(0))
	case r > 0:
		return Init(dst, MakeInt(1))
	default:
		return Init(dst, MakeInt(-1))
	}
}

// relational builds a DyadicBif from a tolerant-order predicate,
// shared by =, ≠, <, ≤, >, ≥ (§4.1 "relational primitives").
func relational(pred func(o Order) bool) DyadicBif {
	return func(dst *Cell, a, b Cell, ct float64) error {
		o := Compare(a, b, ct)
		v := int64(0)
		if pred(o) {
			v = 1
		}
		return Init(dst, MakeInt(v))
	}
}

var (
	BifEqual        = relational(func(o Order) bool { return o == Equal })
	BifNotEqual     = relational(func(o Order) bool { return o != Equal })
	BifLess         = relational(func(o Order) bool { return o == Less })
	BifLessEqual    = relational(func(o Order) bool { return o != Greater })
	BifGreater      = relational(func(o Order) bool { return o == Greater })
	BifGreaterEqual = relational(func(o Order) bool { return o != Less })
)

// BifMax implements dyadic "⌈" (maximum).
func BifMax(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	if Compare(a, b, ct) == Less {
		return Init(dst, Demote(b, ct))
	}
	return Init(dst, Demote(a, ct))
}

// BifMin implements dyadic "⌊" (minimum).
func BifMin(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	if Compare(a, b, ct) == Greater {
		return Init(dst, Demote(b, ct))
	}
	return Init(dst, Demote(a, ct))
}

// BifPower implements dyadic "*".
func BifPower(dst *Cell, a, b Cell, ct float64) error {
	if err := requireNumeric2(a, b); err != nil {
		return err
	}
	base, exp := a.AsComplex(), b.AsComplex()
	if imag(base) == 0 && imag(exp) == 0 {
		r := math.Pow(real(base), real(exp))
		if !math.IsNaN(r) {
			return Init(dst, Demote(MakeFloat(r), ct))
		}
	}
	// Complex exponentiation raises NOT_YET_IMPLEMENTED; this core does
	// not implement the complex power branch (the §9 open-question
	// policy of never inventing semantics).
	return errors.New(errors.NOT_YET_IMPLEMENTED, "complex power")
}
