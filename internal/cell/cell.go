// Package cell implements §2.2/§3.2/§4.1 of the core spec: the tagged
// union of one ravel element, plus the arithmetic, comparison, and
// demotion rules that operate on it.
package cell

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Kind tags which variant of the disjoint union a Cell currently holds.
// None is the transient "uninitialized" state Init requires the
// destination to be in (§4.1); it is also one of the seven states
// §8's shape/ravel invariant counts.
type Kind int

const (
	None Kind = iota
	Char
	Int
	Float
	Complex
	Pointer
	LeftValue
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Char:
		return "char"
	case Int:
		return "int"
	case Float:
		return "float"
	case Complex:
		return "complex"
	case Pointer:
		return "pointer"
	case LeftValue:
		return "leftvalue"
	default:
		return "unknown"
	}
}

// NestedValue is the minimal surface cell needs from value.Value to
// hold Pointer/LeftValue cells without an import cycle (value imports
// cell, not the reverse). value.Value satisfies this interface.
type NestedValue interface {
	Retain() NestedValue
	Release()
}

// Cell is one ravel element: a tagged union plus, for Pointer and
// LeftValue, an owning or weak reference to a NestedValue (§3.2).
type Cell struct {
	kind Kind

	ch  rune
	i   int64
	f   float64
	c   complex128

	// inner is the strongly-owned nested Value for a Pointer cell.
	inner NestedValue

	// leftOwner is the weak, non-owning back-link used transiently by
	// LeftValue cells during selective assignment (§3.2, §9 "Pointer
	// back-links in cells": modeled as a plain field, never counted
	// toward ownership, recomputed rather than traced).
	leftOwner NestedValue
	leftSlot  int
}

// Kind reports which variant is held.
func (c *Cell) Kind() Kind { return c.kind }

// MakeChar, MakeInt, MakeFloat, MakeComplex construct scalar cells of
// the given variant. Construction never needs Init/Release bookkeeping
// for non-nested kinds.
func MakeChar(r rune) Cell       { return Cell{kind: Char, ch: r} }
func MakeInt(v int64) Cell       { return Cell{kind: Int, i: v} }
func MakeFloat(v float64) Cell   { return Cell{kind: Float, f: v} }
func MakeComplex(v complex128) Cell { return Cell{kind: Complex, c: v} }

// MakePointer constructs a Pointer cell that takes ownership of inner
// (the caller must have already Retain()'d it for this cell, matching
// §3.3's "inner Value created before, and logically below, the outer
// Value" acyclic-nesting invariant).
func MakePointer(inner NestedValue) Cell {
	return Cell{kind: Pointer, inner: inner}
}

// MakeLeftValue constructs a transient LeftValue cell referencing slot
// index within owner's ravel. Used only by selective assignment
// (§4.2 get_cellrefs).
func MakeLeftValue(owner NestedValue, slot int) Cell {
	return Cell{kind: LeftValue, leftOwner: owner, leftSlot: slot}
}

func (c *Cell) CharValue() rune        { return c.ch }
func (c *Cell) IntValue() int64        { return c.i }
func (c *Cell) FloatValue() float64    { return c.f }
func (c *Cell) ComplexValue() complex128 { return c.c }
func (c *Cell) Inner() NestedValue     { return c.inner }
func (c *Cell) LeftOwner() (NestedValue, int) { return c.leftOwner, c.leftSlot }

// IsNumeric reports whether the cell is one of Int/Float/Complex. A
// Char cell is never numeric (§3.2 invariant: no implicit char/numeric
// mixing).
func (c *Cell) IsNumeric() bool {
	switch c.kind {
	case Int, Float, Complex:
		return true
	default:
		return false
	}
}

// AsComplex widens any numeric cell to complex128, used internally by
// arithmetic primitives before re-demoting the result (§4.1).
func (c *Cell) AsComplex() complex128 {
	switch c.kind {
	case Int:
		return complex(float64(c.i), 0)
	case Float:
		return complex(c.f, 0)
	case Complex:
		return c.c
	default:
		return 0
	}
}

// Init deep-initializes dst from src, incrementing nested refcounts as
// appropriate (§4.1). dst must be Cell{} (Kind None) on entry.
func Init(dst *Cell, src Cell) error {
	if dst.kind != None {
		return fmt.Errorf("cell.Init: destination is not None (kind=%s)", dst.kind)
	}
	*dst = src
	if src.kind == Pointer && src.inner != nil {
		dst.inner = src.inner.Retain().(NestedValue)
	}
	return nil
}

// Release drops nested references and resets the cell to None.
func (c *Cell) Release() {
	if c.kind == Pointer && c.inner != nil {
		c.inner.Release()
	}
	*c = Cell{}
}

// Demote re-classifies a numeric cell to the narrowest representation
// that preserves tolerant equality (§4.1): Complex with near-zero
// imaginary part becomes Float; a near-integer Float becomes Int. ct is
// the comparison tolerance (⎕CT) used by the near-integer predicate.
func Demote(c Cell, ct float64) Cell {
	switch c.kind {
	case Complex:
		if isNearZero(imag(c.c), ct) {
			c = MakeFloat(real(c.c))
		} else {
			return c
		}
		fallthrough
	case Float:
		if NearInteger(c.f, ct) {
			return MakeInt(int64(math.Round(c.f)))
		}
		return c
	default:
		return c
	}
}

// NearInteger is the "near-integer" predicate of §3.2: a Float value v
// is near-integer iff |v - round(v)| <= ct*|v|.
func NearInteger(v float64, ct float64) bool {
	r := math.Round(v)
	diff := math.Abs(v - r)
	bound := ct * math.Abs(v)
	return diff <= bound
}

func isNearZero(v float64, ct float64) bool {
	return math.Abs(v) <= ct
}

// TolerantEqual implements §3.2's comparison tolerance rule for two
// numeric cells: equal iff their complex widening differs by no more
// than ct times the larger magnitude.
func TolerantEqual(a, b Cell, ct float64) bool {
	ca, cb := a.AsComplex(), b.AsComplex()
	if ca == cb {
		return true
	}
	diff := cmplx.Abs(ca - cb)
	maxMag := math.Max(cmplx.Abs(ca), cmplx.Abs(cb))
	return diff <= ct*maxMag
}

// Order is the tolerant-order result of Compare (§4.1).
type Order int

const (
	Less Order = iota - 1
	Equal
	Greater
)

// classRank orders Pointer > Numeric > Char for mixed-kind comparisons
// (§4.1 compare contract).
func classRank(k Kind) int {
	switch k {
	case Pointer:
		return 2
	case Char:
		return 0
	default:
		return 1
	}
}

// Compare implements the tolerant order of §4.1: numeric cells compare
// tolerantly (using ct), char cells compare lexicographically by code
// point, and mixed kinds fall back to the class order Pointer >
// Numeric > Char. Compare never recurses into nested Values itself —
// that recursion (rank, then shape, then ravel) lives in value.Compare,
// which calls this for leaf cells.
func Compare(a, b Cell, ct float64) Order {
	if a.kind == Char && b.kind == Char {
		switch {
		case a.ch < b.ch:
			return Less
		case a.ch > b.ch:
			return Greater
		default:
			return Equal
		}
	}
	if a.IsNumeric() && b.IsNumeric() {
		if TolerantEqual(a, b, ct) {
			return Equal
		}
		if real(a.AsComplex()) < real(b.AsComplex()) {
			return Less
		}
		return Greater
	}
	ra, rb := classRank(a.kind), classRank(b.kind)
	switch {
	case ra < rb:
		return Less
	case ra > rb:
		return Greater
	default:
		return Equal
	}
}
