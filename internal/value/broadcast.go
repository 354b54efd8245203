package value

import (
	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
)

// ElementwiseDyadic applies f cell-by-cell across a and b, scalar
// extending whichever side is a scalar; both non-scalar sides must
// agree in shape (LENGTH error otherwise) — the ordinary APL
// conformability rule every dyadic scalar primitive follows.
func ElementwiseDyadic(f cell.DyadicBif, a, b *Value, ct float64) (*Value, error) {
	aScalar := a.shape.Volume() == 1 && a.Rank() == 0
	bScalar := b.shape.Volume() == 1 && b.Rank() == 0

	var resultShape = a.shape
	n := len(a.ravel)
	switch {
	case aScalar && bScalar:
		resultShape, n = a.shape, 1
	case aScalar:
		resultShape, n = b.shape, len(b.ravel)
	case bScalar:
		resultShape, n = a.shape, len(a.ravel)
	default:
		if !a.shape.Equal(b.shape) {
			return nil, errors.New(errors.LENGTH, "arguments do not conform")
		}
		resultShape, n = a.shape, len(a.ravel)
	}

	cells := make([]cell.Cell, n)
	for i := 0; i < n; i++ {
		var ca, cb cell.Cell
		if aScalar {
			ca = a.ravel[0]
		} else {
			ca = a.ravel[i]
		}
		if bScalar {
			cb = b.ravel[0]
		} else {
			cb = b.ravel[i]
		}
		if err := f(&cells[i], ca, cb, ct); err != nil {
			return nil, err
		}
	}
	return New(resultShape.Clone(), cells)
}

// ElementwiseMonadic applies f cell-by-cell across b.
func ElementwiseMonadic(f cell.MonadicBif, b *Value, ct float64) (*Value, error) {
	cells := make([]cell.Cell, len(b.ravel))
	for i, c := range b.ravel {
		if err := f(&cells[i], c, ct); err != nil {
			return nil, err
		}
	}
	return New(b.shape.Clone(), cells)
}

// Reduce implements `f/` over the last axis of b (§4.1 associativity
// flag is advisory only here: this core evaluates reductions
// right-to-left regardless of the Associative flag, matching the
// spec's ordering guarantee in §5 that only reductions/scans have a
// visible element order).
func Reduce(f cell.DyadicBif, b *Value, ct float64) (*Value, error) {
	n := b.shape.LastAxis()
	if n == 0 {
		return nil, errors.New(errors.DOMAIN, "reduction over an empty axis has no identity element in this core")
	}
	if b.Rank() <= 1 {
		acc := b.ravel[n-1]
		for i := n - 2; i >= 0; i-- {
			var next cell.Cell
			if err := f(&next, b.ravel[i], acc, ct); err != nil {
				return nil, err
			}
			acc = next
		}
		return ScalarOf(acc), nil
	}
	// Higher-rank reduction over the last axis: reduce each row
	// independently, producing a Value of rank-1 shape.
	rows := b.shape.Volume() / n
	outShape := b.shape[:len(b.shape)-1].Clone()
	cells := make([]cell.Cell, rows)
	for r := 0; r < rows; r++ {
		base := r * n
		acc := b.ravel[base+n-1]
		for i := n - 2; i >= 0; i-- {
			var next cell.Cell
			if err := f(&next, b.ravel[base+i], acc, ct); err != nil {
				return nil, err
			}
			acc = next
		}
		cells[r] = acc
	}
	return New(outShape, cells)
}

// Scan implements `f\` over the last axis of a vector b, producing a
// same-shape Value whose k-th element is the reduction of b[0..k]
// (left-to-right running fold, the conventional scan order).
func Scan(f cell.DyadicBif, b *Value, ct float64) (*Value, error) {
	if b.Rank() > 1 {
		return nil, errors.New(errors.NOT_YET_IMPLEMENTED, "scan over rank>1 is not implemented in this core")
	}
	n := len(b.ravel)
	cells := make([]cell.Cell, n)
	if n == 0 {
		return New(b.shape.Clone(), cells)
	}
	cells[0] = b.ravel[0]
	for i := 1; i < n; i++ {
		var next cell.Cell
		if err := f(&next, cells[i-1], b.ravel[i], ct); err != nil {
			return nil, err
		}
		cells[i] = next
	}
	return New(b.shape.Clone(), cells)
}

// Iota implements monadic ⍳: for a scalar or 1-element-vector n,
// returns the vector io, io+1, …, io+n-1.
func Iota(n *Value, io int) (*Value, error) {
	if len(n.ravel) != 1 || !n.ravel[0].IsNumeric() {
		return nil, errors.New(errors.DOMAIN, "⍳ requires a numeric scalar argument in this core")
	}
	count := int(n.ravel[0].IntValue())
	if count < 0 {
		return nil, errors.New(errors.DOMAIN, "⍳ requires a non-negative argument")
	}
	cells := make([]cell.Cell, count)
	for i := range cells {
		cells[i] = cell.MakeInt(int64(io + i))
	}
	return VectorOf(cells), nil
}

// Catenate implements dyadic `,` (flat catenation): ravel-concatenates
// a and b into a vector. Scalars are treated as 1-element vectors. The
// reducer's "V V" strand rule does not use this (see reduceCatenate in
// internal/prefix, which nests non-scalar operands).
func Catenate(a, b *Value) (*Value, error) {
	cells := make([]cell.Cell, 0, len(a.ravel)+len(b.ravel))
	for _, c := range a.ravel {
		var dst cell.Cell
		_ = cell.Init(&dst, c)
		cells = append(cells, dst)
	}
	for _, c := range b.ravel {
		var dst cell.Cell
		_ = cell.Init(&dst, c)
		cells = append(cells, dst)
	}
	return VectorOf(cells), nil
}

// ShapeOf implements monadic ⍴: returns the argument's shape as an
// integer vector.
func ShapeOf(v *Value) *Value {
	xs := make([]int64, v.Rank())
	for i, d := range v.shape {
		xs[i] = int64(d)
	}
	return IntVector(xs...)
}
