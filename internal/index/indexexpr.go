// Package index implements §2.12/§4.11 of the core spec: the
// semicolon-separated bracket-index list (IndexExpr) and the
// multi-axis indexed read it drives. The single-axis vector-index
// contract (§4.2) lives in package value; this package builds the
// general `[…;…;…]` form on top of it.
package index

import (
	"fmt"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/shape"
	"github.com/cwbudde/goapl/internal/value"
)

// Expr is one `[…;…;…]` bracket-index list. Each Items entry is either
// an explicit per-axis index Value, or nil for an elided item ("all of
// that axis").
type Expr struct {
	Items []*value.Value
}

// ToShape interprets a single-axis index list as a shape — used by
// monadic/dyadic ⍴ and take/drop axis arguments (§4.11).
func (e *Expr) ToShape() (shape.Shape, error) {
	if len(e.Items) != 1 {
		return nil, errors.New(errors.RANK, "to_shape requires a single-axis index list")
	}
	item := e.Items[0]
	if item == nil {
		return nil, errors.New(errors.DOMAIN, "shape argument cannot be elided")
	}
	shp := make(shape.Shape, len(item.Ravel()))
	for i, c := range item.Ravel() {
		if !c.IsNumeric() {
			return nil, errors.New(errors.DOMAIN, "shape elements must be numeric")
		}
		shp[i] = int(c.IntValue())
	}
	return shp, nil
}

// ToAxis interprets a single-item, rank<=1 index list as an axis
// number, validated against [io, io+maxAxis) (§4.11).
func (e *Expr) ToAxis(io, maxAxis int) (int, error) {
	if len(e.Items) != 1 {
		return 0, errors.New(errors.AXIS, "axis argument must be a single item")
	}
	item := e.Items[0]
	if item == nil || item.Rank() > 1 || len(item.Ravel()) != 1 {
		return 0, errors.New(errors.AXIS, "axis argument must be a scalar or 1-element vector")
	}
	c := item.Ravel()[0]
	if !c.IsNumeric() {
		return 0, errors.New(errors.AXIS, "axis argument must be numeric")
	}
	ax := int(c.IntValue())
	if ax < io || ax >= io+maxAxis {
		return 0, errors.New(errors.AXIS, fmt.Sprintf("axis %d out of range [%d,%d)", ax, io, io+maxAxis))
	}
	return ax - io, nil
}

// CheckRange verifies every sub-index of every axis lies within
// [io, io+shape[axis]) (§4.11).
func (e *Expr) CheckRange(shp shape.Shape, io int) error {
	if len(e.Items) != shp.Rank() {
		return errors.New(errors.RANK, "index list length does not match argument rank")
	}
	for axis, item := range e.Items {
		if item == nil {
			continue
		}
		n := shp[axis]
		for _, c := range item.Ravel() {
			if !c.IsNumeric() {
				return errors.New(errors.DOMAIN, "index must be numeric")
			}
			pos := int(c.IntValue()) - io
			if pos < 0 || pos >= n {
				return errors.New(errors.INDEX, fmt.Sprintf("index %d out of range [%d,%d) on axis %d", pos+io, io, n+io, axis))
			}
		}
	}
	return nil
}

// strides returns row-major strides for shp (strides[r] = product of
// dimensions to the right of axis r).
func strides(shp shape.Shape) []int {
	s := make([]int, len(shp))
	acc := 1
	for i := len(shp) - 1; i >= 0; i-- {
		s[i] = acc
		acc *= shp[i]
	}
	return s
}

// Read implements the general indexed-select: one axis per Expr item,
// an elided item selecting the whole axis (§3.1, §4.2, §4.11).
func (e *Expr) Read(v *value.Value, io int) (*value.Value, error) {
	shp := v.Shape()
	if err := e.CheckRange(shp, io); err != nil {
		return nil, err
	}
	axisIndices := make([][]int, len(e.Items))
	resultShape := make(shape.Shape, 0, len(e.Items))
	for axis, item := range e.Items {
		if item == nil {
			all := make([]int, shp[axis])
			for i := range all {
				all[i] = i
			}
			axisIndices[axis] = all
			resultShape = append(resultShape, shp[axis])
			continue
		}
		idxs := make([]int, len(item.Ravel()))
		for i, c := range item.Ravel() {
			idxs[i] = int(c.IntValue()) - io
		}
		axisIndices[axis] = idxs
		if item.Rank() > 0 {
			resultShape = append(resultShape, item.Shape()...)
		}
	}
	strd := strides(shp)
	ravel := v.Ravel()
	var out []cell.Cell
	var walk func(axis int, base int)
	walk = func(axis int, base int) {
		if axis == len(axisIndices) {
			var dst cell.Cell
			_ = cell.Init(&dst, ravel[base])
			out = append(out, dst)
			return
		}
		for _, i := range axisIndices[axis] {
			walk(axis+1, base+i*strd[axis])
		}
	}
	walk(0, 0)
	return value.New(resultShape, out)
}

// Write implements the general indexed-assign (A[I;J;…]←B), scalar
// extending B when it is a single-element Value (§4.2).
func (e *Expr) Write(v *value.Value, io int, b *value.Value) error {
	shp := v.Shape()
	if err := e.CheckRange(shp, io); err != nil {
		return err
	}
	axisIndices := make([][]int, len(e.Items))
	count := 1
	for axis, item := range e.Items {
		if item == nil {
			all := make([]int, shp[axis])
			for i := range all {
				all[i] = i
			}
			axisIndices[axis] = all
			count *= len(all)
			continue
		}
		idxs := make([]int, len(item.Ravel()))
		for i, c := range item.Ravel() {
			idxs[i] = int(c.IntValue()) - io
		}
		axisIndices[axis] = idxs
		count *= len(idxs)
	}
	scalarExtend := len(b.Ravel()) == 1 && count != 1
	if !scalarExtend && len(b.Ravel()) != count {
		return errors.New(errors.LENGTH, "right argument length does not match index count")
	}
	strd := strides(shp)
	bravel := b.Ravel()
	k := 0
	var walk func(axis int, base int) error
	walk = func(axis int, base int) error {
		if axis == len(axisIndices) {
			var src cell.Cell
			if scalarExtend {
				src = bravel[0]
			} else {
				src = bravel[k]
			}
			k++
			return v.AssignAt(base, src)
		}
		for _, i := range axisIndices[axis] {
			if err := walk(axis+1, base+i*strd[axis]); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0, 0)
}
