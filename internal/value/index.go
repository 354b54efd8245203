package value

import (
	"fmt"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
)

// IndexVector implements §4.2's single-index-vector contract: given an
// index Value idx of shape S over vector v, the result has shape S and
// element k is v[idx[k] - io]; out-of-range is an INDEX error.
func IndexVector(v *Value, idx *Value, io int) (*Value, error) {
	if v.Rank() != 1 {
		return nil, errors.New(errors.RANK, "single-index-vector form requires a rank-1 left argument")
	}
	n := v.shape.LastAxis()
	cells := make([]cell.Cell, len(idx.ravel))
	for k, ic := range idx.ravel {
		if !ic.IsNumeric() {
			return nil, errors.New(errors.DOMAIN, "index must be numeric")
		}
		pos := int(ic.IntValue()) - io
		if pos < 0 || pos >= n {
			return nil, errors.New(errors.INDEX, fmt.Sprintf("index %d out of range [%d,%d)", pos+io, io, n+io))
		}
		var dst cell.Cell
		_ = cell.Init(&dst, v.ravel[pos])
		cells[k] = dst
	}
	return New(idx.shape.Clone(), cells)
}

// AssignAt writes src into v at ravel position pos in place. v must
// already have passed CloneIfShared.
func (v *Value) AssignAt(pos int, src cell.Cell) error {
	if pos < 0 || pos >= len(v.ravel) {
		return errors.New(errors.INDEX, "assignment index out of range")
	}
	v.ravel[pos].Release()
	v.ravel[pos] = cell.Cell{}
	return cell.Init(&v.ravel[pos], src)
}

// IndexedAssignVector implements the vector form of indexed assignment
// (A[I]←B): for each k, V[I[k]-io] = B[k] (or B's single cell if B is
// a scalar — scalar extension, §4.2).
func IndexedAssignVector(v *Value, idx *Value, b *Value, io int) error {
	n := v.shape.LastAxis()
	scalarExtend := b.shape.Volume() == 1 && idx.shape.Volume() != 1
	if !scalarExtend && b.shape.Volume() != idx.shape.Volume() {
		return errors.New(errors.LENGTH, "right argument length does not match index count")
	}
	for k, ic := range idx.ravel {
		pos := int(ic.IntValue()) - io
		if pos < 0 || pos >= n {
			return errors.New(errors.INDEX, fmt.Sprintf("index %d out of range", pos+io))
		}
		var src cell.Cell
		if scalarExtend {
			src = b.ravel[0]
		} else {
			src = b.ravel[k]
		}
		if err := v.AssignAt(pos, src); err != nil {
			return err
		}
	}
	return nil
}

// GetCellRefs produces a companion Value of LeftValue cells pointing
// into v, one per ravel element, in the same shape as v — the
// machinery §4.2 calls for selective assignment ((A[I])←B).
func (v *Value) GetCellRefs() *Value {
	cells := make([]cell.Cell, len(v.ravel))
	for i := range v.ravel {
		cells[i] = cell.MakeLeftValue(v, i)
	}
	refs, _ := New(v.shape.Clone(), cells)
	return refs
}

// SelectiveAssign implements (A[I])←B: lhs must be a Value of
// LeftValue cells (as produced by GetCellRefs after re-evaluating the
// LHS expression); corresponding cells of B are assigned into their
// owners. Scalar B is scalar-extended (§4.2).
func SelectiveAssign(lhs *Value, b *Value) error {
	scalarExtend := b.shape.Volume() == 1 && lhs.shape.Volume() != 1
	if !scalarExtend && b.shape.Volume() != lhs.shape.Volume() {
		return errors.New(errors.LENGTH, "right argument length does not match selection count")
	}
	for i, lc := range lhs.ravel {
		if lc.Kind() != cell.LeftValue {
			return errors.New(errors.LEFT_SYNTAX, "selective assignment target is not an lvalue")
		}
		owner, slot := lc.LeftOwner()
		ownerVal, ok := owner.(*Value)
		if !ok {
			return errors.New(errors.THIS_IS_A_BUG, "left-value owner is not a Value")
		}
		var src cell.Cell
		if scalarExtend {
			src = b.ravel[0]
		} else {
			src = b.ravel[i]
		}
		if err := ownerVal.AssignAt(slot, src); err != nil {
			return err
		}
	}
	return nil
}
