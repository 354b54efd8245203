// Package value implements §2.3/§3.3/§4.2 of the core spec: the
// rectangular, reference-counted, ravel-owning array that is APL's
// only kind of runtime value.
//
// Grounded on the teacher's internal/interp/runtime/refcount.go
// (RefCountManager's Increment/Decrement pair); this package inlines
// that pair directly onto Value as Retain/Release rather than routing
// through a manager interface, since — unlike DWScript object
// instances — a Value has no user-visible destructor to call back
// into.
package value

import (
	"fmt"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/shape"
)

// Flags records the per-Value bookkeeping bits of §3.3.
type Flags struct {
	Assigned bool // set while a symbol's value stack owns this Value
	Marked   bool // GC-debug mark, set/cleared by SI-exit assertions (§9)
	Shared   bool // constant/shared; mutating primitives must copy-on-write
	Temp     bool
	Complete bool
}

// Value is a rectangular array of Cells plus its Shape (§3.3).
type Value struct {
	shape shape.Shape
	ravel []cell.Cell
	flags Flags

	refCount int

	// nestedPointers/nestedElements are the aggregate counters §3.3
	// says are "maintained on cell init/release" — recomputed on
	// demand (§9 "Pointer back-links in cells") rather than tracked
	// incrementally through a back-link, since back-links are not kept.
}

// New constructs a Value with refCount 1, owning ravel. The caller
// must not retain ravel elsewhere: Value exclusively owns its ravel
// cells and their storage (§3.3).
func New(shp shape.Shape, ravel []cell.Cell) (*Value, error) {
	v := &Value{shape: shp, ravel: ravel, refCount: 1}
	if err := v.checkValue(); err != nil {
		return nil, err
	}
	return v, nil
}

// ScalarOf wraps a single cell as a rank-0 Value.
func ScalarOf(c cell.Cell) *Value {
	v, _ := New(shape.Scalar, []cell.Cell{c})
	return v
}

// VectorOf wraps a slice of cells as a rank-1 Value.
func VectorOf(cells []cell.Cell) *Value {
	v, _ := New(shape.Vector(len(cells)), cells)
	return v
}

// IntVector is a convenience constructor used throughout the reducer
// and tests for numeric-literal vectors.
func IntVector(xs ...int64) *Value {
	cells := make([]cell.Cell, len(xs))
	for i, x := range xs {
		cells[i] = cell.MakeInt(x)
	}
	return VectorOf(cells)
}

// CharVector builds a character-vector Value from a Go string,
// APL's representation of string literals (§4.3 string tokenizing).
func CharVector(s string) *Value {
	rs := []rune(s)
	cells := make([]cell.Cell, len(rs))
	for i, r := range rs {
		cells[i] = cell.MakeChar(r)
	}
	return VectorOf(cells)
}

func (v *Value) Shape() shape.Shape { return v.shape }
func (v *Value) Rank() int          { return v.shape.Rank() }
func (v *Value) Ravel() []cell.Cell { return v.ravel }
func (v *Value) RefCount() int      { return v.refCount }
func (v *Value) Flags() Flags       { return v.flags }

// Retain increments the reference count and returns v, satisfying
// cell.NestedValue so Value cells can be nested inside other Values.
func (v *Value) Retain() cell.NestedValue {
	v.refCount++
	return v
}

// Release decrements the reference count; at zero, every cell is
// released (which in turn releases any nested Values) and the Value
// becomes unreachable (§3.3 lifecycle).
func (v *Value) Release() {
	v.refCount--
	if v.refCount > 0 {
		return
	}
	for i := range v.ravel {
		v.ravel[i].Release()
	}
	v.ravel = nil
}

// CloneIfShared returns v unchanged if uniquely owned (refCount == 1
// and not flagged Shared), or a deep copy otherwise — the
// copy-on-write gate every mutating primitive must pass through
// (§3.3 "Mutated" lifecycle bullet).
func (v *Value) CloneIfShared() *Value {
	if v.refCount <= 1 && !v.flags.Shared {
		return v
	}
	cells := make([]cell.Cell, len(v.ravel))
	for i, c := range v.ravel {
		var dst cell.Cell
		_ = cell.Init(&dst, c)
		cells[i] = dst
	}
	clone, _ := New(v.shape.Clone(), cells)
	return clone
}

// checkValue verifies shape x ravel size consistency (§4.2
// check_value) and is called after every value-producing operation.
func (v *Value) checkValue() error {
	want := v.shape.Volume()
	if want == 0 {
		want = 1 // scalars-with-prototype representation (§3.3 ravel length)
	}
	if !v.shape.CheckRank() {
		return errors.New(errors.SYSTEM_LIMIT_RANK, fmt.Sprintf("rank %d exceeds R_MAX=%d", v.shape.Rank(), shape.RMax))
	}
	if v.shape.Volume() == 0 {
		// empty value: ravel holds exactly one prototype cell (or the
		// caller may have supplied zero cells; normalize to one).
		if len(v.ravel) == 0 {
			v.ravel = []cell.Cell{cell.MakeInt(0)}
		}
		return nil
	}
	if len(v.ravel) != want {
		return errors.New(errors.LENGTH, fmt.Sprintf("ravel has %d cells, shape requires %d", len(v.ravel), want))
	}
	return nil
}

// Reshape implements dyadic ⍴: produce a Value of the given shape from
// source's ravel. Per §8 E6, this core requires an exact element-count
// match rather than real APL's cycle-via-modulo reshape; a mismatch is
// a LENGTH ERROR (see DESIGN.md Open Question 4).
func Reshape(shp shape.Shape, source *Value) (*Value, error) {
	if !shp.CheckRank() {
		return nil, errors.New(errors.SYSTEM_LIMIT_RANK, "reshape rank exceeds R_MAX")
	}
	want := shp.Volume()
	if want == 0 {
		return New(shp, nil)
	}
	src := source.ravel
	if len(src) == 0 {
		return nil, errors.New(errors.DOMAIN, "cannot reshape an empty source")
	}
	if len(src) != 1 && len(src) != want {
		return nil, errors.New(errors.LENGTH, "reshape requires the source's element count to match the target shape's volume exactly")
	}
	cells := make([]cell.Cell, want)
	for i := range cells {
		var dst cell.Cell
		_ = cell.Init(&dst, src[i%len(src)])
		cells[i] = dst
	}
	return New(shp, cells)
}

// Prototype recursively zero-out/space-out every cell, preserving
// shape (§4.2) — used for empty-value printing and fill semantics.
func (v *Value) Prototype() *Value {
	cells := make([]cell.Cell, len(v.ravel))
	for i, c := range v.ravel {
		switch c.Kind() {
		case cell.Char:
			cells[i] = cell.MakeChar(' ')
		case cell.Pointer:
			inner, ok := c.Inner().(*Value)
			if ok {
				cells[i] = cell.MakePointer(inner.Prototype().Retain())
			} else {
				cells[i] = cell.MakeInt(0)
			}
		default:
			cells[i] = cell.MakeInt(0)
		}
	}
	proto, _ := New(v.shape.Clone(), cells)
	return proto
}

// IsOrContains recursively tests whether v is, or (through Pointer
// cells) contains, other — used by SI queries (§4.2).
func (v *Value) IsOrContains(other *Value) bool {
	if v == other {
		return true
	}
	for _, c := range v.ravel {
		if c.Kind() == cell.Pointer {
			if inner, ok := c.Inner().(*Value); ok {
				if inner.IsOrContains(other) {
					return true
				}
			}
		}
	}
	return false
}

// Compare extends cell.Compare to whole Values: numeric/char leaves
// compare as in cell.Compare; nested values compare recursively by
// rank, then shape, then ravel (§4.1 compare contract, lifted to
// aggregates).
func Compare(a, b *Value, ct float64) cell.Order {
	if a.Rank() != b.Rank() {
		if a.Rank() < b.Rank() {
			return cell.Less
		}
		return cell.Greater
	}
	if !a.shape.Equal(b.shape) {
		for i := range a.shape {
			if a.shape[i] != b.shape[i] {
				if a.shape[i] < b.shape[i] {
					return cell.Less
				}
				return cell.Greater
			}
		}
	}
	for i := range a.ravel {
		ca, cb := a.ravel[i], b.ravel[i]
		if ca.Kind() == cell.Pointer && cb.Kind() == cell.Pointer {
			ia, _ := ca.Inner().(*Value)
			ib, _ := cb.Inner().(*Value)
			if o := Compare(ia, ib, ct); o != cell.Equal {
				return o
			}
			continue
		}
		if o := cell.Compare(ca, cb, ct); o != cell.Equal {
			return o
		}
	}
	return cell.Equal
}
