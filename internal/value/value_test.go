package value

import (
	"testing"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/shape"
)

func TestShapeRavelInvariant(t *testing.T) {
	v := IntVector(1, 2, 3)
	if len(v.Ravel()) != 3 {
		t.Fatalf("expected 3 ravel cells, got %d", len(v.Ravel()))
	}
	if v.Shape().Volume() != 3 {
		t.Fatalf("expected volume 3")
	}
}

func TestScalarHasRankZero(t *testing.T) {
	s := ScalarOf(cell.MakeInt(5))
	if s.Rank() != 0 || s.Shape().Volume() != 1 {
		t.Fatalf("expected rank 0 volume 1 scalar")
	}
}

func TestReshapeExactCountOrSingleElement(t *testing.T) {
	src := IntVector(1, 2, 3)
	if _, err := Reshape(shape.Shape{2, 3}, src); err == nil {
		t.Fatalf("2 3⍴1 2 3: expected a LENGTH error, got none")
	} else if ae, ok := err.(*errors.AplError); !ok || ae.Kind != errors.LENGTH {
		t.Fatalf("2 3⍴1 2 3: got %v, want a LENGTH error", err)
	}
	out, err := Reshape(shape.Shape{2, 3}, IntVector(7))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{7, 7, 7, 7, 7, 7}
	if len(out.Ravel()) != len(want) {
		t.Fatalf("got %d cells, want %d", len(out.Ravel()), len(want))
	}
	for i, c := range out.Ravel() {
		if c.IntValue() != want[i] {
			t.Fatalf("index %d: got %d want %d", i, c.IntValue(), want[i])
		}
	}
}

func TestIndexVectorOutOfRange(t *testing.T) {
	v := IntVector(10, 20, 30)
	idx := IntVector(5)
	if _, err := IndexVector(v, idx, 1); err == nil {
		t.Fatalf("expected INDEX error")
	}
}

func TestIndexedAssignVector(t *testing.T) {
	v := IntVector(1, 2, 3)
	idx := IntVector(2)
	b := IntVector(99)
	if err := IndexedAssignVector(v, idx, b, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Ravel()[1].IntValue() != 99 {
		t.Fatalf("expected v[2]=99, got %d", v.Ravel()[1].IntValue())
	}
}

func TestRetainReleaseRefcount(t *testing.T) {
	v := IntVector(1, 2, 3)
	if v.RefCount() != 1 {
		t.Fatalf("expected refcount 1")
	}
	v.Retain()
	if v.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after retain")
	}
	v.Release()
	if v.RefCount() != 1 {
		t.Fatalf("expected refcount 1 after release")
	}
}

func TestPrototypePreservesShape(t *testing.T) {
	v := CharVector("ab")
	p := v.Prototype()
	if !p.Shape().Equal(v.Shape()) {
		t.Fatalf("prototype shape mismatch")
	}
	for _, c := range p.Ravel() {
		if c.CharValue() != ' ' {
			t.Fatalf("expected blanked char prototype")
		}
	}
}
