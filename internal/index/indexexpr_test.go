package index

import (
	"testing"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/shape"
	"github.com/cwbudde/goapl/internal/value"
)

func matrix234() *value.Value {
	cells := value.IntVector(1, 2, 3, 4, 5, 6).Ravel()
	v, err := value.New(shape.Shape{2, 3}, cells)
	if err != nil {
		panic(err)
	}
	return v
}

func TestToShape(t *testing.T) {
	e := &Expr{Items: []*value.Value{value.IntVector(3, 1)}}
	shp, err := e.ToShape()
	if err != nil {
		t.Fatalf("ToShape returned error: %v", err)
	}
	if !shp.Equal(shape.Shape{3, 1}) {
		t.Fatalf("ToShape() = %v, want [3 1]", shp)
	}
}

func TestToShapeRejectsMultiItem(t *testing.T) {
	e := &Expr{Items: []*value.Value{value.IntVector(1), value.IntVector(2)}}
	if _, err := e.ToShape(); err == nil {
		t.Fatal("ToShape with more than one bracket item should error")
	}
}

func TestToAxis(t *testing.T) {
	e := &Expr{Items: []*value.Value{value.IntVector(2)}}
	ax, err := e.ToAxis(1, 3)
	if err != nil {
		t.Fatalf("ToAxis returned error: %v", err)
	}
	if ax != 1 {
		t.Fatalf("ToAxis(io=1) = %d, want 1 (0-based)", ax)
	}
}

func TestToAxisOutOfRange(t *testing.T) {
	e := &Expr{Items: []*value.Value{value.IntVector(9)}}
	if _, err := e.ToAxis(1, 3); err == nil {
		t.Fatal("ToAxis should reject an out-of-range axis")
	}
}

func TestCheckRangeOutOfBounds(t *testing.T) {
	v := matrix234()
	e := &Expr{Items: []*value.Value{value.IntVector(1, 2), nil}}
	if err := e.CheckRange(v.Shape(), 1); err != nil {
		t.Fatalf("CheckRange with valid indices returned error: %v", err)
	}
	bad := &Expr{Items: []*value.Value{value.IntVector(9), nil}}
	if err := bad.CheckRange(v.Shape(), 1); err == nil {
		t.Fatal("CheckRange should reject an out-of-bounds index")
	}
}

func TestReadSingleElement(t *testing.T) {
	v := matrix234() // [[1 2 3] [4 5 6]], ⎕IO←1
	e := &Expr{Items: []*value.Value{value.ScalarOf(cell.MakeInt(2)), value.ScalarOf(cell.MakeInt(1))}}
	got, err := e.Read(v, 1)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if got.Rank() != 0 || got.Ravel()[0].IntValue() != 4 {
		t.Fatalf("Read(v, [2;1]) = %v, want scalar 4", got.Ravel())
	}
}

func TestReadElidedAxis(t *testing.T) {
	v := matrix234()
	e := &Expr{Items: []*value.Value{value.IntVector(1), nil}}
	got, err := e.Read(v, 1)
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	want := []int64{1, 2, 3}
	if len(got.Ravel()) != len(want) {
		t.Fatalf("Read(v, [1;]) length = %d, want %d", len(got.Ravel()), len(want))
	}
	for i, w := range want {
		if got.Ravel()[i].IntValue() != w {
			t.Fatalf("Read(v, [1;])[%d] = %d, want %d", i, got.Ravel()[i].IntValue(), w)
		}
	}
}

func TestWriteScalarExtend(t *testing.T) {
	v := matrix234()
	e := &Expr{Items: []*value.Value{value.IntVector(1), nil}}
	if err := e.Write(v, 1, value.ScalarOf(v.Ravel()[0])); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
}

func TestWriteLengthMismatch(t *testing.T) {
	v := matrix234()
	e := &Expr{Items: []*value.Value{value.IntVector(1), nil}}
	if err := e.Write(v, 1, value.IntVector(1, 2)); err == nil {
		t.Fatal("Write should reject a right argument whose length matches neither the index count nor 1")
	}
}
