package prefix

import (
	"testing"

	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/workspace"
)

func newTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	return workspace.New()
}

func intsOf(t *testing.T, out Outcome) []int64 {
	t.Helper()
	if out.Value == nil {
		t.Fatal("expected a Value result, got none")
	}
	xs := make([]int64, len(out.Value.Ravel()))
	for i, c := range out.Value.Ravel() {
		xs[i] = c.IntValue()
	}
	return xs
}

func assertInts(t *testing.T, out Outcome, want ...int64) {
	t.Helper()
	got := intsOf(t, out)
	if len(got) != len(want) {
		t.Fatalf("result length = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("result = %v, want %v", got, want)
		}
	}
}

// E1: 1 2 3 + 10 20 30 -> 11 22 33
func TestE1ElementwisePlus(t *testing.T) {
	ws := newTestWorkspace(t)
	out, diag := ExecuteLine(ws, "1 2 3 + 10 20 30")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	assertInts(t, out, 11, 22, 33)
}

// E2: +/⍳10 -> 55
func TestE2PlusReduceIota(t *testing.T) {
	ws := newTestWorkspace(t)
	out, diag := ExecuteLine(ws, "+/⍳10")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	assertInts(t, out, 55)
}

// E3: ⍴(1 2)(3 4 5) -> a 2-element nested vector, i.e. shape 2.
func TestE3StrandShapeIsNested(t *testing.T) {
	ws := newTestWorkspace(t)
	out, diag := ExecuteLine(ws, "⍴(1 2)(3 4 5)")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	assertInts(t, out, 2)
}

// E4: A←1 2 3 ⋄ A[2]←99 ⋄ A -> 1 99 3
func TestE4IndexedAssign(t *testing.T) {
	ws := newTestWorkspace(t)
	out, diag := ExecuteLine(ws, "A←1 2 3 ⋄ A[2]←99 ⋄ A")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	assertInts(t, out, 1, 99, 3)
}

// E5: {⍵+⍺}/1 2 3 4 -> 10
func TestE5LambdaReduce(t *testing.T) {
	ws := newTestWorkspace(t)
	out, diag := ExecuteLine(ws, "{⍵+⍺}/1 2 3 4")
	if diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	assertInts(t, out, 10)
}

// E6: 3 1⍴'ABCDEF' -> LENGTH ERROR with the caret under ⍴.
func TestE6ReshapeLengthError(t *testing.T) {
	ws := newTestWorkspace(t)
	line := "3 1⍴'ABCDEF'"
	_, diag := ExecuteLine(ws, line)
	if diag == nil {
		t.Fatal("expected a LENGTH ERROR, got none")
	}
	if diag.Kind != errors.LENGTH {
		t.Fatalf("Kind = %v, want LENGTH", diag.Kind)
	}
	if diag.Image != line {
		t.Fatalf("Image = %q, want %q", diag.Image, line)
	}
	rhoCol := []rune(line)
	idx := -1
	for i, r := range rhoCol {
		if r == '⍴' {
			idx = i
			break
		}
	}
	if idx < 0 {
		t.Fatal("test input must contain ⍴")
	}
	if len(diag.Carets) != len([]rune(line)) {
		t.Fatalf("caret line length = %d, want %d", len(diag.Carets), len([]rune(line)))
	}
	if rune(diag.Carets[idx]) != '^' {
		t.Fatalf("caret line %q should have ^ at column %d (under ⍴)", diag.Carets, idx)
	}
}

// E7: ÷0 -> DOMAIN ERROR with the caret under ÷.
func TestE7ReciprocalOfZero(t *testing.T) {
	ws := newTestWorkspace(t)
	line := "÷0"
	_, diag := ExecuteLine(ws, line)
	if diag == nil {
		t.Fatal("expected a DOMAIN ERROR, got none")
	}
	if diag.Kind != errors.DOMAIN {
		t.Fatalf("Kind = %v, want DOMAIN", diag.Kind)
	}
	if diag.Image != line {
		t.Fatalf("Image = %q, want %q", diag.Image, line)
	}
	want := "^ "
	if diag.Carets != want {
		t.Fatalf("Carets = %q, want %q (caret under ÷)", diag.Carets, want)
	}
}

func TestSIDepthIdleAfterExecuteLine(t *testing.T) {
	ws := newTestWorkspace(t)
	if _, diag := ExecuteLine(ws, "1+1"); diag != nil {
		t.Fatalf("unexpected error: %s", diag.Format())
	}
	if ws.SIDepth() != 0 {
		t.Fatalf("SIDepth after ExecuteLine returns should be 0, got %d", ws.SIDepth())
	}
}

func TestSIDepthIdleAfterError(t *testing.T) {
	ws := newTestWorkspace(t)
	if _, diag := ExecuteLine(ws, "÷0"); diag == nil {
		t.Fatal("expected an error")
	}
	if ws.SIDepth() != 0 {
		t.Fatalf("a failing immediate-execution line must still pop its SI frame, got depth %d", ws.SIDepth())
	}
}
