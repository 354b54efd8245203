package symtab

import (
	"testing"

	"github.com/cwbudde/goapl/internal/value"
)

func TestLookupCreatesUnused(t *testing.T) {
	tbl := New()
	sym, err := tbl.Lookup("A", false)
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if sym.Top().Class != Unused {
		t.Fatalf("a freshly created symbol should be Unused, got %v", sym.Top().Class)
	}
	again, _ := tbl.Lookup("A", false)
	if again != sym {
		t.Fatal("Lookup should return the same *Symbol for repeat lookups of the same name")
	}
}

func TestQuadNamespaceIsDistinct(t *testing.T) {
	tbl := New()
	plain, _ := tbl.Lookup("IO", false)
	quad, _ := tbl.Lookup("IO", true)
	if plain == quad {
		t.Fatal("a plain name and its quad counterpart must be distinct symbols")
	}
}

func TestSetVariableAndRequireVariable(t *testing.T) {
	tbl := New()
	sym, _ := tbl.Lookup("A", false)
	if _, err := sym.RequireVariable(); err == nil {
		t.Fatal("RequireVariable on an Unused symbol should error")
	}
	v := value.IntVector(1, 2, 3)
	sym.SetVariable(v)
	got, err := sym.RequireVariable()
	if err != nil {
		t.Fatalf("RequireVariable returned error after SetVariable: %v", err)
	}
	if got != v {
		t.Fatal("RequireVariable should return the exact Value bound by SetVariable")
	}
}

func TestPushPopShadowing(t *testing.T) {
	tbl := New()
	sym, _ := tbl.Lookup("A", false)
	sym.SetVariable(value.IntVector(1))

	sym.Push()
	if sym.Top().Class != Unused {
		t.Fatal("Push should shadow with a fresh Unused binding")
	}
	sym.SetVariable(value.IntVector(2))

	sym.Pop()
	got, err := sym.RequireVariable()
	if err != nil {
		t.Fatalf("RequireVariable after Pop returned error: %v", err)
	}
	if got.Ravel()[0].IntValue() != 1 {
		t.Fatalf("Pop should restore the shadowed binding, got %v", got.Ravel()[0].IntValue())
	}
}

func TestPopNeverDropsBelowOne(t *testing.T) {
	tbl := New()
	sym, _ := tbl.Lookup("A", false)
	sym.Pop() // no matching Push: must be a no-op
	if len(sym.Stack) != 1 {
		t.Fatalf("Pop without a matching Push must leave exactly one binding, got %d", len(sym.Stack))
	}
}

func TestPushAllPopAllLIFO(t *testing.T) {
	tbl := New()
	a, _ := tbl.Lookup("A", false)
	a.SetVariable(value.IntVector(7))

	syms := tbl.PushAll([]string{"A", "B"}, false)
	syms[0].SetVariable(value.IntVector(99))
	tbl.PopAll(syms)

	got, err := a.RequireVariable()
	if err != nil {
		t.Fatalf("RequireVariable after PopAll returned error: %v", err)
	}
	if got.Ravel()[0].IntValue() != 7 {
		t.Fatalf("PopAll should restore the pre-call binding of A, got %v", got.Ravel()[0].IntValue())
	}
}

func TestErase(t *testing.T) {
	tbl := New()
	sym, _ := tbl.Lookup("A", false)
	sym.SetVariable(value.IntVector(1))
	sym.Push()
	sym.SetVariable(value.IntVector(2))

	tbl.Erase("A", false)
	if len(sym.Stack) != 1 || sym.Top().Class != Unused {
		t.Fatal("Erase should pop every shadowing level and leave a single Unused binding")
	}
	if tbl.LookupExisting("A", false) != nil {
		t.Fatal("LookupExisting should report an erased name as absent")
	}
	// Looking it up again (create-if-missing) should clear the erased mark.
	again, _ := tbl.Lookup("A", false)
	if tbl.LookupExisting("A", false) != again {
		t.Fatal("re-Lookup after Erase should clear the erased mark")
	}
}
