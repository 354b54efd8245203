package errors

import "testing"

func TestKindStringAndRecoverable(t *testing.T) {
	if LENGTH.String() != "LENGTH ERROR" {
		t.Fatalf("LENGTH.String() = %q", LENGTH.String())
	}
	if DOMAIN.String() != "DOMAIN ERROR" {
		t.Fatalf("DOMAIN.String() = %q", DOMAIN.String())
	}
	if !LENGTH.Recoverable() {
		t.Fatal("LENGTH should be recoverable (pauses the SI frame)")
	}
	if DEFN.Recoverable() {
		t.Fatal("DEFN should not be recoverable")
	}
	if Kind(999).String() != "UNKNOWN ERROR" {
		t.Fatalf("unknown Kind should render as UNKNOWN ERROR, got %q", Kind(999).String())
	}
}

func TestAplErrorIs(t *testing.T) {
	a := New(DOMAIN, "division by zero")
	b := New(DOMAIN, "reciprocal of zero")
	if !a.Is(b) {
		t.Fatal("two AplErrors of the same Kind should match via Is")
	}
	c := New(LENGTH, "mismatch")
	if a.Is(c) {
		t.Fatal("AplErrors of different Kinds should not match via Is")
	}
}

func TestAplErrorWithCaretFirstWins(t *testing.T) {
	e := New(DOMAIN, "reciprocal of zero")
	e.WithCaret(1, 0, 1)
	e.WithCaret(1, 5, 3) // must not overwrite the first stamp
	if e.Line != 1 || e.Column != 0 || e.Length != 1 {
		t.Fatalf("WithCaret should keep the innermost stamp, got line=%d col=%d len=%d", e.Line, e.Column, e.Length)
	}
}

func TestDiagnosticFormat(t *testing.T) {
	d := Diagnostic{Kind: DOMAIN, Image: "÷0", Carets: "^ "}
	got := d.Format()
	want := "DOMAIN ERROR\n  ÷0\n  ^ "
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestDiagnosticFormatNoImage(t *testing.T) {
	d := Diagnostic{Kind: SYSTEM_LIMIT_SI_DEPTH}
	if got, want := d.Format(), "SYSTEM LIMIT ERROR (SI depth)"; got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestCaretsFor(t *testing.T) {
	got := CaretsFor(5, 1, 3)
	want := " ^^^ "
	if got != want {
		t.Fatalf("CaretsFor(5,1,3) = %q, want %q", got, want)
	}
	if got := CaretsFor(3, -2, 50); got != "^^^" {
		t.Fatalf("CaretsFor should clamp out-of-range bounds, got %q", got)
	}
}
