package workspace

import "testing"

func TestNewInstallsQuadDefaults(t *testing.T) {
	ws := New()
	if ws.IndexOrigin() != 1 {
		t.Fatalf("⎕IO default = %d, want 1", ws.IndexOrigin())
	}
	if ws.PrintPrecision() != 10 {
		t.Fatalf("⎕PP default = %d, want 10", ws.PrintPrecision())
	}
	if ws.PrintWidth() != 80 {
		t.Fatalf("⎕PW default = %d, want 80", ws.PrintWidth())
	}
	if ws.ComparisonTolerance() != 1e-13 {
		t.Fatalf("⎕CT default = %v, want 1e-13", ws.ComparisonTolerance())
	}
}

func TestSetIndexOriginValidates(t *testing.T) {
	ws := New()
	if err := ws.SetIndexOrigin(2); err == nil {
		t.Fatal("⎕IO←2 should be rejected (only 0 or 1 are valid)")
	}
	if err := ws.SetIndexOrigin(0); err != nil {
		t.Fatalf("⎕IO←0 should be accepted: %v", err)
	}
	if ws.IndexOrigin() != 0 {
		t.Fatalf("⎕IO after SetIndexOrigin(0) = %d, want 0", ws.IndexOrigin())
	}
}

func TestSetPrintWidthValidates(t *testing.T) {
	ws := New()
	if err := ws.SetPrintWidth(10); err == nil {
		t.Fatal("⎕PW←10 should be rejected (minimum is 30)")
	}
}

func TestSIDepthDisciplineIdleIsZero(t *testing.T) {
	ws := New()
	if ws.SIDepth() != 0 {
		t.Fatalf("a fresh Workspace should be idle (si_depth 0), got %d", ws.SIDepth())
	}
}

func TestPushPopSIBalanced(t *testing.T) {
	ws := New()
	exe := &Executable{Text: []string{"1"}, LineStarts: []int{0}}

	si, err := ws.PushSI(exe, "FOO", false)
	if err != nil {
		t.Fatalf("PushSI returned error: %v", err)
	}
	if ws.SIDepth() != 1 {
		t.Fatalf("SIDepth after one PushSI = %d, want 1", ws.SIDepth())
	}
	if ws.CurrentSI() != si {
		t.Fatal("CurrentSI should return the frame just pushed")
	}
	ws.PopSI()
	if ws.SIDepth() != 0 {
		t.Fatalf("SIDepth after matching PopSI = %d, want 0", ws.SIDepth())
	}
}

func TestPushSIEnforcesDepthLimit(t *testing.T) {
	ws := New()
	ws.SetSIDepthLimit(2)
	exe := &Executable{Text: []string{"1"}, LineStarts: []int{0}}

	if _, err := ws.PushSI(exe, "A", false); err != nil {
		t.Fatalf("first PushSI returned error: %v", err)
	}
	if _, err := ws.PushSI(exe, "B", false); err != nil {
		t.Fatalf("second PushSI returned error: %v", err)
	}
	if _, err := ws.PushSI(exe, "C", false); err == nil {
		t.Fatal("PushSI beyond the configured depth limit should error")
	}
}

func TestPopSIOnEmptyStackIsNoop(t *testing.T) {
	ws := New()
	ws.PopSI() // must not panic
	if ws.SIDepth() != 0 {
		t.Fatalf("PopSI on an idle Workspace should leave si_depth at 0, got %d", ws.SIDepth())
	}
}

func TestAccountInformationReadsClock(t *testing.T) {
	ws := New()
	ws.WallClock = fakeClock{micros: 123456}
	ws.RefreshAccountInformation()
	sym := ws.SymTab.LookupExisting(quadAI, true)
	v, err := sym.RequireVariable()
	if err != nil {
		t.Fatalf("⎕AI should be bound after RefreshAccountInformation: %v", err)
	}
	if got := v.Ravel()[0].IntValue(); got != 123456 {
		t.Fatalf("⎕AI[0] = %d, want 123456 (from the Clock collaborator)", got)
	}
}

func TestRefreshLineCounterTracksSIStack(t *testing.T) {
	ws := New()
	exe := &Executable{Text: []string{"a", "b"}, LineStarts: []int{0, 1}}
	si, _ := ws.PushSI(exe, "F", false)
	si.PC = 1
	ws.RefreshLineCounter()
	sym := ws.SymTab.LookupExisting(quadLC, true)
	v, _ := sym.RequireVariable()
	if len(v.Ravel()) != 1 || v.Ravel()[0].IntValue() != 1 {
		t.Fatalf("⎕LC should report the current frame's line, got %v", v.Ravel())
	}
}

type fakeClock struct{ micros int64 }

func (f fakeClock) NowMicros() int64 { return f.micros }
