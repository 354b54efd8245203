package workspace

import "testing"

func TestDefaultCollaboratorsAreNoops(t *testing.T) {
	ws := New()
	if ws.Attention.Attention() {
		t.Fatal("default AttentionSource should never report attention")
	}
	ws.Attention.ClearAttention() // must not panic
	if got := ws.WallClock.NowMicros(); got != 0 {
		t.Fatalf("default Clock should read 0, got %d", got)
	}
}
