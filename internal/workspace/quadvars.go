package workspace

import (
	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/value"
)

// quad-name constants for the system variables §4.8 requires.
const (
	quadIO = "IO"
	quadCT = "CT"
	quadPP = "PP"
	quadPW = "PW"
	quadL  = "L"
	quadR  = "R"
	quadLC = "LC"
	quadEM = "EM"
	quadET = "ET"
	quadAI = "AI"
)

// installDefaults binds every §4.8 system variable to its default, as
// ordinary Variable bindings in the quad namespace — the storage
// decision recorded in SPEC_FULL.md §3, grounded on GNU APL's Symbol.cc
// treating ⎕-vars as Symbols. User-function entry pushes only
// plain-namespace names, so these bindings are not shadowed by a call.
func (w *Workspace) installDefaults() {
	w.setQuadInt(quadIO, 1)
	w.setQuadFloat(quadCT, 1e-13)
	w.setQuadInt(quadPP, 10)
	w.setQuadInt(quadPW, 80)
	w.setQuadInt(quadL, 0)
	w.setQuadInt(quadR, 0)
	w.setQuadVector(quadLC, nil)
	w.setQuadChar(quadEM, "")
	w.setQuadVector(quadET, []int64{0, 0})
	w.RefreshAccountInformation()
}

func (w *Workspace) setQuadInt(name string, n int64) {
	sym, _ := w.SymTab.Lookup(name, true)
	sym.SetVariable(value.ScalarOf(cell.MakeInt(n)))
}

func (w *Workspace) setQuadFloat(name string, f float64) {
	sym, _ := w.SymTab.Lookup(name, true)
	sym.SetVariable(value.ScalarOf(cell.MakeFloat(f)))
}

func (w *Workspace) setQuadChar(name string, s string) {
	sym, _ := w.SymTab.Lookup(name, true)
	sym.SetVariable(value.CharVector(s))
}

func (w *Workspace) setQuadVector(name string, xs []int64) {
	sym, _ := w.SymTab.Lookup(name, true)
	sym.SetVariable(value.IntVector(xs...))
}

func (w *Workspace) quadInt(name string) int64 {
	sym := w.SymTab.LookupExisting(name, true)
	if sym == nil {
		return 0
	}
	v, err := sym.RequireVariable()
	if err != nil || len(v.Ravel()) == 0 {
		return 0
	}
	return v.Ravel()[0].IntValue()
}

func (w *Workspace) quadFloat(name string) float64 {
	sym := w.SymTab.LookupExisting(name, true)
	if sym == nil {
		return 0
	}
	v, err := sym.RequireVariable()
	if err != nil || len(v.Ravel()) == 0 {
		return 0
	}
	c := v.Ravel()[0]
	if c.Kind() == cell.Float {
		return c.FloatValue()
	}
	return float64(c.IntValue())
}

// IndexOrigin returns the live ⎕IO (0 or 1).
func (w *Workspace) IndexOrigin() int { return int(w.quadInt(quadIO)) }

// ComparisonTolerance returns the live ⎕CT.
func (w *Workspace) ComparisonTolerance() float64 { return w.quadFloat(quadCT) }

// PrintPrecision returns the live ⎕PP.
func (w *Workspace) PrintPrecision() int { return int(w.quadInt(quadPP)) }

// PrintWidth returns the live ⎕PW.
func (w *Workspace) PrintWidth() int { return int(w.quadInt(quadPW)) }

// SetIndexOrigin validates and sets ⎕IO (§4.8: ∈ {0,1}).
func (w *Workspace) SetIndexOrigin(n int64) error {
	if n != 0 && n != 1 {
		return errors.New(errors.DOMAIN, "⎕IO must be 0 or 1")
	}
	w.setQuadInt(quadIO, n)
	return nil
}

// SetComparisonTolerance validates and sets ⎕CT (§4.8: 0 ≤ ⎕CT ≤ 1e-9).
func (w *Workspace) SetComparisonTolerance(ct float64) error {
	if ct < 0 || ct > 1e-9 {
		return errors.New(errors.DOMAIN, "⎕CT must be in [0, 1e-9]")
	}
	w.setQuadFloat(quadCT, ct)
	return nil
}

// SetPrintPrecision validates and sets ⎕PP (§4.8: 1..∞).
func (w *Workspace) SetPrintPrecision(n int64) error {
	if n < 1 {
		return errors.New(errors.DOMAIN, "⎕PP must be at least 1")
	}
	w.setQuadInt(quadPP, n)
	return nil
}

// SetPrintWidth validates and sets ⎕PW (§4.8: ≥ 30).
func (w *Workspace) SetPrintWidth(n int64) error {
	if n < 30 {
		return errors.New(errors.DOMAIN, "⎕PW must be at least 30")
	}
	w.setQuadInt(quadPW, n)
	return nil
}

// SetLastError records ⎕EM/⎕ET for a failed line; prefix.ExecuteLine
// calls it for every error, safe_execution or not (§4.8: read-only to
// user code otherwise).
func (w *Workspace) SetLastError(d *errors.Diagnostic) {
	if d == nil {
		return
	}
	w.setQuadChar(quadEM, d.Format())
	w.setQuadVector(quadET, []int64{int64(d.Kind), 0})
}

// RefreshLineCounter rewrites ⎕LC from the live SI stack, most-recent
// frame first, for ⎕EA/⎕EC observers.
func (w *Workspace) RefreshLineCounter() {
	xs := make([]int64, 0, len(w.siStack))
	for i := len(w.siStack) - 1; i >= 0; i-- {
		xs = append(xs, int64(w.siStack[i].CurrentLine()))
	}
	w.setQuadVector(quadLC, xs)
}

// RefreshAccountInformation rewrites ⎕AI from the Workspace-clock
// collaborator (§6 "Workspace clock", §4.8): this is the one consumer
// of WallClock.NowMicros(). The reducer calls this once per
// immediate-execution line (see internal/prefix.ExecuteLine), matching
// how ⎕LC is refreshed per statement rather than read lazily.
func (w *Workspace) RefreshAccountInformation() {
	w.setQuadVector(quadAI, []int64{w.WallClock.NowMicros(), 0, 0, 0})
}
