package workspace

import (
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/format"
	"github.com/cwbudde/goapl/internal/symtab"
	"github.com/cwbudde/goapl/internal/value"
)

// Workspace is §9's "single owned context passed through the reducer,
// SI, and primitives": the symbol table, the ⎕-system variables (held
// as ordinary quad-namespace Symbol bindings, see quadvars.go), the SI
// stack, and the host collaborators of §6.
type Workspace struct {
	SymTab *symtab.Table

	siStack     []*StateIndicator
	siDepthLimit int

	LineInput  LineInput
	Out        CharOutput
	Attention  AttentionSource
	WallClock  Clock
}

// New creates a Workspace with every §4.8 system variable bound to its
// default and an empty SI stack.
func New() *Workspace {
	w := &Workspace{
		SymTab:       symtab.New(),
		siDepthLimit: DefaultSIDepthLimit,
		Attention:    noAttention{},
		WallClock:    noClock{},
	}
	w.installDefaults()
	return w
}

// SIDepth is §8 testable property 7's si_depth: 0 iff the reducer is
// idle.
func (w *Workspace) SIDepth() int { return len(w.siStack) }

// SetSIDepthLimit overrides DefaultSIDepthLimit, e.g. from a CLI flag.
func (w *Workspace) SetSIDepthLimit(n int) { w.siDepthLimit = n }

// PushSI pushes a new SI frame, enforcing the configured depth limit
// (§7 SYSTEM_LIMIT_SI_DEPTH).
func (w *Workspace) PushSI(exe *Executable, functionName string, safe bool) (*StateIndicator, error) {
	if len(w.siStack) >= w.siDepthLimit {
		return nil, errors.New(errors.SYSTEM_LIMIT_SI_DEPTH, "SI stack depth limit exceeded")
	}
	var parent *StateIndicator
	if len(w.siStack) > 0 {
		parent = w.siStack[len(w.siStack)-1]
	}
	si := &StateIndicator{Executable: exe, Parent: parent, FunctionName: functionName, SafeExecution: safe || (parent != nil && parent.SafeExecution)}
	w.siStack = append(w.siStack, si)
	return si, nil
}

// PopSI pops the top SI frame (§8 testable property 7: "its normal
// exit pops exactly one").
func (w *Workspace) PopSI() {
	if len(w.siStack) == 0 {
		return
	}
	w.siStack = w.siStack[:len(w.siStack)-1]
}

// CurrentSI returns the innermost live SI frame, or nil if idle.
func (w *Workspace) CurrentSI() *StateIndicator {
	if len(w.siStack) == 0 {
		return nil
	}
	return w.siStack[len(w.siStack)-1]
}

// StateIndicatorTrace renders a )SI-equivalent trace, most recent
// frame first, without implementing a )SI command parser itself (the
// host's command layer is out of scope, per §1/§6).
func (w *Workspace) StateIndicatorTrace() []string {
	out := make([]string, 0, len(w.siStack))
	for i := len(w.siStack) - 1; i >= 0; i-- {
		si := w.siStack[i]
		name := si.FunctionName
		if name == "" {
			name = "(immediate)"
		}
		out = append(out, name)
	}
	return out
}

func (w *Workspace) writeOut(line string) {
	if w.Out != nil {
		w.Out.WriteOut(line)
	}
}

func (w *Workspace) writeErr(line string) {
	if w.Out != nil {
		w.Out.WriteErr(line)
	}
}

// PrintResult writes an uncommitted statement's result the way a REPL
// echoes it (§4.6): formatted per the live ⎕PP.
func (w *Workspace) PrintResult(v *value.Value) {
	w.writeOut(format.Value(v, w.PrintPrecision()))
}

// PrintError writes a caught diagnostic's three display lines (§4.10).
func (w *Workspace) PrintError(d *errors.Diagnostic) {
	w.writeErr(d.Format())
}
