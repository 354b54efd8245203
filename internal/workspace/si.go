package workspace

import "github.com/cwbudde/goapl/internal/errors"

// DefaultSIDepthLimit is the configurable SI-depth bound of §3.7
// ("default 64 for tests").
const DefaultSIDepthLimit = 64

// StateIndicator is one SI frame (§3.7): the Executable being reduced,
// the reducer's program counter over that body, an error slot for a
// paused frame, the safe_execution flag, and a parent link. SI frames
// form a non-cyclic stack.
//
// The Prefix reducer state (stack of (token, pc) pairs) itself lives
// in internal/prefix, which holds a *StateIndicator rather than the
// reverse, so this package never imports it.
type StateIndicator struct {
	Executable     *Executable
	PC             int
	Error          *errors.Diagnostic
	SafeExecution  bool
	Parent         *StateIndicator
	FunctionName   string // empty for immediate-execution/statement-list frames
	PushedSymbols  []pushedSymbol
}

type pushedSymbol struct {
	name string
	quad bool
}

// CurrentLine returns the source line the frame's PC currently sits
// on, for ⎕LC.
func (si *StateIndicator) CurrentLine() int {
	if si.Executable == nil {
		return 0
	}
	return si.Executable.LineOf(si.PC)
}

// Paused reports whether this frame is sitting on an un-cleared error,
// i.e. awaiting )SI, →line, → or →⍬ from the user (§4.10, §7).
func (si *StateIndicator) Paused() bool { return si.Error != nil }
