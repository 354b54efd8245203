// Package workspace implements §2.11/§3.6/§3.7/§4.7/§4.8/§4.9 of the
// core spec: the compiled-unit, symbol-table, system-variable, and
// call-stack state a running interpreter owns, plus the host
// collaborator interfaces of §6.
//
// Grounded on the teacher's cmd/dwscript "workspace" role split across
// its root command and interpreter plumbing: one long-lived object
// threaded through lex → parse → eval, holding the symbol table and
// the options (--type-check, --trace) that correspond here to the
// quad-system variables.
package workspace

import "github.com/cwbudde/goapl/internal/token"

// ParseMode is §3.6's parse_mode: how a body's statements are meant to
// be driven.
type ParseMode int

const (
	ExecuteExpression ParseMode = iota
	StatementList
	UserFunctionBody
)

// Executable is §3.6: a compiled unit owning its display text and its
// reversed-per-statement token body.
type Executable struct {
	// Text holds the source lines exactly as entered, for §4.10's
	// failing-statement image reconstruction and for )SI-style display.
	Text []string

	// Body is the token buffer in the layout §4.4 produces: each
	// statement reversed right-to-left, statements separated by
	// token.EndStmt, the whole body terminated by a single
	// token.EndLine (or a Return token for a user function, per §3.6
	// "line_starts[0] is the program-counter of the function's return
	// sentinel").
	Body []token.Token

	// LineStarts maps source line number (1-based) to the index of
	// that line's first body token. For a user function, LineStarts[0]
	// is the PC of the return sentinel (§4.9 step 3).
	LineStarts []int

	ParseMode ParseMode
}

// LineOf returns the 1-based source line whose LineStarts entry is the
// greatest one not exceeding pc, used to render diagnostics and ⎕LC.
func (e *Executable) LineOf(pc int) int {
	line := 0
	for i, start := range e.LineStarts {
		if start <= pc {
			line = i
		}
	}
	return line
}
