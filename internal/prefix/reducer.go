// Package prefix implements §4.6's shift-reduce reducer: the loop that
// drives a compiled Executable's reversed token body, shifting tokens
// onto a stack and reducing the phrases listed there (assignment,
// indexing, monadic/dyadic primitive or user-function application,
// reduce/scan) whenever one is complete.
//
// Grounded on the teacher's internal/interp evaluator loop shape (a
// single stack-driven pass over already-parsed tokens); unlike
// DWScript's precedence-climbing evaluator this one has no operator
// precedence at all — APL has none — so "complete phrase on top of
// stack" is the only reduction trigger, tried greedily before every
// shift (§4.6 "reduce takes priority over shift").
package prefix

import (
	"strings"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/symtab"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/value"
	"github.com/cwbudde/goapl/internal/workspace"
)

// Reducer drives one StateIndicator frame's Executable body to
// completion (or to a branch escape).
type Reducer struct {
	ws    *workspace.Workspace
	si    *workspace.StateIndicator
	body  []token.Token
	pc    int
	stack []token.Token
}

// New creates a Reducer positioned at si's current program counter.
func New(ws *workspace.Workspace, si *workspace.StateIndicator) *Reducer {
	return &Reducer{ws: ws, si: si, body: si.Executable.Body, pc: si.PC}
}

// Outcome is what a frame produced when its body ran out (EndLine), hit
// its return sentinel, or escaped via a bare →.
type Outcome struct {
	Value   *value.Value
	Void    bool
	Escaped bool
}

// Run drives the shift-reduce loop to completion, persisting pc back to
// si as it advances so a paused (errored) frame can be resumed or
// retried in place (§4.10, §7).
func (r *Reducer) Run() (Outcome, error) {
	for {
		reduced, err := r.tryReduce()
		if err != nil {
			r.si.PC = r.pc
			return Outcome{}, r.annotate(err)
		}
		if reduced {
			continue
		}

		if r.pc >= len(r.body) {
			return Outcome{Void: true}, nil
		}
		tok := r.body[r.pc]
		r.pc++

		switch tok.Class {
		case token.EndStmt:
			r.finishStatement()
		case token.EndLine:
			return r.finishStatement(), nil
		case token.Return:
			r.si.PC = r.pc
			return r.finishReturn(tok), nil
		case token.Branch:
			escaped, err := r.doBranch()
			if err != nil {
				r.si.PC = r.pc
				return Outcome{}, r.annotate(err)
			}
			if escaped {
				return Outcome{Escaped: true}, nil
			}
		case token.Symbol:
			resolved, err := r.resolveSymbol(tok)
			if err != nil {
				r.si.PC = r.pc
				return Outcome{}, r.annotate(err)
			}
			r.push(resolved)
		default:
			r.push(tok)
		}
	}
}

// at returns the stack token fromTop entries below the top (0 = top).
func (r *Reducer) at(fromTop int) (token.Token, bool) {
	idx := len(r.stack) - 1 - fromTop
	if idx < 0 {
		return token.Token{}, false
	}
	return r.stack[idx], true
}

func (r *Reducer) popN(n int) { r.stack = r.stack[:len(r.stack)-n] }
func (r *Reducer) push(t token.Token) { r.stack = append(r.stack, t) }

func valueToken(v *value.Value, committed bool) token.Token {
	return token.Token{Class: token.Value, Committed: committed, Payload: token.Payload{Val: v}}
}

// tryReduce attempts the one applicable phrase reduction at the top of
// the stack, in priority order (§4.6's action table); returns
// reduced=false when nothing matches and a shift is needed instead.
func (r *Reducer) tryReduce() (bool, error) {
	t1, ok1 := r.at(0)
	if !ok1 {
		return false, nil
	}

	// "( V )" -> V : a parenthesized sub-expression collapses to its
	// value once fully reduced (§4.4 pass 2 already removed singleton
	// and redundant-nested parens at parse time; this handles the
	// general multi-token case at reduce time).
	if t1.Class == token.LParen {
		if t2, ok := r.at(1); ok && t2.Class == token.Value {
			if t3, ok := r.at(2); ok && t3.Class == token.RParen {
				r.popN(3)
				r.push(t2)
				return true, nil
			}
		}
	}

	// "V [ I ]" and the narrower "V [ I ] ← RHS" indexed-assignment form
	// (§4.2 index_vector / §4.11 IndexExpr; selective assignment through
	// an arbitrary parenthesized expression is out of scope, see
	// DESIGN.md — only a bare symbol base qualifies as an assignment
	// target here, signaled by Payload.Sym being populated).
	if t1.Class == token.Value {
		if t2, ok := r.at(1); ok && t2.Class == token.LBracket {
			if t3, ok := r.at(2); ok && t3.Class == token.Value {
				if t4, ok := r.at(3); ok && t4.Class == token.RBracket {
					if t5, ok := r.at(4); ok && t5.Class == token.Assign && t1.Payload.Sym != nil {
						if t6, ok := r.at(5); ok && t6.Class == token.Value {
							return true, r.reduceIndexedAssign(t1, t3, t6)
						}
					}
					return true, r.reduceIndexRead(t1, t3)
				}
			}
		}
	}

	// "SYM ← V" : plain assignment (§4.4 pass 4 / §4.6).
	if t1.Class == token.Symbol && t1.Tag == token.TagLSymb {
		if t2, ok := r.at(1); ok && t2.Class == token.Assign {
			if t3, ok := r.at(2); ok && t3.Class == token.Value {
				return true, r.reducePlainAssign(t1, t3)
			}
		}
	}

	// "(A B …) ← V" : vector assignment (§4.4 pass 4).
	if t1.Class == token.Symbol && t1.Tag == token.TagLSymb2 {
		if t2, ok := r.at(1); ok && t2.Class == token.Assign {
			if t3, ok := r.at(2); ok && t3.Class == token.Value {
				return true, r.reduceVectorAssign(t1, t3)
			}
		}
	}

	// "F / V" and "F \ V" : reduce/scan over a derived function
	// (§4.4 pass 5 classified the glyph MonadicOp already).
	if t1.Class == token.Function {
		if t2, ok := r.at(1); ok && t2.Class == token.MonadicOp {
			if t3, ok := r.at(2); ok && t3.Class == token.Value {
				return true, r.reduceScanOp(t1, t2, t3)
			}
		}
	}

	// "V F V" : dyadic primitive or user-function call.
	if t1.Class == token.Value {
		if t2, ok := r.at(1); ok && t2.Class == token.Function {
			if t3, ok := r.at(2); ok && t3.Class == token.Value {
				return true, r.reduceDyadicCall(t1, t2, t3)
			}
		}
	}

	// "F V" : monadic call, deferred if the lookahead could still
	// supply a left argument and turn this into "V F V" instead
	// (§4.6's shift-over-reduce tie-break for function application).
	if t1.Class == token.Function {
		if t2, ok := r.at(1); ok && t2.Class == token.Value {
			if !r.lookaheadEndsValue() {
				return true, r.reduceMonadicCall(t1, t2)
			}
		}
	}

	// "V V" : strand catenation of two already-reduced values.
	if t1.Class == token.Value {
		if t2, ok := r.at(1); ok && t2.Class == token.Value {
			return true, r.reduceCatenate(t1, t2)
		}
	}

	return false, nil
}

// lookaheadEndsValue peeks (without shifting) whether the next body
// token would extend the current top-of-stack Function into a dyadic
// call rather than resolving it monadically now.
func (r *Reducer) lookaheadEndsValue() bool {
	if r.pc >= len(r.body) {
		return false
	}
	t := r.body[r.pc]
	switch t.Class {
	case token.Value, token.RParen, token.RBracket:
		return true
	case token.Symbol:
		quad := strings.HasPrefix(t.Text, "⎕")
		sym := r.ws.SymTab.LookupExisting(t.Payload.Str, quad)
		return sym != nil && sym.Top().Class == symtab.Variable
	default:
		return false
	}
}

// resolveSymbol eagerly resolves a right-hand-side symbol reference to
// its current binding (§4.6 "symbols are resolved at shift time");
// assignment-target tags are left untouched for the assignment
// reductions to consume.
func (r *Reducer) resolveSymbol(tok token.Token) (token.Token, error) {
	if tok.Tag == token.TagLSymb || tok.Tag == token.TagLSymb2 {
		return tok, nil
	}
	name := tok.Payload.Str
	quad := strings.HasPrefix(tok.Text, "⎕")
	sym, err := r.ws.SymTab.Lookup(name, quad)
	if err != nil {
		return token.Token{}, err
	}
	top := sym.Top()
	switch top.Class {
	case symtab.Variable:
		return token.Token{Class: token.Value, Text: tok.Text, Pos: tok.Pos, Payload: token.Payload{Val: top.Value, Sym: sym}}, nil
	case symtab.Function, symtab.Operator:
		return token.Token{Class: token.Function, Tag: token.TagAmbivalent, Text: tok.Text, Pos: tok.Pos, Payload: token.Payload{Fn: top.Callable, Str: tok.Text}}, nil
	case symtab.Label:
		return token.Token{}, errors.New(errors.VALUE, "cannot use label "+name+" as a value")
	default:
		return token.Token{}, errors.New(errors.VALUE, "undefined name: "+name)
	}
}

func (r *Reducer) doBranch() (escaped bool, err error) {
	top, ok := r.at(0)
	if !ok || top.Class != token.Value {
		return true, nil
	}
	r.popN(1)
	v := top.Payload.Val
	if len(v.Ravel()) == 0 {
		return false, nil // →⍬ : stay
	}
	n := int(v.Ravel()[0].IntValue())
	starts := r.si.Executable.LineStarts
	if len(starts) <= 1 {
		return true, nil // immediate execution: no line table to jump within
	}
	target := starts[0]
	if n >= 1 && n < len(starts) {
		target = starts[n]
	}
	r.pc = target
	r.stack = nil
	return false, nil
}

func (r *Reducer) finishStatement() Outcome {
	var out Outcome
	if len(r.stack) == 1 && r.stack[0].Class == token.Value {
		v := r.stack[0].Payload.Val
		out.Value = v
		if !r.stack[0].Committed {
			r.ws.PrintResult(v)
		}
	} else {
		out.Void = true
	}
	r.stack = nil
	return out
}

func (r *Reducer) finishReturn(tok token.Token) Outcome {
	if tok.Tag == token.TagReturnVoid {
		return Outcome{Void: true}
	}
	sym := r.ws.SymTab.LookupExisting(tok.Payload.Str, false)
	if sym == nil {
		return Outcome{Void: true}
	}
	v, err := sym.RequireVariable()
	if err != nil {
		return Outcome{Void: true}
	}
	return Outcome{Value: v}
}

func (r *Reducer) annotate(err error) *errors.Diagnostic {
	line := 0
	if r.si != nil && r.si.Executable != nil {
		line = r.si.Executable.LineOf(r.pc)
	}
	image := ""
	if r.si != nil && r.si.Executable != nil && line >= 0 && line < len(r.si.Executable.Text) {
		image = r.si.Executable.Text[line]
	}
	if ae, ok := err.(*errors.AplError); ok {
		d := &errors.Diagnostic{Kind: ae.Kind, Image: image, Line: line}
		if ae.Length > 0 {
			d.Carets = errors.CaretsFor(len([]rune(image)), ae.Column, ae.Column+ae.Length-1)
		}
		return d
	}
	if d, ok := err.(*errors.Diagnostic); ok {
		return d
	}
	return &errors.Diagnostic{Kind: errors.THIS_IS_A_BUG, Image: image, Line: line}
}

// --- reduction actions -----------------------------------------------

func (r *Reducer) reduceIndexRead(base, idx token.Token) error {
	v, err := value.IndexVector(base.Payload.Val, idx.Payload.Val, r.ws.IndexOrigin())
	if err != nil {
		return err
	}
	r.popN(4)
	r.push(valueToken(v, false))
	return nil
}

func (r *Reducer) reduceIndexedAssign(base, idx, rhs token.Token) error {
	cloned := base.Payload.Val.CloneIfShared()
	if err := value.IndexedAssignVector(cloned, idx.Payload.Val, rhs.Payload.Val, r.ws.IndexOrigin()); err != nil {
		return err
	}
	if cloned != base.Payload.Val {
		base.Payload.Sym.SetVariable(cloned)
	}
	r.popN(6)
	r.push(valueToken(rhs.Payload.Val, true))
	return nil
}

func (r *Reducer) reducePlainAssign(symTok, valTok token.Token) error {
	v := valTok.Payload.Val
	if strings.HasPrefix(symTok.Text, "⎕") {
		if err := r.setQuadByName(symTok.Payload.Str, v); err != nil {
			return err
		}
	} else {
		sym, err := r.ws.SymTab.Lookup(symTok.Payload.Str, false)
		if err != nil {
			return err
		}
		sym.SetVariable(v)
	}
	r.popN(3)
	r.push(valueToken(v, true))
	return nil
}

func (r *Reducer) reduceVectorAssign(symTok, valTok token.Token) error {
	names := symTok.Payload.Names
	v := valTok.Payload.Val
	ravel := v.Ravel()
	scalarExtend := len(ravel) == 1 && len(names) != 1
	if !scalarExtend && len(ravel) != len(names) {
		return errors.New(errors.LENGTH, "vector assignment target count does not match value length")
	}
	for i, raw := range names {
		var c cell.Cell
		if scalarExtend {
			c = ravel[0]
		} else {
			c = ravel[i]
		}
		scalarVal := value.ScalarOf(c)
		if strings.HasPrefix(raw, "⎕") {
			if err := r.setQuadByName(strings.ToUpper(strings.TrimPrefix(raw, "⎕")), scalarVal); err != nil {
				return err
			}
			continue
		}
		sym, err := r.ws.SymTab.Lookup(raw, false)
		if err != nil {
			return err
		}
		sym.SetVariable(scalarVal)
	}
	r.popN(3)
	r.push(valueToken(v, true))
	return nil
}

// reduceCatenate implements strand notation (§4.4, §8 E3): two values
// juxtaposed with no function between them form a vector. A scalar
// operand contributes its own cell directly; a non-scalar operand is
// enclosed as a single nested (pointer) element, exactly like APL's
// ordinary strand rule — this is not the flat catenation `,` performs.
func (r *Reducer) reduceCatenate(aTok, bTok token.Token) error {
	cells := append(strandCells(aTok.Payload.Val), strandCells(bTok.Payload.Val)...)
	v := value.VectorOf(cells)
	r.popN(2)
	r.push(valueToken(v, false))
	return nil
}

func strandCells(v *value.Value) []cell.Cell {
	if v.Rank() == 0 {
		return []cell.Cell{v.Ravel()[0]}
	}
	return []cell.Cell{cell.MakePointer(v.Retain())}
}

func (r *Reducer) reduceMonadicCall(fnTok, bTok token.Token) error {
	res, err := r.invoke(fnTok, nil, nil, bTok.Payload.Val, false)
	if err != nil {
		return blameToken(err, fnTok)
	}
	r.popN(2)
	r.push(valueToken(res, false))
	return nil
}

func (r *Reducer) reduceDyadicCall(aTok, fnTok, bTok token.Token) error {
	res, err := r.invoke(fnTok, nil, aTok.Payload.Val, bTok.Payload.Val, true)
	if err != nil {
		return blameToken(err, fnTok)
	}
	r.popN(3)
	r.push(valueToken(res, false))
	return nil
}

// blameToken stamps err's caret span from fnTok's source position, if
// err is an *errors.AplError with no caret of its own yet (§4.10: the
// primitive that actually raised the error gets the caret).
func blameToken(err error, fnTok token.Token) error {
	if ae, ok := err.(*errors.AplError); ok {
		runeLen := len([]rune(fnTok.Text))
		ae.WithCaret(fnTok.Pos.Line, fnTok.Pos.Column-1, runeLen)
	}
	return err
}

// reduceScanOp implements derived "F/" and "F\" application (§4.4's
// TagReduce/TagScan glyphs). First-axis forms (⌿, ⍀) are parsed
// structurally but not invoked in this core (see DESIGN.md).
func (r *Reducer) reduceScanOp(fnTok, opTok, bTok token.Token) error {
	apply := func(a, b *value.Value) (*value.Value, error) {
		return r.invoke(fnTok, nil, a, b, true)
	}
	var res *value.Value
	var err error
	switch opTok.Tag {
	case token.TagReduce:
		res, err = reduceValue(apply, bTok.Payload.Val)
	case token.TagScan:
		res, err = scanValue(apply, bTok.Payload.Val)
	default:
		err = errors.New(errors.NOT_YET_IMPLEMENTED, "first-axis reduce/scan (⌿, ⍀) is not implemented in this core")
	}
	if err != nil {
		return err
	}
	r.popN(3)
	r.push(valueToken(res, false))
	return nil
}

// reduceValue/scanValue implement `f/` and `f\` at the Value level
// (rather than value.Reduce/Scan's cell.DyadicBif level) so the
// derived function can be a user-defined function or lambda, not just
// a primitive — invoking one requires the full call machinery below,
// which only this package has access to.
func reduceValue(f func(a, b *value.Value) (*value.Value, error), b *value.Value) (*value.Value, error) {
	n := len(b.Ravel())
	if n == 0 {
		return nil, errors.New(errors.DOMAIN, "reduction over an empty axis has no identity element in this core")
	}
	acc := value.ScalarOf(b.Ravel()[n-1])
	for i := n - 2; i >= 0; i-- {
		next, err := f(value.ScalarOf(b.Ravel()[i]), acc)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func scanValue(f func(a, b *value.Value) (*value.Value, error), b *value.Value) (*value.Value, error) {
	n := len(b.Ravel())
	if n == 0 {
		return value.VectorOf(nil), nil
	}
	cells := make([]cell.Cell, n)
	acc := value.ScalarOf(b.Ravel()[0])
	cells[0] = acc.Ravel()[0]
	for i := 1; i < n; i++ {
		next, err := f(acc, value.ScalarOf(b.Ravel()[i]))
		if err != nil {
			return nil, err
		}
		acc = next
		cells[i] = acc.Ravel()[0]
	}
	return value.VectorOf(cells), nil
}

// setQuadByName routes an assignment to a bare (no "⎕") uppercased
// quad name through the workspace's validated setters for the fixed
// system variables (§4.8), falling back to a raw variable binding for
// any other ⎕-name.
func (r *Reducer) setQuadByName(name string, v *value.Value) error {
	ravel := v.Ravel()
	switch name {
	case "IO":
		if len(ravel) == 0 || !ravel[0].IsNumeric() {
			return errors.New(errors.DOMAIN, "⎕IO must be numeric")
		}
		return r.ws.SetIndexOrigin(ravel[0].IntValue())
	case "CT":
		if len(ravel) == 0 || !ravel[0].IsNumeric() {
			return errors.New(errors.DOMAIN, "⎕CT must be numeric")
		}
		return r.ws.SetComparisonTolerance(numericFloat(ravel[0]))
	case "PP":
		if len(ravel) == 0 || !ravel[0].IsNumeric() {
			return errors.New(errors.DOMAIN, "⎕PP must be numeric")
		}
		return r.ws.SetPrintPrecision(ravel[0].IntValue())
	case "PW":
		if len(ravel) == 0 || !ravel[0].IsNumeric() {
			return errors.New(errors.DOMAIN, "⎕PW must be numeric")
		}
		return r.ws.SetPrintWidth(ravel[0].IntValue())
	case "EM", "ET", "LC", "AI":
		return errors.New(errors.VALUE, "⎕"+name+" is read-only in this core")
	default:
		sym, err := r.ws.SymTab.Lookup(name, true)
		if err != nil {
			return err
		}
		sym.SetVariable(v)
		return nil
	}
}

func numericFloat(c cell.Cell) float64 {
	if c.Kind() == cell.Float {
		return c.FloatValue()
	}
	return float64(c.IntValue())
}
