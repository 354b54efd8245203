package prefix

import (
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/value"
	"github.com/cwbudde/goapl/internal/workspace"
)

// invoke is the reducer's uniform call surface for "F V" / "A F V"
// (§4.6): fnTok.Payload.Fn already names the callable when it came
// from a resolved Symbol or a lambda-extraction reference; a bare
// primitive glyph straight from the lexer (Payload.Fn == nil) is
// looked up by spelling instead, since glyphs are never shadowable
// Symbol bindings (§4.1/§4.2).
func (r *Reducer) invoke(fnTok token.Token, axis, a, b *value.Value, dyadic bool) (*value.Value, error) {
	fn := fnTok.Payload.Fn
	if fn == nil {
		builtin, ok := workspace.LookupBuiltin(fnTok.Text)
		if !ok {
			return nil, errors.New(errors.NOT_YET_IMPLEMENTED, fnTok.Text+" is not implemented in this core")
		}
		fn = builtin
	}
	switch c := fn.(type) {
	case *workspace.Builtin:
		if dyadic {
			return c.ApplyDyadic(r.ws, axis, a, b)
		}
		return c.ApplyMonadic(r.ws, axis, b)
	case *workspace.UserFunction:
		return r.callUserFunction(c, axis, a, b, dyadic)
	default:
		return nil, errors.New(errors.THIS_IS_A_BUG, "unresolved callable type")
	}
}

// callUserFunction implements §4.9 step 3's "Invoke": push a fresh
// scope for the formals/locals/labels (shadowing any outer bindings of
// the same names), bind the arguments, push an SI frame, and run a
// nested Reducer over the function's own compiled body. User-defined
// operators (LO/RO present in the signature) are parsed structurally
// but not invoked — see DESIGN.md.
func (r *Reducer) callUserFunction(fn *workspace.UserFunction, axis, a, b *value.Value, dyadic bool) (*value.Value, error) {
	sig := fn.Sig
	if sig.IsOperator() {
		return nil, errors.New(errors.NOT_YET_IMPLEMENTED, "user-defined operators are not invoked in this core")
	}
	if sig.HasX && fn.Anonymous {
		return nil, errors.New(errors.NOT_YET_IMPLEMENTED, "axis-taking lambdas are not invoked in this core")
	}
	if dyadic && !sig.HasA {
		return nil, errors.New(errors.VALENCE, fn.Name()+" has no dyadic form")
	}
	if !dyadic && sig.HasA {
		return nil, errors.New(errors.VALENCE, fn.Name()+" requires a left argument")
	}

	names := make([]string, 0, 4+len(fn.Locals)+len(fn.Labels))
	for _, n := range []string{sig.ZName, sig.AName, sig.BName, sig.XName} {
		if n != "" {
			names = append(names, n)
		}
	}
	names = append(names, fn.Locals...)
	for label := range fn.Labels {
		names = append(names, label)
	}

	syms := r.ws.SymTab.PushAll(names, false)
	defer r.ws.SymTab.PopAll(syms)

	bind := func(name string, v *value.Value) {
		if name == "" || v == nil {
			return
		}
		sym, _ := r.ws.SymTab.Lookup(name, false)
		sym.SetVariable(v)
	}
	bind(sig.AName, a)
	bind(sig.BName, b)
	bind(sig.XName, axis)
	for label, line := range fn.Labels {
		sym, _ := r.ws.SymTab.Lookup(label, false)
		sym.SetLabel(line)
	}

	si, err := r.ws.PushSI(fn.Executable, fn.Name(), r.si.SafeExecution)
	if err != nil {
		return nil, err
	}
	defer r.ws.PopSI()

	sub := New(r.ws, si)
	out, err := sub.Run()
	if err != nil {
		return nil, err
	}
	if !sig.HasZ {
		return value.VectorOf(nil), nil
	}
	if out.Void || out.Escaped {
		return nil, errors.New(errors.VALUE, fn.Name()+" returned without setting "+sig.ZName)
	}
	out.Value.Retain() // the deferred PopAll releases Z's binding
	return out.Value, nil
}
