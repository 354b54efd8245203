package workspace

import (
	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/shape"
	"github.com/cwbudde/goapl/internal/value"
)

// MonadicFn is a primitive's monadic form: B (and an optional bracket
// axis) in, a result Value out (§4.1/§4.2).
type MonadicFn func(ws *Workspace, axis *value.Value, b *value.Value) (*value.Value, error)

// DyadicFn is a primitive's dyadic form: A, B (and an optional
// bracket axis) in, a result Value out.
type DyadicFn func(ws *Workspace, axis *value.Value, a, b *value.Value) (*value.Value, error)

// Builtin is a primitive function, intrinsic rather than a Symbol
// binding: glyphs like `+` or `⍴` can never be shadowed by assignment,
// so they are looked up by spelling via LookupBuiltin rather than
// through the symbol table (§4.1, §4.2). It satisfies symtab.Callable
// so it can sit in a Token's Payload.Fn the same way a user function
// can.
type Builtin struct {
	GlyphName string
	Monadic   MonadicFn
	Dyadic    DyadicFn
}

func (b *Builtin) Name() string { return b.GlyphName }

// ApplyMonadic and ApplyDyadic are the uniform call surface the
// reducer uses (§4.6 actions "F V" / "V F V"); both raise VALENCE when
// the requested form is undefined for this primitive.
func (b *Builtin) ApplyMonadic(ws *Workspace, axis, arg *value.Value) (*value.Value, error) {
	if b.Monadic == nil {
		return nil, valenceError(b.GlyphName, true)
	}
	return b.Monadic(ws, axis, arg)
}

func (b *Builtin) ApplyDyadic(ws *Workspace, axis, a, bArg *value.Value) (*value.Value, error) {
	if b.Dyadic == nil {
		return nil, valenceError(b.GlyphName, false)
	}
	return b.Dyadic(ws, axis, a, bArg)
}

func valenceError(glyph string, wantedMonadic bool) error {
	form := "dyadic"
	if wantedMonadic {
		form = "monadic"
	}
	return errors.New(errors.VALENCE, glyph+" has no "+form+" form in this core")
}

func wrapDyadicCell(glyph string, f cell.DyadicBif) DyadicFn {
	return func(ws *Workspace, axis, a, b *value.Value) (*value.Value, error) {
		return value.ElementwiseDyadic(f, a, b, ws.ComparisonTolerance())
	}
}

func wrapMonadicCell(glyph string, f cell.MonadicBif) MonadicFn {
	return func(ws *Workspace, axis, b *value.Value) (*value.Value, error) {
		return value.ElementwiseMonadic(f, b, ws.ComparisonTolerance())
	}
}

var builtinTable map[string]*Builtin

func init() {
	builtinTable = map[string]*Builtin{
		"+": {GlyphName: "+", Monadic: wrapMonadicCell("+", identityMonadic), Dyadic: wrapDyadicCell("+", cell.BifAdd)},
		"-": {GlyphName: "-", Monadic: wrapMonadicCell("-", cell.BifNegate), Dyadic: wrapDyadicCell("-", cell.BifSubtract)},
		"×": {GlyphName: "×", Monadic: wrapMonadicCell("×", cell.BifSign), Dyadic: wrapDyadicCell("×", cell.BifMultiply)},
		"÷": {GlyphName: "÷", Monadic: wrapMonadicCell("÷", cell.BifReciprocal), Dyadic: wrapDyadicCell("÷", cell.BifDivide)},
		"⌈": {GlyphName: "⌈", Dyadic: wrapDyadicCell("⌈", cell.BifMax)},
		"⌊": {GlyphName: "⌊", Dyadic: wrapDyadicCell("⌊", cell.BifMin)},
		"*": {GlyphName: "*", Dyadic: wrapDyadicCell("*", cell.BifPower)},
		"=": {GlyphName: "=", Dyadic: wrapDyadicCell("=", cell.BifEqual)},
		"≠": {GlyphName: "≠", Dyadic: wrapDyadicCell("≠", cell.BifNotEqual)},
		"<": {GlyphName: "<", Dyadic: wrapDyadicCell("<", cell.BifLess)},
		"≤": {GlyphName: "≤", Dyadic: wrapDyadicCell("≤", cell.BifLessEqual)},
		">": {GlyphName: ">", Dyadic: wrapDyadicCell(">", cell.BifGreater)},
		"≥": {GlyphName: "≥", Dyadic: wrapDyadicCell("≥", cell.BifGreaterEqual)},

		"⍳": {GlyphName: "⍳", Monadic: func(ws *Workspace, axis, b *value.Value) (*value.Value, error) {
			return value.Iota(b, ws.IndexOrigin())
		}},
		"⍴": {GlyphName: "⍴", Monadic: func(ws *Workspace, axis, b *value.Value) (*value.Value, error) {
			return value.ShapeOf(b), nil
		}, Dyadic: func(ws *Workspace, axis, a, b *value.Value) (*value.Value, error) {
			shp, err := shapeFromValue(a)
			if err != nil {
				return nil, err
			}
			return value.Reshape(shp, b)
		}},
		",": {GlyphName: ",", Dyadic: func(ws *Workspace, axis, a, b *value.Value) (*value.Value, error) {
			return value.Catenate(a, b)
		}},
	}
}

// LookupBuiltin resolves a primitive glyph spelling to its Builtin, if
// any is defined in this core.
func LookupBuiltin(glyph string) (*Builtin, bool) {
	b, ok := builtinTable[glyph]
	return b, ok
}

func identityMonadic(dst *cell.Cell, b cell.Cell, ct float64) error {
	return cell.Init(dst, b)
}

func shapeFromValue(v *value.Value) (shape.Shape, error) {
	ravel := v.Ravel()
	dims := make(shape.Shape, len(ravel))
	for i, c := range ravel {
		if !c.IsNumeric() {
			return nil, errors.New(errors.DOMAIN, "⍴ left argument must be numeric")
		}
		if c.Kind() == cell.Float && !cell.NearInteger(c.FloatValue(), 1e-9) {
			return nil, errors.New(errors.DOMAIN, "⍴ left argument must be near-integer")
		}
		dims[i] = int(c.IntValue())
	}
	return dims, nil
}
