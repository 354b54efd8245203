package workspace

import (
	"strings"

	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/token"
)

// Signature is the §4.9 step-1 bitmask over {Z, A, LO, FUN, RO, X, B}.
// FUN is always set for a fixed function. The spec describes this as
// "a table of 22 recognized header signatures"; rather than enumerate
// all 22 literally, ParseHeader recognizes a smaller grammar keyed on
// the number of header words (listed on ParseHeader); not every
// combination of the flags below can be produced.
type Signature struct {
	HasZ   bool
	HasA   bool
	HasLO  bool
	HasRO  bool
	HasX   bool
	HasB   bool
	Name   string // FUN
	ZName  string
	AName  string
	LOName string
	RONAme string
	XName  string
	BName  string
}

// IsOperator reports whether this header declares FUN as a user-defined
// operator (LO set, optionally RO too).
func (s Signature) IsOperator() bool { return s.HasLO }

// UserFunction is §2.9/§4.9: a fixed, named (or anonymous, for
// lambdas) function: its header signature, compiled body, line starts,
// labels, and locally declared names.
type UserFunction struct {
	Sig        Signature
	Locals     []string // declared after ';' on the header line
	Labels     map[string]int
	Executable *Executable
	Anonymous  bool // true for a lambda produced by §4.5 extraction
}

func (f *UserFunction) Name() string { return f.Sig.Name }

// ParseHeader parses line 0 of a function's display text into a
// Signature plus declared locals, per §4.9 step 1.
//
// Recognized shapes (word-split on whitespace; "Z←" and "NAME[X]" are
// the only two forms where punctuation attaches to a word):
//
//	FUN                Z←FUN
//	FUN B              Z←FUN B
//	A FUN B            Z←A FUN B
//	A LO FUN B         Z←A LO FUN B           (monadic operator)
//	A LO FUN RO B      Z←A LO FUN RO B        (dyadic operator)
//
// FUN may be written FUN[X] to declare an axis name. Operator headers
// without a left argument are not recognized: three words are always
// read as A FUN B and four as A LO FUN B.
//
// Any of these may end in ";local1;local2;…" declaring locals.
func ParseHeader(headerLine string) (Signature, []string, error) {
	var sig Signature

	body, localsPart, _ := strings.Cut(headerLine, ";")
	var locals []string
	if localsPart != "" {
		for _, n := range strings.Split(localsPart, ";") {
			n = strings.TrimSpace(n)
			if n != "" {
				locals = append(locals, n)
			}
		}
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return sig, nil, errors.New(errors.DEFN, "empty function header")
	}

	// Optional "Z←" result: either its own field "Z←" or fused to the
	// next field as "Z←FUN". Source text always has it as field[0]
	// ending in "←" after the tokenizer would split on the glyph, but
	// since this parses raw header text (pre-tokenization) we handle
	// both "Z ← FUN" and "Z←FUN" spellings.
	if idx := strings.Index(fields[0], "←"); idx >= 0 {
		sig.HasZ = true
		sig.ZName = fields[0][:idx]
		rest := fields[0][idx+len("←"):]
		fields = fields[1:]
		if rest != "" {
			fields = append([]string{rest}, fields...)
		}
	} else if len(fields) >= 2 && fields[1] == "←" {
		sig.HasZ = true
		sig.ZName = fields[0]
		fields = fields[2:]
	}

	if len(fields) == 0 {
		return sig, nil, errors.New(errors.DEFN, "function header names no function")
	}

	// Figure out which field is FUN by testing candidate positions
	// against the field count, per the grammar table in the doc
	// comment above.
	switch len(fields) {
	case 1:
		sig.Name, sig.XName, sig.HasX = splitAxis(fields[0])
	case 2:
		// "FUN B" or "A FUN"(invalid, A with no B isn't in the grammar) —
		// treat as monadic: FUN B.
		sig.Name, sig.XName, sig.HasX = splitAxis(fields[0])
		sig.HasB, sig.BName = true, fields[1]
	case 3:
		// "A FUN B"
		sig.AName = fields[0]
		sig.HasA = true
		sig.Name, sig.XName, sig.HasX = splitAxis(fields[1])
		sig.HasB, sig.BName = true, fields[2]
	case 4:
		// "A LO FUN B": LO is a monadic-operator operand name, FUN is
		// the operator itself.
		sig.AName = fields[0]
		sig.HasA = true
		sig.LOName = fields[1]
		sig.HasLO = true
		sig.Name, sig.XName, sig.HasX = splitAxis(fields[2])
		sig.HasB, sig.BName = true, fields[3]
	case 5:
		// "A LO FUN RO B": dyadic operator.
		sig.AName = fields[0]
		sig.HasA = true
		sig.LOName = fields[1]
		sig.HasLO = true
		sig.Name, sig.XName, sig.HasX = splitAxis(fields[2])
		sig.RONAme = fields[3]
		sig.HasRO = true
		sig.HasB, sig.BName = true, fields[4]
	default:
		return sig, nil, errors.New(errors.DEFN, "unrecognized function header shape")
	}

	if sig.Name == "" {
		return sig, nil, errors.New(errors.DEFN, "function header names no function")
	}
	return sig, locals, nil
}

func splitAxis(field string) (name, axisName string, hasAxis bool) {
	if i := strings.IndexByte(field, '['); i >= 0 && strings.HasSuffix(field, "]") {
		return field[:i], field[i+1 : len(field)-1], true
	}
	return field, "", false
}

// Fix implements §4.9 "Fix": compile displayText (line 0 the header,
// subsequent lines the body) into a UserFunction, registering labels
// and rejecting duplicate formals/locals/labels with DEFN.
//
// compileBody is supplied by the caller (internal/parser) to avoid an
// import cycle: workspace has no dependency on the tokenizer/parser,
// only on the token vocabulary they produce.
func Fix(displayText []string, compileBody func(lines []string, sig Signature) ([]token.Token, []int, map[string]int, error)) (*UserFunction, error) {
	if len(displayText) == 0 {
		return nil, errors.New(errors.DEFN, "empty function definition")
	}
	sig, locals, err := ParseHeader(displayText[0])
	if err != nil {
		return nil, err
	}

	formals := map[string]bool{}
	addFormal := func(n string) error {
		if n == "" {
			return nil
		}
		if formals[n] {
			return errors.New(errors.DEFN, "duplicate name in header: "+n)
		}
		formals[n] = true
		return nil
	}
	for _, n := range []string{sig.ZName, sig.AName, sig.LOName, sig.RONAme, sig.XName, sig.BName} {
		if err := addFormal(n); err != nil {
			return nil, err
		}
	}
	for _, n := range locals {
		if err := addFormal(n); err != nil {
			return nil, err
		}
	}

	body, lineStarts, labels, err := compileBody(displayText[1:], sig)
	if err != nil {
		return nil, err
	}
	for label := range labels {
		if formals[label] {
			return nil, errors.New(errors.DEFN, "label collides with a formal or local: "+label)
		}
	}

	exe := &Executable{
		Text:       displayText,
		Body:       body,
		LineStarts: lineStarts,
		ParseMode:  UserFunctionBody,
	}
	return &UserFunction{Sig: sig, Locals: locals, Labels: labels, Executable: exe}, nil
}
