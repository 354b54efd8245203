package parser

import (
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/lexer"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/workspace"
)

// CompileFunction is the compileBody callback workspace.Fix expects
// (§4.9 step 2): it lexes and parses a function's body lines (the
// header already stripped by Fix), records a plain name followed by
// ":" at the start of a line as a label (§4.9 "LABEL:" syntax) bound to
// that line's 1-based number rather than code, and appends the
// signature's return sentinel once at the end.
//
// LineStarts[0] is left for the return sentinel (per
// workspace.Executable's doc comment); LineStarts[i] for i>=1 is the
// body index where source line i's code begins.
func CompileFunction(lines []string, sig workspace.Signature) ([]token.Token, []int, map[string]int, error) {
	lineStarts := make([]int, len(lines)+1)
	labels := map[string]int{}
	var body []token.Token

	for i, line := range lines {
		lineStarts[i+1] = len(body)

		toks, lexErrs := lexer.New(line).Tokenize()
		if len(lexErrs) > 0 {
			return nil, nil, nil, errors.New(errors.SYNTAX, lexErrs[0].Message)
		}

		if len(toks) >= 2 && toks[0].Class == token.Symbol && toks[1].Class == token.Colon {
			label := toks[0].Payload.Str
			if _, dup := labels[label]; dup {
				return nil, nil, nil, errors.New(errors.DEFN, "duplicate label: "+label)
			}
			labels[label] = i + 1
			toks = toks[2:]
		}
		if len(toks) == 0 {
			continue
		}

		frag, _, err := Parse(toks)
		if err != nil {
			return nil, nil, nil, err
		}
		body = append(body, frag...)
		body = append(body, token.Token{Class: token.EndStmt, Text: "⋄"})
	}

	lineStarts[0] = len(body)
	body = append(body, returnSentinel(sig))
	return body, lineStarts, labels, nil
}

// returnSentinel builds the TOK_RETURN_SYMBOL / TOK_RETURN_VOID token
// (§4.9 step 3) a fixed function's body falls through to.
func returnSentinel(sig workspace.Signature) token.Token {
	if sig.HasZ {
		return token.Token{Class: token.Return, Tag: token.TagReturnValue, Text: sig.ZName, Payload: token.Payload{Str: sig.ZName}}
	}
	return token.Token{Class: token.Return, Tag: token.TagReturnVoid, Text: sig.Name}
}
