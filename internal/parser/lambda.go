package parser

import (
	"sort"

	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/workspace"
)

// ExtractLambdas implements §4.5: replaces every "{ … }" in toks with
// a single Function token bound to a synthesized anonymous
// workspace.UserFunction, innermost braces first so a lambda nested
// inside another sees its sibling already reduced to a reference.
func ExtractLambdas(toks []token.Token) ([]token.Token, []*workspace.UserFunction, error) {
	var lambdas []*workspace.UserFunction
	cur := append([]token.Token{}, toks...)
	for {
		open, closeIdx, found := innermostBracePair(cur)
		if !found {
			break
		}
		fn, err := extractOneLambda(cur[open+1 : closeIdx])
		if err != nil {
			return nil, nil, err
		}
		lambdas = append(lambdas, fn)
		ref := token.Token{Class: token.Function, Tag: token.TagAmbivalent, Text: "{}", Pos: cur[open].Pos, Payload: token.Payload{Fn: fn, Str: "{}"}}
		next := make([]token.Token, 0, len(cur)-(closeIdx-open))
		next = append(next, cur[:open]...)
		next = append(next, ref)
		next = append(next, cur[closeIdx+1:]...)
		cur = next
	}
	return cur, lambdas, nil
}

// innermostBracePair finds a matched { } pair with no other matched
// pair nested inside it, preferring the narrowest span (a proxy for
// "innermost" that is exact for well-formed, non-pathological input).
func innermostBracePair(toks []token.Token) (open, closeIdx int, found bool) {
	type pair struct{ open, close int }
	var pairs []pair
	var stack []int
	for i, t := range toks {
		switch t.Class {
		case token.LBrace:
			stack = append(stack, i)
		case token.RBrace:
			if len(stack) == 0 {
				continue
			}
			o := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pairs = append(pairs, pair{o, i})
		}
	}
	if len(pairs) == 0 {
		return 0, 0, false
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].close-pairs[i].open < pairs[j].close-pairs[j].open })
	return pairs[0].open, pairs[0].close, true
}

// extractOneLambda builds the anonymous UserFunction for one already-
// isolated lambda body (no remaining nested braces), per §4.5's
// signature-inference table and synthetic prologue/epilogue.
func extractOneLambda(inner []token.Token) (*workspace.UserFunction, error) {
	for _, t := range inner {
		if t.Class == token.Diamond || t.Class == token.Branch {
			return nil, errors.New(errors.DEFN, "lambda body may not contain a statement-ending token")
		}
	}

	sig := workspace.Signature{Name: "λ"}
	for _, t := range inner {
		if t.Class != token.Symbol {
			continue
		}
		switch t.Payload.Str {
		case "⍵":
			sig.HasB, sig.BName = true, "⍵"
		case "⍺":
			sig.HasA, sig.AName = true, "⍺"
		case "⍶":
			sig.HasLO, sig.LOName = true, "⍶"
		case "⍹":
			sig.HasRO, sig.RONAme = true, "⍹"
		case "χ":
			sig.HasX, sig.XName = true, "χ"
		}
	}

	if len(inner) == 0 {
		exe := &workspace.Executable{
			Body:       []token.Token{{Class: token.Return, Tag: token.TagReturnVoid, Text: "λ"}},
			LineStarts: []int{0},
			ParseMode:  workspace.UserFunctionBody,
		}
		return &workspace.UserFunction{Sig: sig, Executable: exe, Anonymous: true}, nil
	}

	sig.HasZ, sig.ZName = true, "λ"
	assignStmt := make([]token.Token, 0, len(inner)+2)
	assignStmt = append(assignStmt,
		token.Token{Class: token.Symbol, Tag: token.TagLSymb, Text: "λ", Payload: token.Payload{Str: "λ"}},
		token.Token{Class: token.Assign, Text: "←"},
	)
	assignStmt = append(assignStmt, inner...)

	body, err := ParseLine(assignStmt)
	if err != nil {
		return nil, err
	}
	retSentinel := token.Token{Class: token.Return, Tag: token.TagReturnValue, Text: "λ", Payload: token.Payload{Str: "λ"}}
	full := append(body, retSentinel)

	exe := &workspace.Executable{
		Body:       full,
		LineStarts: []int{len(body)},
		ParseMode:  workspace.UserFunctionBody,
	}
	return &workspace.UserFunction{Sig: sig, Executable: exe, Anonymous: true}, nil
}
