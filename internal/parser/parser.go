// Package parser implements §2.6/§4.4 of the core spec: the five
// structural passes that turn one line's flat token vector into the
// reversed-per-statement body the Prefix reducer consumes, plus lambda
// extraction (§4.5).
//
// Grounded on the teacher's internal/parser's multi-pass-over-a-token-
// vector shape (collect, then repeatedly normalize) generalized from
// DWScript's precedence-climbing expression grammar to APL's
// structural (bracket-distance, ends-a-value) disambiguation rules.
package parser

import (
	"strings"

	"github.com/cwbudde/goapl/internal/cell"
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/value"
	"github.com/cwbudde/goapl/internal/workspace"
)

// Parse extracts lambdas (§4.5) then runs the five structural passes
// (§4.4) over the remainder, returning the line's reversed body
// fragment and every anonymous function it defined.
func Parse(toks []token.Token) ([]token.Token, []*workspace.UserFunction, error) {
	rest, lambdas, err := ExtractLambdas(toks)
	if err != nil {
		return nil, nil, err
	}
	body, err := ParseLine(rest)
	if err != nil {
		return nil, nil, err
	}
	return body, lambdas, nil
}

// ParseLine runs all five structural passes over one line's tokens
// (already split into per-⋄ statements internally) and returns the
// line's body fragment: each statement reversed right-to-left,
// statements separated by token.EndStmt. The caller (REPL driver or
// UserFunction.Fix) appends the final token.EndLine / return sentinel
// once, for the whole Executable, and tracks line_starts.
func ParseLine(toks []token.Token) ([]token.Token, error) {
	statements := splitStatements(toks)
	var out []token.Token
	for i, stmt := range statements {
		frag, err := parseStatement(stmt)
		if err != nil {
			return nil, err
		}
		out = append(out, frag...)
		if i != len(statements)-1 {
			out = append(out, token.Token{Class: token.EndStmt, Text: "⋄"})
		}
	}
	return out, nil
}

// splitStatements is pass 1: split on token.Diamond (§4.4 step 1).
func splitStatements(toks []token.Token) [][]token.Token {
	var out [][]token.Token
	start := 0
	for i, t := range toks {
		if t.Class == token.Diamond {
			out = append(out, toks[start:i])
			start = i + 1
		}
	}
	out = append(out, toks[start:])
	return out
}

// parseStatement runs passes 2-6 on one statement (still in original
// left-to-right source order), then reverses it. No separator is
// appended here; ParseLine inserts token.EndStmt between statements.
func parseStatement(stmt []token.Token) ([]token.Token, error) {
	if len(stmt) == 0 {
		return nil, nil
	}
	stmt = collapseParens(stmt)
	stmt = groupConstants(stmt)
	stmt = markLeftSymbols(stmt)
	stmt = disambiguateReduceScan(stmt)
	if err := stampBracketDistances(stmt); err != nil {
		return nil, err
	}
	reversed := make([]token.Token, len(stmt))
	for i, t := range stmt {
		reversed[len(stmt)-1-i] = t
	}
	return reversed, nil
}

// matchParens pairs every LParen with its RParen via a stack; unmatched
// parens are simply absent from the map (balance is checked later, in
// stampBracketDistances, which covers all three bracket kinds).
func matchParens(toks []token.Token) map[int]int {
	m := make(map[int]int)
	var stack []int
	for i, t := range toks {
		switch t.Class {
		case token.LParen:
			stack = append(stack, i)
		case token.RParen:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				m[top] = i
				m[i] = top
			}
		}
	}
	return m
}

// collapseParens is pass 2 (§4.4 step 2): repeatedly simplify "((X))"
// to "(X)" and "(X)" to X when X is a single token, retagging a
// singleton symbol as TagParenSymbol.
func collapseParens(toks []token.Token) []token.Token {
	for {
		m := matchParens(toks)
		changed := false

		for i := 0; i < len(toks); i++ {
			if toks[i].Class != token.LParen {
				continue
			}
			j, ok := m[i]
			if !ok {
				continue
			}
			if j == i+2 {
				inner := toks[i+1]
				if inner.Class == token.Symbol {
					inner.Tag = token.TagParenSymbol
				}
				next := make([]token.Token, 0, len(toks)-2)
				next = append(next, toks[:i]...)
				next = append(next, inner)
				next = append(next, toks[j+1:]...)
				toks = next
				changed = true
				break
			}
		}
		if changed {
			continue
		}

		for i := 0; i+1 < len(toks); i++ {
			if toks[i].Class != token.LParen || toks[i+1].Class != token.LParen {
				continue
			}
			j, ok1 := m[i]
			k, ok2 := m[i+1]
			if ok1 && ok2 && j == k+1 {
				next := make([]token.Token, 0, len(toks)-2)
				next = append(next, toks[:i]...)
				next = append(next, toks[i+1:k+1]...)
				next = append(next, toks[j+1:]...)
				toks = next
				changed = true
				break
			}
		}
		if !changed {
			return toks
		}
	}
}

// groupConstants is pass 3 (§4.4 step 3): maximal runs of literal
// Value tokens become one vector-notation Value token. A run is broken
// one token early when followed by '[', so that e.g. "1 2 3[2]" binds
// the bracket to the lone "3" (a rank error when indexed) rather than
// to the whole group.
func groupConstants(toks []token.Token) []token.Token {
	var out []token.Token
	i := 0
	for i < len(toks) {
		if toks[i].Class != token.Value {
			out = append(out, toks[i])
			i++
			continue
		}
		j := i
		for j < len(toks) && toks[j].Class == token.Value {
			j++
		}
		end := j
		if end-i > 1 && j < len(toks) && toks[j].Class == token.LBracket {
			end = j - 1
		}
		if end-i == 1 {
			out = append(out, toks[i])
		} else {
			out = append(out, mergeValues(toks[i:end]))
		}
		for k := end; k < j; k++ {
			out = append(out, toks[k])
		}
		i = j
	}
	return out
}

func mergeValues(run []token.Token) token.Token {
	var cells []cell.Cell
	var text strings.Builder
	for k, t := range run {
		if k > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(t.Text)
		v := t.Payload.Val
		if v.Rank() == 0 {
			cells = append(cells, v.Ravel()[0])
		} else {
			cells = append(cells, cell.MakePointer(v.Retain()))
		}
	}
	out := value.VectorOf(cells)
	return token.Token{Class: token.Value, Text: text.String(), Pos: run[0].Pos, Payload: token.Payload{Val: out}}
}

// markLeftSymbols is pass 4 (§4.4 step 4): the symbol immediately left
// of ← is retagged TagLSymb; a parenthesized list of plain symbols
// immediately left of ← has its parens stripped and every name tagged
// TagLSymb2 (vector assignment). A parenthesized non-name-list (e.g.
// "(A[I])←B", selective assignment through an expression) is left
// untouched here: the reducer recognizes the narrower "SYM[I]←B" form
// directly instead (see DESIGN.md).
func markLeftSymbols(toks []token.Token) []token.Token {
	m := matchParens(toks)
	out := make([]token.Token, 0, len(toks))
	i := 0
	for i < len(toks) {
		t := toks[i]
		if t.Class == token.Assign {
			if len(out) > 0 {
				prev := out[len(out)-1]
				if prev.Class == token.Symbol {
					prev.Tag = token.TagLSymb
					out[len(out)-1] = prev
				} else if prev.Class == token.RParen {
					if start, ok := parenNameListStart(toks, m, i-1); ok {
						out = rewriteAsNameList(out, start, i-1)
					}
				}
			}
			out = append(out, t)
			i++
			continue
		}
		out = append(out, t)
		i++
	}
	return out
}

// parenNameListStart reports whether the RParen at index close (in the
// ORIGINAL token slice) matches an LParen enclosing only plain Symbol
// tokens, returning that LParen's index.
func parenNameListStart(toks []token.Token, m map[int]int, close int) (int, bool) {
	open, ok := m[close]
	if !ok {
		return 0, false
	}
	for k := open + 1; k < close; k++ {
		if toks[k].Class != token.Symbol {
			return 0, false
		}
	}
	return open, true
}

// rewriteAsNameList strips the "(" and ")" that currently sit at the
// front and back of out[start:] and merges the enclosed plain-symbol
// names into a single Symbol token tagged TagLSymb2, carrying the
// names in source order via Payload.Names — the reducer resolves each
// one individually at assignment time (§4.4 step 4 "vector
// assignment"). start/closeIdx index the ORIGINAL token slice; since
// out has been built 1:1 so far (markLeftSymbols hasn't deleted
// anything yet at the point this is called), out has the same indices.
func rewriteAsNameList(out []token.Token, start, closeIdx int) []token.Token {
	names := make([]string, 0, closeIdx-start-1)
	pos := out[start].Pos
	var text strings.Builder
	text.WriteByte('(')
	for k := start + 1; k < closeIdx; k++ {
		if k > start+1 {
			text.WriteByte(' ')
		}
		text.WriteString(out[k].Text)
		names = append(names, out[k].Text)
	}
	text.WriteByte(')')
	group := token.Token{Class: token.Symbol, Tag: token.TagLSymb2, Text: text.String(), Pos: pos, Payload: token.Payload{Names: names}}

	next := make([]token.Token, 0, len(out)-1)
	next = append(next, out[:start]...)
	next = append(next, group)
	return next
}

// disambiguateReduceScan is pass 5 (§4.4 step 5): classify "/ ⌿ \ ⍀" as
// a dyadic Function (replicate/expand) when the token to its left ends
// a value, or as a MonadicOp (reduce/scan) otherwise.
func disambiguateReduceScan(toks []token.Token) []token.Token {
	for i := range toks {
		switch toks[i].Tag {
		case token.TagReduce, token.TagReduce1, token.TagScan, token.TagScan1:
		default:
			continue
		}
		leftEndsValue := i > 0 && toks[i-1].IsEndingValue()
		if leftEndsValue {
			toks[i].Class = token.Function
		} else {
			toks[i].Class = token.MonadicOp
		}
	}
	return toks
}

// stampBracketDistances is pass 6 (§4.4 step 6): stamps every
// (,[,{ with the token distance to its matching closer and vice versa;
// returns an UNBALANCED_* error on mismatch.
func stampBracketDistances(toks []token.Token) error {
	type frame struct {
		idx   int
		class token.Class
	}
	var stack []frame
	closerFor := map[token.Class]token.Class{token.LParen: token.RParen, token.LBracket: token.RBracket, token.LBrace: token.RBrace}
	openerFor := map[token.Class]token.Class{token.RParen: token.LParen, token.RBracket: token.LBracket, token.RBrace: token.LBrace}
	unbalancedFor := map[token.Class]errors.Kind{token.LParen: errors.UNBALANCED_PAREN, token.LBracket: errors.UNBALANCED_BRACKET, token.LBrace: errors.UNBALANCED_CURLY}

	for i, t := range toks {
		if _, ok := closerFor[t.Class]; ok {
			stack = append(stack, frame{i, t.Class})
			continue
		}
		if opener, ok := openerFor[t.Class]; ok {
			if len(stack) == 0 || stack[len(stack)-1].class != opener {
				return errors.New(unbalancedFor[opener], "unbalanced "+opener.String())
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			dist := i - top.idx
			toks[top.idx].Distance = dist
			toks[i].Distance = dist
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return errors.New(unbalancedFor[top.class], "unbalanced "+top.class.String())
	}
	return nil
}
