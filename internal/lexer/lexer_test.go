package lexer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/goapl/internal/token"
	"github.com/gkampitakis/go-snaps/snaps"
)

func dumpTokens(toks []token.Token) string {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%s %q\n", t.Class, t.Text)
	}
	return b.String()
}

func TestTokenizeBasicArithmetic(t *testing.T) {
	toks, errs := New("1 2 3 + 10 20 30").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	snaps.MatchSnapshot(t, "basic_arithmetic", dumpTokens(toks))
}

func TestTokenizeGlyphsAndReduce(t *testing.T) {
	toks, errs := New("+/⍳10").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	snaps.MatchSnapshot(t, "plus_reduce_iota", dumpTokens(toks))
}

func TestTokenizeStringLiteral(t *testing.T) {
	toks, errs := New(`'it''s'`).Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if len(toks) != 1 || toks[0].Class != token.Value {
		t.Fatalf("expected a single Value token for a quote-quote string, got %v", toks)
	}
	if got := toks[0].Payload.Val.Ravel(); len(got) != 4 {
		t.Fatalf("doubled quote should unescape to a single quote, got %d chars", len(got))
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, errs := New(`'abc`).Tokenize()
	if len(errs) == 0 {
		t.Fatal("an unterminated string literal should report a lex error")
	}
}

func TestTokenizeNegativeAndFloat(t *testing.T) {
	toks, errs := New("¯3.5 2E¯1").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if len(toks) != 2 {
		t.Fatalf("expected two numeric tokens, got %d", len(toks))
	}
	snaps.MatchSnapshot(t, "negative_and_float_numerals", dumpTokens(toks))
}

func TestTokenizeQuadName(t *testing.T) {
	toks, errs := New("⎕IO←1").Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if toks[0].Class != token.Symbol || toks[0].Tag != token.TagQuadSymbol {
		t.Fatalf("⎕IO should lex as a TagQuadSymbol Symbol, got %v/%v", toks[0].Class, toks[0].Tag)
	}
	if toks[0].Payload.Str != "IO" {
		t.Fatalf("⎕IO's resolved name should be %q, got %q", "IO", toks[0].Payload.Str)
	}
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	_, errs := New("1 @ 2").Tokenize()
	if len(errs) == 0 {
		t.Fatal("an unrecognized glyph should report a lex error")
	}
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}
