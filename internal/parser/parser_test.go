package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/lexer"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/gkampitakis/go-snaps/snaps"
)

func lexLine(t *testing.T, src string) []token.Token {
	t.Helper()
	toks, errs := lexer.New(src).Tokenize()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors for %q: %v", src, errs)
	}
	return toks
}

func dumpBody(body []token.Token) string {
	var b strings.Builder
	for _, t := range body {
		fmt.Fprintf(&b, "%s tag=%d %q\n", t.Class, t.Tag, t.Text)
	}
	return b.String()
}

func TestParseLineElementwisePlus(t *testing.T) {
	body, err := ParseLine(lexLine(t, "1 2 3+10 20 30"))
	if err != nil {
		t.Fatalf("ParseLine returned error: %v", err)
	}
	snaps.MatchSnapshot(t, "elementwise_plus_body", dumpBody(body))
}

func TestParseLineGroupsAdjacentConstantsIntoOneVector(t *testing.T) {
	body, err := ParseLine(lexLine(t, "1 2 3"))
	if err != nil {
		t.Fatalf("ParseLine returned error: %v", err)
	}
	if len(body) != 1 || body[0].Class != token.Value {
		t.Fatalf("expected groupConstants to merge 1 2 3 into one Value token, got %v", body)
	}
}

func TestParseLineBreaksGroupBeforeBracket(t *testing.T) {
	toks := lexLine(t, "1 2 3[2]")
	statements := splitStatements(toks)
	grouped := groupConstants(collapseParens(statements[0]))
	// "3" stays its own token since it's immediately followed by '['.
	if len(grouped) < 2 || grouped[0].Class != token.Value || len(grouped[0].Payload.Val.Ravel()) != 2 {
		t.Fatalf("groupConstants should leave a 2-element run before the indexed '3', got %v", dumpBody(grouped))
	}
}

func TestParseLineCollapsesSingletonParen(t *testing.T) {
	statements := splitStatements(lexLine(t, "(A)←1"))
	collapsed := collapseParens(statements[0])
	if collapsed[0].Class != token.Symbol || collapsed[0].Tag != token.TagParenSymbol {
		t.Fatalf("(A) should collapse to a single TagParenSymbol token, got %v", dumpBody(collapsed))
	}
}

func TestParseLineDoesNotCollapseMultiTokenParens(t *testing.T) {
	statements := splitStatements(lexLine(t, "(1 2)"))
	collapsed := collapseParens(statements[0])
	// (1 2) has two Value tokens inside: collapseParens only ever
	// removes a SINGLE-token paren group, so the parens survive this
	// pass; groupConstants then merges the two Values, and the bare
	// parens are stripped only at reduce time (see DESIGN.md).
	if collapsed[0].Class != token.LParen {
		t.Fatalf("a multi-token paren group must survive collapseParens, got %v", dumpBody(collapsed))
	}
}

func TestParseLineMarksLeftSymbolForAssignment(t *testing.T) {
	statements := splitStatements(lexLine(t, "A←1"))
	marked := markLeftSymbols(groupConstants(collapseParens(statements[0])))
	if marked[0].Class != token.Symbol || marked[0].Tag != token.TagLSymb {
		t.Fatalf("A immediately left of ← should be tagged TagLSymb, got %v", dumpBody(marked))
	}
}

func TestParseLineDoesNotMarkIndexedAssignTarget(t *testing.T) {
	statements := splitStatements(lexLine(t, "A[2]←99"))
	marked := markLeftSymbols(groupConstants(collapseParens(statements[0])))
	// ']' sits between A and ←, so A must NOT be retagged TagLSymb;
	// reduceIndexedAssign recognizes the target a different way.
	if marked[0].Class != token.Symbol || marked[0].Tag == token.TagLSymb {
		t.Fatalf("A[2]←99's A should not be tagged TagLSymb, got %v", dumpBody(marked))
	}
}

func TestParseLineVectorAssignmentNameList(t *testing.T) {
	statements := splitStatements(lexLine(t, "(A B)←1 2"))
	marked := markLeftSymbols(groupConstants(collapseParens(statements[0])))
	if marked[0].Class != token.Symbol || marked[0].Tag != token.TagLSymb2 {
		t.Fatalf("(A B)← should rewrite to a single TagLSymb2 token, got %v", dumpBody(marked))
	}
	if want := []string{"A", "B"}; len(marked[0].Payload.Names) != 2 ||
		marked[0].Payload.Names[0] != want[0] || marked[0].Payload.Names[1] != want[1] {
		t.Fatalf("TagLSymb2 Payload.Names = %v, want %v", marked[0].Payload.Names, want)
	}
}

func TestParseLineDisambiguatesReduceVsDyadicSlash(t *testing.T) {
	// "+/1 2 3": '/' is not preceded by a value-ending token, so it's a
	// MonadicOp (reduce).
	reduceBody := groupConstants(collapseParens(splitStatements(lexLine(t, "+/1 2 3"))[0]))
	reduceBody = disambiguateReduceScan(reduceBody)
	var slashClass token.Class
	for _, tok := range reduceBody {
		if tok.Tag == token.TagReduce {
			slashClass = tok.Class
		}
	}
	if slashClass != token.MonadicOp {
		t.Fatalf("+/1 2 3's '/' should classify as MonadicOp, got %v", slashClass)
	}

	// "1 2 3/4 5 6": '/' is preceded by a grouped Value (ends a value),
	// so it classifies as a dyadic Function (replicate).
	replicateBody := groupConstants(collapseParens(splitStatements(lexLine(t, "1 2 3/4 5 6"))[0]))
	replicateBody = disambiguateReduceScan(replicateBody)
	slashClass = -1
	for _, tok := range replicateBody {
		if tok.Tag == token.TagReduce {
			slashClass = tok.Class
		}
	}
	if slashClass != token.Function {
		t.Fatalf("1 2 3/4 5 6's '/' should classify as Function (replicate), got %v", slashClass)
	}
}

func TestStampBracketDistancesBalanced(t *testing.T) {
	statements := splitStatements(lexLine(t, "A[1;2]"))
	stmt := groupConstants(collapseParens(statements[0]))
	if err := stampBracketDistances(stmt); err != nil {
		t.Fatalf("balanced brackets should not error: %v", err)
	}
}

func TestStampBracketDistancesUnbalancedBracket(t *testing.T) {
	stmt := lexLine(t, "A[1")
	if err := stampBracketDistances(stmt); err == nil {
		t.Fatal("an unclosed '[' should report UNBALANCED_BRACKET")
	} else if ae, ok := err.(*errors.AplError); !ok || ae.Kind != errors.UNBALANCED_BRACKET {
		t.Fatalf("expected UNBALANCED_BRACKET, got %v", err)
	}
}

func TestStampBracketDistancesUnbalancedParen(t *testing.T) {
	stmt := lexLine(t, "(1+2")
	if err := stampBracketDistances(stmt); err == nil {
		t.Fatal("an unclosed '(' should report UNBALANCED_PAREN")
	} else if ae, ok := err.(*errors.AplError); !ok || ae.Kind != errors.UNBALANCED_PAREN {
		t.Fatalf("expected UNBALANCED_PAREN, got %v", err)
	}
}

func TestParseLineMultipleStatements(t *testing.T) {
	body, err := ParseLine(lexLine(t, "A←1 ⋄ B←2"))
	if err != nil {
		t.Fatalf("ParseLine returned error: %v", err)
	}
	hasEndStmt := false
	for _, tok := range body {
		if tok.Class == token.EndStmt {
			hasEndStmt = true
		}
	}
	if !hasEndStmt {
		t.Fatal("ParseLine over two ⋄-separated statements should emit a token.EndStmt separator")
	}
	snaps.MatchSnapshot(t, "two_statement_body", dumpBody(body))
}

func TestParseExtractsLambda(t *testing.T) {
	body, lambdas, err := Parse(lexLine(t, "{⍵+⍺}/1 2 3 4"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(lambdas) != 1 {
		t.Fatalf("expected exactly one extracted lambda, got %d", len(lambdas))
	}
	snaps.MatchSnapshot(t, "lambda_reduce_body", dumpBody(body))
}

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	_ = v
}
