package prefix

import (
	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/lexer"
	"github.com/cwbudde/goapl/internal/parser"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/cwbudde/goapl/internal/workspace"
)

// ExecuteLine is the top-level immediate-execution entrypoint (§4.6):
// lex and parse one line, wrap it in a trivial single-statement
// Executable, push an SI frame, and drive a Reducer over it. Any error
// becomes a *errors.Diagnostic recorded into ⎕EM/⎕ET (§4.10) rather
// than being returned raw, matching how a paused SI frame is reported.
func ExecuteLine(ws *workspace.Workspace, text string) (Outcome, *errors.Diagnostic) {
	toks, lexErrs := lexer.New(text).Tokenize()
	if len(lexErrs) > 0 {
		d := &errors.Diagnostic{Kind: errors.SYNTAX, Image: text}
		ws.SetLastError(d)
		return Outcome{}, d
	}

	body, lambdas, err := parser.Parse(toks)
	_ = lambdas // anonymous functions referenced via Payload.Fn already live inside body
	if err != nil {
		d := annotateTopLevel(err, text)
		ws.SetLastError(d)
		return Outcome{}, d
	}
	body = append(body, token.Token{Class: token.EndLine, Text: ""})

	exe := &workspace.Executable{
		Text:       []string{text},
		Body:       body,
		LineStarts: []int{0},
		ParseMode:  workspace.ExecuteExpression,
	}

	si, err := ws.PushSI(exe, "", false)
	if err != nil {
		d := annotateTopLevel(err, text)
		ws.SetLastError(d)
		return Outcome{}, d
	}
	defer ws.PopSI()
	ws.RefreshLineCounter()
	ws.RefreshAccountInformation()

	out, err := New(ws, si).Run()
	if err != nil {
		d, _ := err.(*errors.Diagnostic)
		if d == nil {
			d = annotateTopLevel(err, text)
		}
		ws.SetLastError(d)
		return Outcome{}, d
	}
	return out, nil
}

func annotateTopLevel(err error, image string) *errors.Diagnostic {
	if ae, ok := err.(*errors.AplError); ok {
		return &errors.Diagnostic{Kind: ae.Kind, Image: image}
	}
	if d, ok := err.(*errors.Diagnostic); ok {
		return d
	}
	return &errors.Diagnostic{Kind: errors.THIS_IS_A_BUG, Image: image}
}
