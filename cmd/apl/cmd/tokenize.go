package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/goapl/internal/lexer"
	"github.com/cwbudde/goapl/internal/token"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Lex a line (or file) and print its raw token stream",
	Long: `Scan the input with the §4.3 tokenizer and print one line per
token: its class, tag, and source spelling. Diagnostic tool, mirrors
how --dump-ast exposes an intermediate stage for debugging.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTokenize,
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from a file")
}

func runTokenize(_ *cobra.Command, args []string) error {
	input := evalExpr
	if input == "" {
		filename := ""
		if len(args) == 1 {
			filename = args[0]
		}
		content, err := readAll(filename)
		if err != nil {
			return err
		}
		input = content
	}

	toks, errs := lexer.New(input).Tokenize()
	for _, t := range toks {
		fmt.Fprintf(os.Stdout, "%-10s %-16s %q\n", t.Class, tagName(t.Tag), t.Text)
	}
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "lex error: %s\n", e.Message)
	}
	if len(errs) > 0 {
		exitWithError("tokenizing failed with %d error(s)", len(errs))
	}
	return nil
}

var tagNames = map[token.Tag]string{
	token.NoTag:          "-",
	token.TagSymbolPlain: "SYMBOL_PLAIN",
	token.TagLSymb:       "LSYMB",
	token.TagLSymb2:      "LSYMB2",
	token.TagQuadSymbol:  "QUAD_SYMBOL",
	token.TagNiladic:     "NILADIC",
	token.TagMonadic:     "MONADIC",
	token.TagDyadic:      "DYADIC",
	token.TagAmbivalent:  "AMBIVALENT",
	token.TagReduce:      "REDUCE",
	token.TagReduce1:     "REDUCE1",
	token.TagScan:        "SCAN",
	token.TagScan1:       "SCAN1",
	token.TagReturnValue: "RETURN_VALUE",
	token.TagReturnVoid:  "RETURN_VOID",
	token.TagParenSymbol: "PAREN_SYMBOL",
}

func tagName(tag token.Tag) string {
	if n, ok := tagNames[tag]; ok {
		return n
	}
	return "?"
}
