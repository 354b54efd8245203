package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/goapl/internal/errors"
	"github.com/cwbudde/goapl/internal/lexer"
	"github.com/cwbudde/goapl/internal/parser"
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Lex and parse a line, printing its reversed body fragment",
	Long: `Run the §4.4 structural passes (and §4.5 lambda extraction) over
the input and print the resulting reversed-per-statement token body
the reducer would consume. Diagnostic tool, not a committed parse
tree dump (APL has none beyond this flat body).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
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

	toks, lexErrs := lexer.New(input).Tokenize()
	if len(lexErrs) > 0 {
		for _, e := range lexErrs {
			fmt.Fprintf(os.Stderr, "lex error: %s\n", e.Message)
		}
		exitWithError("tokenizing failed with %d error(s)", len(lexErrs))
	}

	body, lambdas, err := parser.Parse(toks)
	if err != nil {
		if ae, ok := err.(*errors.AplError); ok {
			exitWithError("%s", ae.Error())
		}
		exitWithError("%s", err.Error())
	}

	for i, t := range body {
		fmt.Fprintf(os.Stdout, "%3d: %-10s %-16s %q\n", i, t.Class, tagName(t.Tag), t.Text)
	}
	if len(lambdas) > 0 {
		fmt.Fprintf(os.Stdout, "(%d lambda(s) extracted)\n", len(lambdas))
	}
	return nil
}
