package cmd

import (
	"strings"

	"github.com/cwbudde/goapl/internal/prefix"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run an APL script line by line",
	Long: `Execute an APL script from a file, stdin, or an inline expression,
one immediate-execution line at a time (§4.6). A line that fails stops
the run and reports the three-line diagnostic (§4.10) on stderr.

Examples:
  apl run session.apl
  apl run -e "3+4"
  cat session.apl | apl run`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from a file")
}

func runScript(_ *cobra.Command, args []string) error {
	var input string
	if evalExpr != "" {
		input = evalExpr
	} else {
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

	ws, err := newWorkspace()
	if err != nil {
		return err
	}

	failed := false
	for _, line := range strings.Split(input, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, diag := prefix.ExecuteLine(ws, line); diag != nil {
			ws.PrintError(diag)
			failed = true
			break
		}
	}
	if failed {
		exitWithError("execution failed")
	}
	return nil
}
