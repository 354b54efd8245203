package cmd

import (
	"github.com/cwbudde/goapl/internal/prefix"
	"github.com/spf13/cobra"
)

// sessionPrompt is the conventional APL session prompt: six spaces,
// matching a cleared input line's indent under the last echoed result.
const sessionPrompt = "      "

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive APL session",
	Long: `Read one line at a time from the LineInput collaborator (stdio by
default), execute it immediately (§4.6), and print its result or
three-line diagnostic (§4.10) until end of input.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runRepl(_ *cobra.Command, _ []string) error {
	ws, err := newWorkspace()
	if err != nil {
		return err
	}

	for {
		line, ok := ws.LineInput.ReadLine(sessionPrompt)
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if line == ")OFF" {
			return nil
		}
		if _, diag := prefix.ExecuteLine(ws, line); diag != nil {
			ws.PrintError(diag)
		}
	}
}
