package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/goapl/internal/workspace"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagIO int64
	flagCT float64
	flagPP int64
	flagPW int64
)

var rootCmd = &cobra.Command{
	Use:   "apl",
	Short: "A small APL interpreter core",
	Long: `apl is a Go implementation of the ISO/IEC 13751 core: tokenizer,
structural parser, and shift-reduce reducer over a workspace of
symbols and system variables.

This is not a full APL system: it covers the interpreter core only
(§1 Non-goals) — no )SAVE/)LOAD workspace files, no GUI, no shared
variables across processes.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().Int64Var(&flagIO, "io", 1, "⎕IO: index origin (0 or 1)")
	rootCmd.PersistentFlags().Float64Var(&flagCT, "ct", 1e-13, "⎕CT: comparison tolerance")
	rootCmd.PersistentFlags().Int64Var(&flagPP, "pp", 10, "⎕PP: print precision")
	rootCmd.PersistentFlags().Int64Var(&flagPW, "pw", 80, "⎕PW: print width")
}

// newWorkspace builds a Workspace with stdio collaborators and the
// --io/--ct/--pp/--pw flags applied over the §4.8 defaults.
func newWorkspace() (*workspace.Workspace, error) {
	ws := workspace.New()
	ws.LineInput = stdioLineInput{}
	ws.Out = stdioCharOutput{}
	ws.WallClock = systemClock{}

	if err := ws.SetIndexOrigin(flagIO); err != nil {
		return nil, err
	}
	if err := ws.SetComparisonTolerance(flagCT); err != nil {
		return nil, err
	}
	if err := ws.SetPrintPrecision(flagPP); err != nil {
		return nil, err
	}
	if err := ws.SetPrintWidth(flagPW); err != nil {
		return nil, err
	}
	return ws, nil
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
