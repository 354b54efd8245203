// Command apl is the goapl core's CLI front end: a thin cobra shell
// around internal/prefix's reducer, wiring stdio as the default
// implementation of internal/workspace/collaborators.go's host
// interfaces (§6).
package main

import (
	"os"

	"github.com/cwbudde/goapl/cmd/apl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
