/*
PURPOSE:
  Entry point for housing-price.
  Hands control to the CLI and turns its error into an exit status.

REQUIREMENTS:
  User-specified:
  - Runs with no arguments: train, evaluate, predict, wait for a key.
  - Any failure aborts the program; there is no recovery path.

  Implementation-discovered:
  - Exit 0 on success, 1 on any error with "Error: ..." on stderr.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()

ERROR HANDLING:
  - Errors are printed once here; commands silence cobra's own printing.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o housing-price ./cmd/housing-price
  ./housing-price [command] [flags]

SELF-HEALING INSTRUCTIONS:
  - If the CLI fails to start, check internal/cli/root.go.

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - None.
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/housing-price/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
