package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/agentsync-dev/agentsync/cmd/agentsync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// Drift exits report through the exit code alone; real errors
		// get printed.
		if !errors.Is(err, cmd.ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
