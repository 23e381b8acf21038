package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"synnergy-network/synthesis/internal/diag"
)

// lintCmd runs the same pipeline build does but writes nothing: it exists
// for the selector-collision and resolution-error class of feedback a CI
// step wants without touching the filesystem's build output.
var lintCmd = &cobra.Command{
	Use:   "lint <file.sol> [more files...]",
	Short: "report diagnostics (selector collisions, unresolved names, ...) without writing output",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	res, err := compileFromArgs(cmd, args)
	if res == nil {
		return err
	}

	diags := res.Diagnostics.Sorted()
	for _, d := range diags {
		fmt.Fprintln(cmd.OutOrStdout(), d.String())
	}

	errCount, warnCount := 0, 0
	for _, d := range diags {
		switch d.Severity {
		case diag.Error:
			errCount++
		case diag.Warning:
			warnCount++
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d error(s), %d warning(s)\n", errCount, warnCount)

	if errCount > 0 {
		return fmt.Errorf("lint: %d error(s)", errCount)
	}
	return nil
}
