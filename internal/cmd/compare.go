package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/render"
)

var compareUnified bool

var compareCmd = &cobra.Command{
	Use:   "compare <old> <new>",
	Short: "Compare the latest summaries of two reports",
	Long: `Compare the most recent summary sections of two reports and print the
change of each label's mean duration. Either side may be a CSV report or a
JSON export produced by "show --json".

Examples:
  perflogger compare before.csv after.csv
  perflogger compare baseline.json after.csv --unified`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVarP(&compareUnified, "unified", "u", false, "Print a unified diff of the summary rows")
}

func runCompare(cmd *cobra.Command, args []string) error {
	oldPath, newPath := args[0], args[1]

	oldSec, err := loadSection(oldPath, 0)
	if err != nil {
		return err
	}
	newSec, err := loadSection(newPath, 0)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if compareUnified {
		diff := render.UnifiedDiff(oldPath, newPath, oldSec.Rows, newSec.Rows)
		if diff == "" {
			fmt.Fprintln(out, "No differences.")
			return nil
		}
		fmt.Fprint(out, diff)
		return nil
	}

	fmt.Fprint(out, render.DeltaTable(render.Deltas(oldSec.Rows, newSec.Rows), isTerminal(out)))
	return nil
}
