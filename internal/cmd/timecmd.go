package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/config"
	"github.com/alexander-akhmetov/perflogger/internal/debug"
)

var (
	timeLabel     string
	timeRepeat    int
	timeReport    string
	timeVerbosity string
	timeKeepGoing bool
	timePromFile  string
)

var timeCmd = &cobra.Command{
	Use:   "time [flags] -- command [args...]",
	Short: "Time an external command",
	Long: `Run an external command one or more times, record each run under a label
and append the per-call lines and a summary to the report.

The command's stdout and stderr are passed through.

Examples:
  perflogger time -- make build
  perflogger time --repeat 10 --label test -- go test ./...
  perflogger time -n 5 --keep-going -- ./flaky.sh`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTime,
}

func init() {
	timeCmd.Flags().StringVarP(&timeLabel, "label", "l", "", "Label for the samples (default: command base name)")
	timeCmd.Flags().IntVarP(&timeRepeat, "repeat", "n", 1, "Number of runs")
	timeCmd.Flags().StringVarP(&timeReport, "report", "r", "", "Report file (default: generated name in the reports directory)")
	timeCmd.Flags().StringVar(&timeVerbosity, "verbosity", "", "Per-call logging: low, mid or high")
	timeCmd.Flags().BoolVar(&timeKeepGoing, "keep-going", false, "Continue with the remaining runs when the command fails")
	timeCmd.Flags().StringVar(&timePromFile, "prom-file", "", "Also write aggregates in Prometheus text format to this file")
}

func runTime(cmd *cobra.Command, args []string) error {
	if timeRepeat < 1 {
		return fmt.Errorf("--repeat must be positive, got %d", timeRepeat)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(timeReport, timeVerbosity, 0, 0)

	sess, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	label := timeLabel
	if label == "" {
		label = filepath.Base(args[0])
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	var failures []error
	for i := range timeRepeat {
		c := exec.CommandContext(ctx, args[0], args[1:]...) //nolint:gosec // command is the user's argument
		c.Stdin = cmd.InOrStdin()
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = cmd.ErrOrStderr()

		debug.Logf("time: run %d/%d: %v", i+1, timeRepeat, args)
		err := sess.TimeErr(label, c.Run)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		runErr := fmt.Errorf("run %d: %w", i+1, err)
		if !timeKeepGoing {
			return runErr
		}
		failures = append(failures, runErr)
	}

	if err := finish(cmd.OutOrStdout(), sess, timePromFile); err != nil {
		return err
	}
	if len(failures) > 0 {
		return fmt.Errorf("%d of %d runs failed: %w", len(failures), timeRepeat, errors.Join(failures...))
	}
	return nil
}
