package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/config"
	"github.com/alexander-akhmetov/perflogger/internal/debug"
	"github.com/alexander-akhmetov/perflogger/internal/export"
	"github.com/alexander-akhmetov/perflogger/internal/git"
	"github.com/alexander-akhmetov/perflogger/internal/recorder"
	"github.com/alexander-akhmetov/perflogger/internal/render"
	"github.com/alexander-akhmetov/perflogger/internal/workload"
)

var (
	runReport     string
	runVerbosity  string
	runWorkers    int
	runIterations int
	runChunks     int
	runChunkSize  int
	runSleep      time.Duration
	runPromFile   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the built-in instrumented workloads",
	Long: `Run the built-in workloads (busy loop, allocation, sleep) on several
goroutines, record every region, append a summary to the report and print it.

Examples:
  perflogger run
  perflogger run --workers 8 --iterations 100
  perflogger run --verbosity low --report bench.csv
  perflogger run --prom-file /var/lib/node_exporter/perflogger.prom`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runReport, "report", "r", "", "Report file (default: generated name in the reports directory)")
	runCmd.Flags().StringVar(&runVerbosity, "verbosity", "", "Per-call logging: low, mid or high")
	runCmd.Flags().IntVarP(&runWorkers, "workers", "w", 0, "Concurrent goroutines (0 = config value)")
	runCmd.Flags().IntVarP(&runIterations, "iterations", "n", 0, "Iterations per goroutine (0 = config value)")
	runCmd.Flags().IntVar(&runChunks, "chunks", 16, "Allocations per iteration")
	runCmd.Flags().IntVar(&runChunkSize, "chunk-size", 4096, "Bytes per allocation")
	runCmd.Flags().DurationVar(&runSleep, "sleep", 0, "Pause per iteration")
	runCmd.Flags().StringVar(&runPromFile, "prom-file", "", "Also write aggregates in Prometheus text format to this file")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyCLIFlags(runReport, runVerbosity, runWorkers, runIterations)

	sess, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	wl := workload.Config{
		Workers:    cfg.Workload.Workers,
		Iterations: cfg.Workload.Iterations,
		Spin:       cfg.Workload.Spin,
		Chunks:     runChunks,
		ChunkSize:  runChunkSize,
		Sleep:      runSleep,
	}
	if err := workload.Run(ctx, sess, wl); err != nil {
		return fmt.Errorf("run workload: %w", err)
	}

	return finish(cmd.OutOrStdout(), sess, runPromFile)
}

// newSession builds a recorder session from the resolved configuration.
func newSession(cfg *config.Config, errOut io.Writer) (*recorder.Session, error) {
	sessCfg, err := cfg.ToSessionConfig(errOut)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return recorder.NewSession(sessCfg), nil
}

// finish writes the summary section, optionally exports metrics and prints
// the summary table with the report location. The table is printed even when
// the report cannot be written.
func finish(out io.Writer, sess *recorder.Session, promFile string) error {
	summaryErr := sess.GenerateSummary()
	var promErr error
	if promFile != "" {
		promErr = export.WriteRegistry(promFile, sess.Registry())
	}

	fmt.Fprint(out, render.Table(sess.Summaries(), isTerminal(out)))
	fmt.Fprintf(out, "\nReport: %s\n", sess.FileName())
	if promFile != "" && promErr == nil {
		fmt.Fprintf(out, "Metrics: %s\n", promFile)
	}
	if rev, ok := revision(); ok {
		fmt.Fprintf(out, "Revision: %s\n", rev)
	}

	if summaryErr != nil {
		return fmt.Errorf("write summary: %w", summaryErr)
	}
	return promErr
}

func revision() (string, bool) {
	wd, err := os.Getwd()
	if err != nil || !git.IsRepo(wd) {
		return "", false
	}
	rev, err := git.Describe(wd)
	if err != nil {
		debug.Logf("revision: %v", err)
		return "", false
	}
	return rev.String(), true
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
