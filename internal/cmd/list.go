package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/config"
	"github.com/alexander-akhmetov/perflogger/internal/report"
)

var listRecent int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generated reports",
	Long: `List reports with generated names in the reports directory, newest first.

Reports written to an explicit --report path are not listed.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listRecent, "recent", 10, "Number of recent reports to show")
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dir := cfg.ResolvedReportsDir()

	files, err := report.FindReports(dir, cfg.FilePrefix)
	if err != nil {
		return fmt.Errorf("failed to find reports: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No reports found.")
		fmt.Fprintf(out, "Reports directory: %s\n", dir)
		return nil
	}

	printReports(out, files, listRecent)
	return nil
}

func printReports(out io.Writer, files []report.File, limit int) {
	fmt.Fprintf(out, "Recent reports (showing %d):\n", min(limit, len(files)))
	fmt.Fprintln(out, strings.Repeat("-", 60))
	for i, f := range files {
		if i >= limit {
			break
		}
		fmt.Fprintf(out, "  %s  %8d bytes\n", f.Timestamp.Format("2006-01-02 15:04:05.000"), f.Size)
		fmt.Fprintf(out, "    %s\n", f.Path)
	}
}

// latestReport resolves the newest generated report from the configuration.
func latestReport() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	dir := cfg.ResolvedReportsDir()
	latest, err := report.FindLatest(dir, cfg.FilePrefix)
	if err != nil {
		return "", fmt.Errorf("failed to find reports: %w", err)
	}
	if latest == nil {
		return "", fmt.Errorf("no reports found in %s", dir)
	}
	return latest.Path, nil
}
