package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage perflogger configuration",
	Long:  `View and manage perflogger configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved configuration with source annotations",
	Long: `Show the fully resolved configuration with annotations indicating
where each value came from.

Configuration is loaded from multiple sources with the following precedence:
  1. Embedded defaults (built into binary)
  2. Global config (~/.config/perflogger/config.yaml)
  3. Environment variables (PERFLOGGER_*)
  4. Local config (.perflogger/config.yaml)
  5. CLI flags (highest precedence)`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# Perflogger Configuration")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "## Sources (in order of precedence)")
	for _, src := range cfg.Sources() {
		fmt.Fprintf(out, "  - %s\n", src)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Directories")
	fmt.Fprintf(out, "  Global config: %s\n", cfg.ConfigDir())
	if cfg.LocalDir() != "" {
		fmt.Fprintf(out, "  Local config:  %s\n", cfg.LocalDir())
	} else {
		fmt.Fprintf(out, "  Local config:  (none detected)\n")
	}
	fmt.Fprintf(out, "  Reports:       %s\n", cfg.ResolvedReportsDir())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Report Settings")
	if cfg.ReportFile != "" {
		fmt.Fprintf(out, "  report_file: %s\n", cfg.ReportFile)
	} else {
		fmt.Fprintf(out, "  report_file: (generated)\n")
	}
	fmt.Fprintf(out, "  file_prefix: %s\n", cfg.FilePrefix)
	fmt.Fprintf(out, "  verbosity:   %s\n", cfg.Verbosity)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "## Workload Settings")
	fmt.Fprintf(out, "  workers:    %d\n", cfg.Workload.Workers)
	fmt.Fprintf(out, "  iterations: %d\n", cfg.Workload.Iterations)
	fmt.Fprintf(out, "  spin:       %d\n", cfg.Workload.Spin)

	return nil
}
