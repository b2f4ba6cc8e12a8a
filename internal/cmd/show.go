package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexander-akhmetov/perflogger/internal/render"
)

var (
	showJSON      bool
	showMarkdown  bool
	showSection   int
	showFromCalls bool
)

var showCmd = &cobra.Command{
	Use:   "show [report]",
	Short: "Show a summary section of a report",
	Long: `Show a summary section of a report written by perflogger, or of a JSON
export produced by "show --json".

By default the most recent summary section is shown as a table. Without a
report argument the newest generated report is used.

Examples:
  perflogger show
  perflogger show report.csv
  perflogger show report.csv --section 1
  perflogger show report.csv --markdown
  perflogger show report.csv --from-calls
  perflogger show report.csv --json > summary.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Print the section as JSON")
	showCmd.Flags().BoolVar(&showMarkdown, "markdown", false, "Print the section as markdown")
	showCmd.Flags().IntVarP(&showSection, "section", "s", 0, "Summary section to show, 1-based (0 = last)")
	showCmd.Flags().BoolVar(&showFromCalls, "from-calls", false, "Recompute the summary from per-call lines")
}

func runShow(cmd *cobra.Command, args []string) error {
	if showJSON && showMarkdown {
		return fmt.Errorf("--json and --markdown are mutually exclusive")
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		latest, err := latestReport()
		if err != nil {
			return err
		}
		path = latest
	}

	var (
		sec loadedSection
		err error
	)
	if showFromCalls {
		sec, err = summarizeCalls(path)
	} else {
		sec, err = loadSection(path, showSection)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case showJSON:
		data, err := render.JSON(sec.GeneratedAt, path, sec.Rows)
		if err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		_, err = out.Write(data)
		return err
	case showMarkdown:
		md := render.Markdown(sectionTitle(sec), sec.Rows)
		if isTerminal(out) {
			rendered, err := render.Glamour(md, terminalWidth(out))
			if err != nil {
				return err
			}
			md = rendered
		}
		fmt.Fprint(out, md)
		return nil
	}

	fmt.Fprintf(out, "%s\n\n", sectionTitle(sec))
	fmt.Fprint(out, render.Table(sec.Rows, isTerminal(out)))
	return nil
}

func sectionTitle(sec loadedSection) string {
	title := fmt.Sprintf("Summary %d of %d", sec.Index, sec.Count)
	if sec.GeneratedAt != "" {
		title += " (" + sec.GeneratedAt + ")"
	}
	return title
}
