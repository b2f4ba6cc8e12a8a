package cmd

import (
	"fmt"
	"os"

	"github.com/alexander-akhmetov/perflogger/internal/registry"
	"github.com/alexander-akhmetov/perflogger/internal/render"
	"github.com/alexander-akhmetov/perflogger/internal/report"
	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// loadedSection is a summary section read from a CSV report or a JSON export.
type loadedSection struct {
	report.Section
	Index int // 1-based position among the file's sections
	Count int // total sections in the file
}

// loadSection reads summary section n (1-based; 0 selects the last one) from
// path. JSON exports hold exactly one section.
func loadSection(path string, n int) (loadedSection, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied report path
	if err != nil {
		return loadedSection{}, fmt.Errorf("read report: %w", err)
	}

	if render.LooksLikeJSON(data) {
		at, rows, err := render.ParseJSON(data)
		if err != nil {
			return loadedSection{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if n > 1 {
			return loadedSection{}, fmt.Errorf("%s: section %d out of range (1 section)", path, n)
		}
		return loadedSection{Section: report.Section{GeneratedAt: at, Rows: rows}, Index: 1, Count: 1}, nil
	}

	doc, err := report.ParseFile(path)
	if err != nil {
		return loadedSection{}, err
	}
	count := len(doc.Summaries)
	if count == 0 {
		return loadedSection{}, fmt.Errorf("%s: %w", path, report.ErrNoSummary)
	}
	if n == 0 {
		n = count
	}
	if n < 1 || n > count {
		return loadedSection{}, fmt.Errorf("%s: section %d out of range (%d sections)", path, n, count)
	}
	return loadedSection{Section: doc.Summaries[n-1], Index: n, Count: count}, nil
}

// summarizeCalls recomputes a summary from the per-call lines of a report.
func summarizeCalls(path string) (loadedSection, error) {
	doc, err := report.ParseFile(path)
	if err != nil {
		return loadedSection{}, err
	}
	reg := registry.New()
	for _, c := range doc.Calls {
		reg.Append(c.Label, c.Seconds)
	}
	sec := report.Section{
		GeneratedAt: fmt.Sprintf("recomputed from %d per-call lines", len(doc.Calls)),
		Rows:        stats.ComputeAll(reg.Snapshot()),
	}
	return loadedSection{Section: sec, Index: 1, Count: 1}, nil
}
