package render

import (
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/alexander-akhmetov/perflogger/internal/report"
	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// UnifiedDiff returns a unified diff between the report lines of two summary
// sections. It is empty when the sections render identically.
func UnifiedDiff(oldName, newName string, old, cur []stats.Summary) string {
	return udiff.Unified(oldName, newName, summaryText(old), summaryText(cur))
}

func summaryText(rows []stats.Summary) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(report.SummaryLine(r))
		b.WriteString("\n")
	}
	return b.String()
}
