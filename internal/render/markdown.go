package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// Markdown renders a summary section as a markdown document with a heading
// and a pipe table.
func Markdown(title string, rows []stats.Summary) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "## %s\n\n", title)
	}
	if len(rows) == 0 {
		b.WriteString("_No samples recorded._\n")
		return b.String()
	}

	b.WriteString("| " + strings.Join(summaryHeaders, " | ") + " |\n")
	b.WriteString("|---|" + strings.Repeat("---:|", len(summaryHeaders)-1) + "\n")
	for _, r := range rows {
		cells := summaryCells(r)
		cells[0] = escapeCell(cells[0])
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n" + strconv.Itoa(totalCalls(rows)) + " calls across " +
		strconv.Itoa(len(rows)) + " labels.\n")
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func totalCalls(rows []stats.Summary) int {
	n := 0
	for _, r := range rows {
		n += r.Count
	}
	return n
}

// Glamour renders markdown for a terminal of the given width. A width <= 0
// defaults to 80.
func Glamour(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(width-6, 40)),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
