// Package render turns summary rows into terminal tables, markdown, JSON and
// diffs for the perflogger commands.
package render

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

var summaryHeaders = []string{"LABEL", "CALLS", "MIN", "MAX", "MEAN", "STDDEV", "TOTAL"}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	labelCellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	slowerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)

	fasterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Padding(0, 1)
)

// Duration renders seconds as a Go duration rounded to a readable precision.
func Duration(seconds float64) string {
	d := time.Duration(math.Round(seconds * float64(time.Second)))
	switch {
	case d >= time.Second:
		d = d.Round(time.Millisecond)
	case d >= time.Millisecond:
		d = d.Round(time.Microsecond)
	}
	return d.String()
}

func summaryCells(s stats.Summary) []string {
	return []string{
		s.Label,
		strconv.Itoa(s.Count),
		Duration(s.Min),
		Duration(s.Max),
		Duration(s.Mean),
		Duration(s.StdDev),
		Duration(s.Total),
	}
}

// Table renders summary rows. In TTY mode the table is bordered and colored;
// otherwise it is plain whitespace-aligned text suitable for pipes.
func Table(rows []stats.Summary, isTTY bool) string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, summaryCells(r))
	}
	if !isTTY {
		return plainTable(summaryHeaders, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(summaryHeaders...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelCellStyle
			default:
				return cellStyle
			}
		})
	return t.String()
}

// plainTable aligns columns with spaces and right-aligns everything but the
// first column.
func plainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	var b strings.Builder
	writeRow := func(row []string) {
		for i, c := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(c))
			if i == 0 {
				b.WriteString(c)
				if i < len(row)-1 {
					b.WriteString(pad)
				}
				continue
			}
			b.WriteString(pad)
			b.WriteString(c)
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// Delta compares the mean of one label across two summaries.
type Delta struct {
	Label   string
	OldMean float64
	NewMean float64
	OldOK   bool
	NewOK   bool
}

// Change returns the relative change of the mean, as a fraction of the old
// mean. It is zero when either side is missing or the old mean is zero.
func (d Delta) Change() float64 {
	if !d.OldOK || !d.NewOK || d.OldMean == 0 {
		return 0
	}
	return (d.NewMean - d.OldMean) / d.OldMean
}

// Deltas pairs rows by label. The result is sorted by label and contains
// labels present on either side.
func Deltas(old, cur []stats.Summary) []Delta {
	byLabel := make(map[string]*Delta)
	var order []string
	get := func(label string) *Delta {
		d, ok := byLabel[label]
		if !ok {
			d = &Delta{Label: label}
			byLabel[label] = d
			order = append(order, label)
		}
		return d
	}
	for _, s := range old {
		d := get(s.Label)
		d.OldMean, d.OldOK = s.Mean, true
	}
	for _, s := range cur {
		d := get(s.Label)
		d.NewMean, d.NewOK = s.Mean, true
	}

	slices.Sort(order)
	out := make([]Delta, 0, len(order))
	for _, label := range order {
		out = append(out, *byLabel[label])
	}
	return out
}

func formatChange(d Delta) string {
	switch {
	case !d.OldOK:
		return "new"
	case !d.NewOK:
		return "removed"
	case d.OldMean == 0:
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", d.Change()*100)
}

func deltaCells(d Delta) []string {
	oldMean, newMean := "-", "-"
	if d.OldOK {
		oldMean = Duration(d.OldMean)
	}
	if d.NewOK {
		newMean = Duration(d.NewMean)
	}
	return []string{d.Label, oldMean, newMean, formatChange(d)}
}

// DeltaTable renders mean deltas. Regressions are red and improvements green
// in TTY mode.
func DeltaTable(deltas []Delta, isTTY bool) string {
	headers := []string{"LABEL", "OLD MEAN", "NEW MEAN", "CHANGE"}
	cells := make([][]string, 0, len(deltas))
	for _, d := range deltas {
		cells = append(cells, deltaCells(d))
	}
	if !isTTY {
		return plainTable(headers, cells)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelCellStyle
			case col == 3 && row < len(deltas):
				switch c := deltas[row].Change(); {
				case c > 0:
					return slowerStyle
				case c < 0:
					return fasterStyle
				}
			}
			return cellStyle
		})
	return t.String()
}
