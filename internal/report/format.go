package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// FormatSeconds renders a duration in seconds with six significant digits.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func callRecord(label string, start, end time.Time, seconds float64) []string {
	return []string{
		label,
		strconv.FormatInt(start.UnixMilli(), 10),
		strconv.FormatInt(end.UnixMilli(), 10),
		FormatSeconds(seconds),
	}
}

func summaryRecord(s stats.Summary) []string {
	return []string{
		s.Label,
		strconv.Itoa(s.Count),
		FormatSeconds(s.Min),
		FormatSeconds(s.Max),
		FormatSeconds(s.Mean),
		FormatSeconds(s.StdDev),
		FormatSeconds(s.Total),
	}
}

// SummaryLine renders a summary row the way it appears in a report, without
// CSV quoting.
func SummaryLine(s stats.Summary) string {
	return strings.Join(summaryRecord(s), ",")
}
