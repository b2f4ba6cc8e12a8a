package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// ErrNoSummary is returned when a report holds no summary section.
var ErrNoSummary = errors.New("report has no summary section")

// CallRecord is one per-call line of a report.
type CallRecord struct {
	Label   string
	Start   time.Time
	End     time.Time
	Seconds float64
}

// Section is one summary block of a report.
type Section struct {
	GeneratedAt string // as written in the section title
	Rows        []stats.Summary
}

// Document is a parsed report file.
type Document struct {
	Calls     []CallRecord
	Summaries []Section
}

// LastSummary returns the most recently written summary section.
func (d *Document) LastSummary() (Section, error) {
	if len(d.Summaries) == 0 {
		return Section{}, ErrNoSummary
	}
	return d.Summaries[len(d.Summaries)-1], nil
}

// ParseFile reads and parses the report at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied report path
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse reads a report. Per-call lines may appear after a summary block
// because both sections are appended independently, so data records are told
// apart by their field count. Section titles are single-field records; a
// label that merely starts like a title is still a 4-field call record.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	var current *Section

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read report: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(fields) == 1 {
			title := fields[0]
			if rest, ok := strings.CutPrefix(title, summarySectionTitle); ok {
				doc.Summaries = append(doc.Summaries, Section{GeneratedAt: strings.TrimSpace(rest)})
				current = &doc.Summaries[len(doc.Summaries)-1]
				continue
			}
			if strings.HasPrefix(title, callSectionTitle) || strings.TrimSpace(title) == "" {
				continue
			}
		}
		if isHeader(fields, callHeader) || isHeader(fields, summaryHeader) {
			continue
		}

		switch len(fields) {
		case len(callHeader):
			rec, err := parseCall(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			doc.Calls = append(doc.Calls, rec)
		case len(summaryHeader):
			if current == nil {
				return nil, fmt.Errorf("line %d: summary row outside a summary section", line)
			}
			row, err := parseSummary(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			current.Rows = append(current.Rows, row)
		default:
			return nil, fmt.Errorf("line %d: unexpected field count %d", line, len(fields))
		}
	}
	return doc, nil
}

func isHeader(fields, header []string) bool {
	if len(fields) != len(header) {
		return false
	}
	for i := range fields {
		if fields[i] != header[i] {
			return false
		}
	}
	return true
}

func parseCall(fields []string) (CallRecord, error) {
	start, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return CallRecord{}, fmt.Errorf("start time: %w", err)
	}
	end, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return CallRecord{}, fmt.Errorf("end time: %w", err)
	}
	secs, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return CallRecord{}, fmt.Errorf("duration: %w", err)
	}
	return CallRecord{
		Label:   fields[0],
		Start:   time.UnixMilli(start),
		End:     time.UnixMilli(end),
		Seconds: secs,
	}, nil
}

func parseSummary(fields []string) (stats.Summary, error) {
	count, err := strconv.Atoi(fields[1])
	if err != nil {
		return stats.Summary{}, fmt.Errorf("call count: %w", err)
	}

	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(fields[i+2], 64)
		if err != nil {
			return stats.Summary{}, fmt.Errorf("%s: %w", summaryHeader[i+2], err)
		}
		vals[i] = v
	}

	return stats.Summary{
		Label:  fields[0],
		Count:  count,
		Min:    vals[0],
		Max:    vals[1],
		Mean:   vals[2],
		StdDev: vals[3],
		Total:  vals[4],
	}, nil
}
