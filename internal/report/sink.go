// Package report writes and reads the append-only delimited timing report.
// A report holds two independent sections: per-call lines written as
// recorders stop, and summary blocks written on demand.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// DefaultPrefix is prepended to generated report file names.
const DefaultPrefix = "HD_PerformanceRecorder_Report_"

// fileStampFormat gives generated names millisecond resolution.
const fileStampFormat = "2006-01-02_15-04.05.000"

const (
	callSectionTitle    = "Function performance analytics by PerformanceRecorder at "
	summarySectionTitle = "Function performance summary at "
)

var (
	callHeader    = []string{"Function", "Start Time", "End Time", "Duration (sec)"}
	summaryHeader = []string{"Label", "NumCalls", "MinTime", "MaxTime", "AvgTime", "StdDev", "TotalTime"}
)

// ErrSinkOpen is returned when the report file cannot be opened for append.
var ErrSinkOpen = errors.New("open report file")

// Config holds sink configuration.
type Config struct {
	FileName string           // Explicit report path; generated on first write when empty
	Dir      string           // Directory for generated names (default: current directory)
	Prefix   string           // Prefix for generated names (default: DefaultPrefix)
	ErrOut   io.Writer        // Diagnostic channel for open failures (default: os.Stderr)
	Now      func() time.Time // Wall clock (default: time.Now)
}

// Sink appends report lines to a file, opening and closing it for every write.
// It is safe for concurrent use.
type Sink struct {
	mu                   sync.Mutex
	fileName             string
	dir                  string
	prefix               string
	callHeaderWritten    bool
	summaryHeaderWritten bool
	errOut               io.Writer
	now                  func() time.Time
}

// NewSink creates a sink. No file is touched until the first write.
func NewSink(cfg Config) *Sink {
	s := &Sink{
		fileName: cfg.FileName,
		dir:      cfg.Dir,
		prefix:   cfg.Prefix,
		errOut:   cfg.ErrOut,
		now:      cfg.Now,
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.errOut == nil {
		s.errOut = os.Stderr
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// SetFileName redirects subsequent writes to name.
func (s *Sink) SetFileName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileName = name
}

// FileName returns the report path, generating the default name if none was set.
func (s *Sink) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resolveLocked()
}

// WriteCall appends one per-call line, preceded by the section header on the
// first successful write.
func (s *Sink) WriteCall(label string, start, end time.Time, seconds float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(func(w io.Writer, cw *csv.Writer) error {
		if !s.callHeaderWritten {
			if _, err := fmt.Fprintf(w, "\n%s%s\n", callSectionTitle, s.now().Format(time.ANSIC)); err != nil {
				return err
			}
			if err := writeRecord(cw, callHeader); err != nil {
				return err
			}
			s.callHeaderWritten = true
		}
		return writeRecord(cw, callRecord(label, start, end, seconds))
	})
}

// WriteSummary appends a summary block: a generation timestamp line, the
// column header the first time only, then one row per summary in the given order.
func (s *Sink) WriteSummary(rows []stats.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.appendLocked(func(w io.Writer, cw *csv.Writer) error {
		if _, err := fmt.Fprintf(w, "\n%s%s\n", summarySectionTitle, s.now().Format(time.ANSIC)); err != nil {
			return err
		}
		if !s.summaryHeaderWritten {
			if err := writeRecord(cw, summaryHeader); err != nil {
				return err
			}
			s.summaryHeaderWritten = true
		}
		for _, row := range rows {
			if err := writeRecord(cw, summaryRecord(row)); err != nil {
				return err
			}
		}
		return nil
	})
}

// appendLocked opens the report for append, runs write and closes the file.
// An open failure is reported on the diagnostic channel and returned wrapped in ErrSinkOpen.
func (s *Sink) appendLocked(write func(w io.Writer, cw *csv.Writer) error) error {
	name := s.resolveLocked()

	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec // caller-chosen report path
	if err != nil {
		fmt.Fprintf(s.errOut, "Unable to open file: %s\n", name)
		debug.Logf("report: open %s: %v", name, err)
		return fmt.Errorf("%w %s: %w", ErrSinkOpen, name, err)
	}

	writeErr := write(f, csv.NewWriter(f))
	closeErr := f.Close()
	if writeErr != nil {
		return fmt.Errorf("write report %s: %w", name, writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close report %s: %w", name, closeErr)
	}
	return nil
}

func (s *Sink) resolveLocked() string {
	if s.fileName != "" {
		return s.fileName
	}

	name := s.prefix + s.now().Format(fileStampFormat) + ".csv"
	if s.dir != "" {
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			debug.Logf("report: create dir %s: %v", s.dir, err)
		}
		name = filepath.Join(s.dir, name)
	}
	s.fileName = name
	debug.Logf("report: using generated file name %s", name)
	return name
}

func writeRecord(cw *csv.Writer, record []string) error {
	if err := cw.Write(record); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
