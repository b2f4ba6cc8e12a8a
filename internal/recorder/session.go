// Package recorder times labeled code regions and aggregates the results.
//
// A Session owns the sample registry and the report sink. Recorders are
// created from a session, bracket one region each, and record at most one
// sample per armed interval:
//
//	rec := sess.Start("decode")
//	defer rec.Stop()
//
// Summaries are cumulative over the session lifetime unless Reset is called.
package recorder

import (
	"io"
	"sync"
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
	"github.com/alexander-akhmetov/perflogger/internal/registry"
	"github.com/alexander-akhmetov/perflogger/internal/report"
	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// Config holds session configuration. The zero value is usable.
type Config struct {
	ReportFile string           // Report path; generated on first write when empty
	ReportsDir string           // Directory for generated report names
	FilePrefix string           // Prefix for generated report names
	Verbosity  *Verbosity       // Default recorder verbosity (nil: VerbosityHigh)
	ErrOut     io.Writer        // Diagnostic channel for report failures (default: os.Stderr)
	Clock      func() time.Time // Time source (default: time.Now)
}

// Session aggregates samples from any number of concurrently used recorders.
type Session struct {
	samples   *registry.Registry
	sink      *report.Sink
	verbosity Verbosity
	now       func() time.Time

	// summaryMu orders summary sections in the file the same way as their
	// snapshots.
	summaryMu sync.Mutex
}

// NewSession creates a session with an empty registry.
func NewSession(cfg Config) *Session {
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}

	verbosity := VerbosityHigh
	if cfg.Verbosity != nil {
		verbosity = *cfg.Verbosity
	}

	return &Session{
		samples: registry.New(),
		sink: report.NewSink(report.Config{
			FileName: cfg.ReportFile,
			Dir:      cfg.ReportsDir,
			Prefix:   cfg.FilePrefix,
			ErrOut:   cfg.ErrOut,
			Now:      now,
		}),
		verbosity: verbosity,
		now:       now,
	}
}

// Start creates a running recorder with the session's default verbosity.
func (s *Session) Start(label string) *Recorder {
	return s.StartWithVerbosity(label, s.verbosity)
}

// StartWithVerbosity creates a running recorder with an explicit verbosity.
func (s *Session) StartWithVerbosity(label string, v Verbosity) *Recorder {
	return &Recorder{
		session:   s,
		label:     label,
		start:     s.now(),
		verbosity: v,
	}
}

// Time runs fn inside a recorder. The sample is recorded even if fn panics.
func (s *Session) Time(label string, fn func()) {
	defer s.Start(label).Stop()
	fn()
}

// TimeErr runs fn inside a recorder and returns its error.
func (s *Session) TimeErr(label string, fn func() error) error {
	defer s.Start(label).Stop()
	return fn()
}

// SetFileName redirects subsequent report writes to name.
func (s *Session) SetFileName(name string) {
	s.sink.SetFileName(name)
}

// FileName returns the report path, generating the default name if none was set.
func (s *Session) FileName() string {
	return s.sink.FileName()
}

// Registry exposes the session's samples.
func (s *Session) Registry() *registry.Registry {
	return s.samples
}

// Summaries computes per-label statistics over a snapshot of the registry.
func (s *Session) Summaries() []stats.Summary {
	return stats.ComputeAll(s.samples.Snapshot())
}

// GenerateSummary appends a summary block for every recorded label to the report.
// An empty registry produces the section header only.
func (s *Session) GenerateSummary() error {
	s.summaryMu.Lock()
	defer s.summaryMu.Unlock()

	rows := s.Summaries()
	if debug.Enabled() {
		debug.Logf("recorder: writing summary for %v", s.samples.Labels())
	}
	return s.sink.WriteSummary(rows)
}

// Reset clears all recorded samples. Report headers already written stay written.
func (s *Session) Reset() {
	s.samples.Reset()
}
