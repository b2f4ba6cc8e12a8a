package recorder

import (
	"time"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
)

// Recorder times one labeled region. It is owned by a single goroutine and
// must be stopped on every exit path, usually with defer. A recorder without
// a session measures time but records nothing.
type Recorder struct {
	session   *Session
	label     string
	start     time.Time
	stopped   bool
	verbosity Verbosity
}

// Label returns the recorder's label.
func (r *Recorder) Label() string {
	return r.label
}

// Stopped reports whether the current interval has been recorded.
func (r *Recorder) Stopped() bool {
	return r.stopped
}

// Elapsed returns the time since the last Start.
func (r *Recorder) Elapsed() time.Duration {
	return r.now().Sub(r.start)
}

// Start re-arms the recorder. A running interval is discarded without being recorded.
func (r *Recorder) Start() {
	r.start = r.now()
	r.stopped = false
}

// Stop records the interval since the last Start and returns its duration.
// Only the first call after Start records; later calls return 0.
// A per-call report line is written when verbosity is above VerbosityLow;
// a failed write never drops the sample.
func (r *Recorder) Stop() time.Duration {
	if r.stopped {
		return 0
	}

	end := r.now()
	elapsed := end.Sub(r.start)
	if r.session == nil {
		r.stopped = true
		return elapsed
	}
	secs := elapsed.Seconds()

	r.session.samples.Append(r.label, secs)
	if r.verbosity > VerbosityLow {
		if err := r.session.sink.WriteCall(r.label, r.start, end, secs); err != nil {
			debug.Logf("recorder: %s: per-call line skipped: %v", r.label, err)
		}
	}

	r.stopped = true
	return elapsed
}

func (r *Recorder) now() time.Time {
	if r.session == nil {
		return time.Now()
	}
	return r.session.now()
}
