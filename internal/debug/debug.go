// Package debug provides debug logging utilities.
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	enabled atomic.Bool

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

func init() {
	enabled.Store(os.Getenv("PERFLOGGER_DEBUG") == "1")
}

// Logf writes a debug message to stderr if PERFLOGGER_DEBUG=1
func Logf(format string, args ...any) {
	if !enabled.Load() {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)

	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, msg)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled overrides PERFLOGGER_DEBUG. The root --debug flag calls it.
func SetEnabled(on bool) {
	enabled.Store(on)
}

// SetOutput redirects debug output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}
