package recorder

import (
	"fmt"
	"strings"
)

// Verbosity controls whether a recorder writes a per-call report line.
type Verbosity int

const (
	// VerbosityLow records the sample only.
	VerbosityLow Verbosity = iota
	// VerbosityMid records the sample and writes a per-call line.
	VerbosityMid
	// VerbosityHigh records the sample and writes a per-call line.
	VerbosityHigh
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityLow:
		return "low"
	case VerbosityMid:
		return "mid"
	case VerbosityHigh:
		return "high"
	default:
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
}

// ParseVerbosity parses "low", "mid" or "high" (case-insensitive).
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return VerbosityLow, nil
	case "mid", "medium":
		return VerbosityMid, nil
	case "high":
		return VerbosityHigh, nil
	default:
		return VerbosityHigh, fmt.Errorf("invalid verbosity %q (want low, mid or high)", s)
	}
}
