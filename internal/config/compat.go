package config

import (
	"fmt"
	"io"

	"github.com/alexander-akhmetov/perflogger/internal/recorder"
)

// ToSessionConfig converts the unified Config to a recorder.Config.
func (c *Config) ToSessionConfig(errOut io.Writer) (recorder.Config, error) {
	v, err := recorder.ParseVerbosity(c.Verbosity)
	if err != nil {
		return recorder.Config{}, fmt.Errorf("session config: %w", err)
	}
	return recorder.Config{
		ReportFile: c.ReportFile,
		ReportsDir: c.ResolvedReportsDir(),
		FilePrefix: c.FilePrefix,
		Verbosity:  &v,
		ErrOut:     errOut,
	}, nil
}
