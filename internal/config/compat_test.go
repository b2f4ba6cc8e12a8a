package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/perflogger/internal/recorder"
)

func TestToSessionConfig(t *testing.T) {
	cfg := &Config{
		ReportFile: "run.csv",
		ReportsDir: "/reports",
		FilePrefix: "bench_",
		Verbosity:  "mid",
	}
	var diag bytes.Buffer

	sc, err := cfg.ToSessionConfig(&diag)
	require.NoError(t, err)

	assert.Equal(t, "run.csv", sc.ReportFile)
	assert.Equal(t, "/reports", sc.ReportsDir)
	assert.Equal(t, "bench_", sc.FilePrefix)
	require.NotNil(t, sc.Verbosity)
	assert.Equal(t, recorder.VerbosityMid, *sc.Verbosity)
	assert.Same(t, &diag, sc.ErrOut)
}

func TestToSessionConfig_InvalidVerbosity(t *testing.T) {
	cfg := &Config{Verbosity: "shout"}
	_, err := cfg.ToSessionConfig(nil)
	assert.Error(t, err)
}
