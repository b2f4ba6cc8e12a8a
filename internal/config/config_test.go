package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PERFLOGGER_REPORT_FILE",
		"PERFLOGGER_REPORTS_DIR",
		"PERFLOGGER_FILE_PREFIX",
		"PERFLOGGER_VERBOSITY",
		"PERFLOGGER_WORKERS",
		"PERFLOGGER_ITERATIONS",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
}

func TestLoadEmbedded(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.ReportFile)
	assert.Equal(t, "", cfg.ReportsDir)
	assert.Equal(t, "HD_PerformanceRecorder_Report_", cfg.FilePrefix)
	assert.Equal(t, "high", cfg.Verbosity)
	assert.Equal(t, 4, cfg.Workload.Workers)
	assert.Equal(t, 25, cfg.Workload.Iterations)
	assert.Equal(t, 1000000, cfg.Workload.Spin)
	require.NoError(t, cfg.Validate())
}

func TestLoadWithDirs_InstallsDefaults(t *testing.T) {
	clearEnv(t)
	globalDir := filepath.Join(t.TempDir(), "perflogger")

	cfg, err := LoadWithDirs(globalDir, "")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(globalDir, "config.yaml"))
	assert.Equal(t, globalDir, cfg.ConfigDir())
	assert.Equal(t, "", cfg.LocalDir())
	assert.Equal(t, "high", cfg.Verbosity)
}

func TestLoadWithDirs_GlobalOnly(t *testing.T) {
	clearEnv(t)
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, "verbosity: low\nworkload:\n  workers: 8\n")

	cfg, err := LoadWithDirs(tmpDir, "")
	require.NoError(t, err)

	assert.Equal(t, "low", cfg.Verbosity)
	assert.Equal(t, 8, cfg.Workload.Workers)
	assert.Equal(t, 25, cfg.Workload.Iterations) // from embedded default
}

func TestLoadWithDirs_LocalOverridesGlobal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "report_file: global.csv\nworkload:\n  workers: 8\n  iterations: 10\n")
	writeConfig(t, localDir, "report_file: local.csv\nworkload:\n  workers: 2\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, "local.csv", cfg.ReportFile) // from local
	assert.Equal(t, 2, cfg.Workload.Workers)     // from local
	assert.Equal(t, 10, cfg.Workload.Iterations) // from global
	assert.Equal(t, 1000000, cfg.Workload.Spin)  // from embedded default
	assert.Equal(t, localDir, cfg.LocalDir())
}

func TestLocalZeroSpinOverridesGlobal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "workload:\n  spin: 5000\n")
	writeConfig(t, localDir, "workload:\n  spin: 0\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Workload.Spin)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERFLOGGER_REPORT_FILE", "/tmp/env.csv")
	t.Setenv("PERFLOGGER_REPORTS_DIR", "/tmp/reports")
	t.Setenv("PERFLOGGER_FILE_PREFIX", "bench_")
	t.Setenv("PERFLOGGER_VERBOSITY", "mid")
	t.Setenv("PERFLOGGER_WORKERS", "16")
	t.Setenv("PERFLOGGER_ITERATIONS", "3")

	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.applyEnv()

	assert.Equal(t, "/tmp/env.csv", cfg.ReportFile)
	assert.Equal(t, "/tmp/reports", cfg.ReportsDir)
	assert.Equal(t, "bench_", cfg.FilePrefix)
	assert.Equal(t, "mid", cfg.Verbosity)
	assert.Equal(t, 16, cfg.Workload.Workers)
	assert.Equal(t, 3, cfg.Workload.Iterations)
	assert.True(t, cfg.Workload.WorkersSet)
	assert.True(t, cfg.Workload.IterationsSet)
	assert.Contains(t, cfg.Sources(), "env:PERFLOGGER_VERBOSITY")
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PERFLOGGER_VERBOSITY", "deafening")
	t.Setenv("PERFLOGGER_WORKERS", "many")
	t.Setenv("PERFLOGGER_ITERATIONS", "-4")

	cfg, err := loadEmbedded()
	require.NoError(t, err)
	cfg.applyEnv()

	assert.Equal(t, "high", cfg.Verbosity)
	assert.Equal(t, 4, cfg.Workload.Workers)
	assert.Equal(t, 25, cfg.Workload.Iterations)
	assert.Empty(t, cfg.Sources())
}

func TestEnvBetweenGlobalAndLocal(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "workload:\n  workers: 8\n  iterations: 10\n")
	t.Setenv("PERFLOGGER_WORKERS", "6")
	t.Setenv("PERFLOGGER_ITERATIONS", "7")
	writeConfig(t, localDir, "workload:\n  iterations: 2\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Workload.Workers)    // env over global
	assert.Equal(t, 2, cfg.Workload.Iterations) // local over env
}

func TestLoadWithDirs_InvalidFile(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "workload: [oops\n")

	_, err := LoadWithDirs(globalDir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load global config")
}

func TestLoadWithDirs_InvalidVerbosity(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	writeConfig(t, globalDir, "verbosity: chatty\n")

	_, err := LoadWithDirs(globalDir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid verbosity "chatty"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero workers", func(c *Config) { c.Workload.Workers = 0 }, "workload.workers"},
		{"zero iterations", func(c *Config) { c.Workload.Iterations = 0 }, "workload.iterations"},
		{"negative spin", func(c *Config) { c.Workload.Spin = -1 }, "workload.spin"},
		{"bad verbosity", func(c *Config) { c.Verbosity = "x" }, "invalid verbosity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadEmbedded()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyCLIFlags(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags("out.csv", "low", 3, 9)

	assert.Equal(t, "out.csv", cfg.ReportFile)
	assert.Equal(t, "low", cfg.Verbosity)
	assert.Equal(t, 3, cfg.Workload.Workers)
	assert.Equal(t, 9, cfg.Workload.Iterations)
	assert.Equal(t, []string{"cli:report", "cli:verbosity", "cli:workers", "cli:iterations"}, cfg.Sources())
}

func TestApplyCLIFlagsZeroNoOverride(t *testing.T) {
	cfg, err := loadEmbedded()
	require.NoError(t, err)

	cfg.ApplyCLIFlags("", "", 0, 0)

	assert.Equal(t, "", cfg.ReportFile)
	assert.Equal(t, "high", cfg.Verbosity)
	assert.Equal(t, 4, cfg.Workload.Workers)
	assert.Equal(t, 25, cfg.Workload.Iterations)
	assert.Empty(t, cfg.Sources())
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	dir := DefaultConfigDir()
	assert.Contains(t, dir, "perflogger")
	assert.Contains(t, dir, ".config")
}

func TestResolvedReportsDir(t *testing.T) {
	t.Setenv("PERFLOGGER_STATE_DIR", "/state")

	cfg := &Config{}
	assert.Equal(t, filepath.Join("/state", "reports"), cfg.ResolvedReportsDir())

	cfg.ReportsDir = "/explicit"
	assert.Equal(t, "/explicit", cfg.ResolvedReportsDir())
}

func TestSources(t *testing.T) {
	clearEnv(t)
	globalDir := t.TempDir()
	localDir := t.TempDir()

	writeConfig(t, globalDir, "verbosity: mid\n")
	writeConfig(t, localDir, "file_prefix: local_\n")

	cfg, err := LoadWithDirs(globalDir, localDir)
	require.NoError(t, err)

	sources := cfg.Sources()
	assert.Equal(t, "embedded", sources[0])
	assert.Contains(t, sources, filepath.Join(globalDir, "config.yaml"))
	assert.Contains(t, sources, filepath.Join(localDir, "config.yaml"))
	assert.Equal(t, "local_", cfg.FilePrefix)
}

func TestParseConfigWithTracking(t *testing.T) {
	cfg, err := parseConfigWithTracking([]byte("workload:\n  workers: 2\n"))
	require.NoError(t, err)

	assert.True(t, cfg.Workload.WorkersSet)
	assert.False(t, cfg.Workload.IterationsSet) // not set in YAML
	assert.False(t, cfg.Workload.SpinSet)       // not set in YAML
}
