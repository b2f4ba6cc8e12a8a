// Package config provides unified configuration management for perflogger.
// Configuration is loaded from multiple sources with the following precedence:
// embedded defaults → global file → env vars → local file → CLI flags
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/alexander-akhmetov/perflogger/internal/debug"
	"github.com/alexander-akhmetov/perflogger/internal/dirs"
	"github.com/alexander-akhmetov/perflogger/internal/recorder"
)

//go:embed defaults/config.yaml
var defaultsFS embed.FS

// WorkloadConfig holds settings for the built-in workloads run by `perflogger run`.
type WorkloadConfig struct {
	Workers    int `yaml:"workers"`    // Concurrent goroutines
	Iterations int `yaml:"iterations"` // Iterations per goroutine
	Spin       int `yaml:"spin"`       // Busy-loop length for the CPU workload

	// Set tracking for merge
	WorkersSet    bool `yaml:"-"`
	IterationsSet bool `yaml:"-"`
	SpinSet       bool `yaml:"-"`
}

// Config holds all configuration settings for perflogger.
// Fields ending in *Set track whether that field was explicitly set in config,
// so a local file can override a global value with zero.
type Config struct {
	// Report sink settings
	ReportFile string `yaml:"report_file"` // Explicit report path; empty generates a name
	ReportsDir string `yaml:"reports_dir"` // Directory for generated report names
	FilePrefix string `yaml:"file_prefix"` // Prefix for generated report names

	// Default recorder verbosity: low, mid or high
	Verbosity string `yaml:"verbosity"`

	Workload WorkloadConfig `yaml:"workload"`

	// Private: track where config was loaded from
	configDir string
	localDir  string
	sources   []string // ordered list of sources that contributed to this config
}

// Sources returns the ordered list of sources that contributed to this config.
func (c *Config) Sources() []string {
	return c.sources
}

// LocalDir returns the local project config directory if one was detected.
func (c *Config) LocalDir() string {
	return c.localDir
}

// ConfigDir returns the global config directory.
func (c *Config) ConfigDir() string {
	return c.configDir
}

// ResolvedReportsDir returns reports_dir, falling back to the XDG state location.
func (c *Config) ResolvedReportsDir() string {
	if c.ReportsDir != "" {
		return c.ReportsDir
	}
	return dirs.ReportsDir()
}

// Load loads all configuration from the default locations.
// It auto-detects .perflogger/ in the current working directory for local overrides.
func Load() (*Config, error) {
	globalDir := DefaultConfigDir()

	var localDir string
	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, ".perflogger")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			localDir = candidate
		}
	}

	return LoadWithDirs(globalDir, localDir)
}

// LoadWithDirs loads configuration with explicit global and local directories.
// Local config overrides global config per-field. If localDir is empty, only
// global config is used.
func LoadWithDirs(globalDir, localDir string) (*Config, error) {
	if err := InstallDefaults(globalDir); err != nil {
		return nil, fmt.Errorf("install defaults: %w", err)
	}

	// 1. Start with embedded defaults
	cfg, err := loadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded defaults: %w", err)
	}
	cfg.sources = append(cfg.sources, "embedded")

	// 2. Merge global config
	globalPath := filepath.Join(globalDir, "config.yaml")
	if globalCfg, err := loadFile(globalPath); err == nil {
		cfg.mergeFrom(globalCfg)
		cfg.sources = append(cfg.sources, globalPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("load global config: %w", err)
	}

	// 3. Apply environment variables (between global and local)
	cfg.applyEnv()

	// 4. Merge local config (highest file precedence)
	if localDir != "" {
		localPath := filepath.Join(localDir, "config.yaml")
		if localCfg, err := loadFile(localPath); err == nil {
			cfg.mergeFrom(localCfg)
			cfg.sources = append(cfg.sources, localPath)
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load local config: %w", err)
		}
	}

	cfg.configDir = globalDir
	cfg.localDir = localDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	debug.Logf("config: loaded from %v", cfg.sources)
	return cfg, nil
}

// DefaultConfigDir returns the default global configuration directory path.
func DefaultConfigDir() string {
	return dirs.ConfigDir()
}

// InstallDefaults creates the config directory and installs the default config if missing.
func InstallDefaults(configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		data, err := defaultsFS.ReadFile("defaults/config.yaml")
		if err != nil {
			return fmt.Errorf("read embedded config: %w", err)
		}
		if err := os.WriteFile(configPath, data, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	}

	return nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if _, err := recorder.ParseVerbosity(c.Verbosity); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Workload.Workers < 1 {
		return fmt.Errorf("config: workload.workers must be positive, got %d", c.Workload.Workers)
	}
	if c.Workload.Iterations < 1 {
		return fmt.Errorf("config: workload.iterations must be positive, got %d", c.Workload.Iterations)
	}
	if c.Workload.Spin < 0 {
		return fmt.Errorf("config: workload.spin must not be negative, got %d", c.Workload.Spin)
	}
	return nil
}

// loadEmbedded loads config from the embedded defaults.
func loadEmbedded() (*Config, error) {
	data, err := defaultsFS.ReadFile("defaults/config.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded defaults: %w", err)
	}
	return parseConfig(data)
}

// loadFile loads config from a file path.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user's config file
	if err != nil {
		return nil, err
	}
	return parseConfigWithTracking(data)
}

// parseConfig parses YAML config data into a Config struct.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// parseConfigWithTracking parses YAML config and tracks which fields were set.
func parseConfigWithTracking(data []byte) (*Config, error) {
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if workload, ok := raw["workload"].(map[string]any); ok {
		if _, ok := workload["workers"]; ok {
			cfg.Workload.WorkersSet = true
		}
		if _, ok := workload["iterations"]; ok {
			cfg.Workload.IterationsSet = true
		}
		if _, ok := workload["spin"]; ok {
			cfg.Workload.SpinSet = true
		}
	}

	return cfg, nil
}

// applyEnv applies environment variables to the config.
// Env vars sit between global and local config in precedence.
func (c *Config) applyEnv() {
	if v := os.Getenv("PERFLOGGER_REPORT_FILE"); v != "" {
		c.ReportFile = v
		c.sources = append(c.sources, "env:PERFLOGGER_REPORT_FILE")
	}

	if v := os.Getenv("PERFLOGGER_REPORTS_DIR"); v != "" {
		c.ReportsDir = v
		c.sources = append(c.sources, "env:PERFLOGGER_REPORTS_DIR")
	}

	if v := os.Getenv("PERFLOGGER_FILE_PREFIX"); v != "" {
		c.FilePrefix = v
		c.sources = append(c.sources, "env:PERFLOGGER_FILE_PREFIX")
	}

	if v := os.Getenv("PERFLOGGER_VERBOSITY"); v != "" {
		if _, err := recorder.ParseVerbosity(v); err == nil {
			c.Verbosity = v
			c.sources = append(c.sources, "env:PERFLOGGER_VERBOSITY")
		} else {
			debug.Logf("config: ignoring PERFLOGGER_VERBOSITY: %v", err)
		}
	}

	if v := os.Getenv("PERFLOGGER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workload.Workers = n
			c.Workload.WorkersSet = true
			c.sources = append(c.sources, "env:PERFLOGGER_WORKERS")
		}
	}

	if v := os.Getenv("PERFLOGGER_ITERATIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Workload.Iterations = n
			c.Workload.IterationsSet = true
			c.sources = append(c.sources, "env:PERFLOGGER_ITERATIONS")
		}
	}
}

// mergeFrom merges non-empty/set values from src into c.
func (c *Config) mergeFrom(src *Config) {
	if src.ReportFile != "" {
		c.ReportFile = src.ReportFile
	}
	if src.ReportsDir != "" {
		c.ReportsDir = src.ReportsDir
	}
	if src.FilePrefix != "" {
		c.FilePrefix = src.FilePrefix
	}
	if src.Verbosity != "" {
		c.Verbosity = src.Verbosity
	}

	if src.Workload.WorkersSet {
		c.Workload.Workers = src.Workload.Workers
		c.Workload.WorkersSet = true
	}
	if src.Workload.IterationsSet {
		c.Workload.Iterations = src.Workload.Iterations
		c.Workload.IterationsSet = true
	}
	if src.Workload.SpinSet {
		c.Workload.Spin = src.Workload.Spin
		c.Workload.SpinSet = true
	}
}

// ApplyCLIFlags applies CLI flag overrides to the config.
// CLI flags have the highest precedence; empty and zero values are ignored.
func (c *Config) ApplyCLIFlags(reportFile, verbosity string, workers, iterations int) {
	if reportFile != "" {
		c.ReportFile = reportFile
		c.sources = append(c.sources, "cli:report")
	}
	if verbosity != "" {
		c.Verbosity = verbosity
		c.sources = append(c.sources, "cli:verbosity")
	}
	if workers > 0 {
		c.Workload.Workers = workers
		c.Workload.WorkersSet = true
		c.sources = append(c.sources, "cli:workers")
	}
	if iterations > 0 {
		c.Workload.Iterations = iterations
		c.Workload.IterationsSet = true
		c.sources = append(c.sources, "cli:iterations")
	}
}
