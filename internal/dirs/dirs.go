// Package dirs resolves the XDG Base Directory locations used by perflogger.
package dirs

import (
	"os"
	"path/filepath"
)

const appName = "perflogger"

// ConfigDir returns the perflogger configuration directory.
// Resolution order: XDG_CONFIG_HOME/perflogger > ~/.config/perflogger.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return homeJoin(".config", appName)
}

// StateDir returns the perflogger state directory.
// Resolution order: PERFLOGGER_STATE_DIR > XDG_STATE_HOME/perflogger > ~/.local/state/perflogger.
func StateDir() string {
	if dir := os.Getenv("PERFLOGGER_STATE_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	return homeJoin(".local", "state", appName)
}

// ReportsDir returns the directory for generated timing reports (StateDir/reports).
func ReportsDir() string {
	return filepath.Join(StateDir(), "reports")
}

func homeJoin(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(append([]string{"."}, elem...)...)
	}
	return filepath.Join(append([]string{home}, elem...)...)
}
