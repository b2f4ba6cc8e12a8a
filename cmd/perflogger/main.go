// Package main provides the CLI entry point for perflogger.
package main

import (
	"os"
	"runtime/debug"

	"github.com/alexander-akhmetov/perflogger/internal/cmd"
)

// Version information set via ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			version, commit, date = versionFromBuildInfo(info)
		}
	}
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// versionFromBuildInfo derives version, commit and date from the module
// version stamped by `go install pkg@version` and the VCS build settings.
func versionFromBuildInfo(info *debug.BuildInfo) (string, string, string) {
	v := "dev"
	if mv := info.Main.Version; mv != "" && mv != "(devel)" {
		v = mv
	}

	var revision, t string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			t = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	c := "unknown"
	if len(revision) >= 7 {
		c = revision[:7]
		if dirty {
			c += "-dirty"
		}
	}
	if t == "" {
		t = "unknown"
	}
	return v, c, t
}
