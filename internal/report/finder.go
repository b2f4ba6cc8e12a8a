package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// File is a generated report found on disk.
type File struct {
	Path      string
	Timestamp time.Time // parsed from the generated name, local time
	Size      int64
}

// FindReports lists reports with generated names in dir, newest first.
// Files whose name does not carry a generated timestamp are skipped. A missing
// directory yields no reports. An empty prefix means DefaultPrefix.
func FindReports(dir, prefix string) ([]File, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, ok := parseReportName(entry.Name(), prefix)
		if !ok {
			continue
		}
		f := File{Path: filepath.Join(dir, entry.Name()), Timestamp: ts}
		if info, err := entry.Info(); err == nil {
			f.Size = info.Size()
		}
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Timestamp.After(files[j].Timestamp)
	})
	return files, nil
}

// FindLatest returns the newest generated report in dir, or nil when there
// is none.
func FindLatest(dir, prefix string) (*File, error) {
	files, err := FindReports(dir, prefix)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

// parseReportName extracts the timestamp of a name produced by the sink:
// <prefix><stamp>.csv
func parseReportName(name, prefix string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok := strings.CutSuffix(rest, ".csv")
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(fileStampFormat, stamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
