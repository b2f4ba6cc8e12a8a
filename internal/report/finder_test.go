package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindReports(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"HD_PerformanceRecorder_Report_2026-10-19_14-03.07.042.csv",
		"HD_PerformanceRecorder_Report_2026-10-20_09-00.00.000.csv",
		"HD_PerformanceRecorder_Report_2026-10-18_23-59.59.999.csv",
		"HD_PerformanceRecorder_Report_garbage.csv",
		"other.csv",
		"HD_PerformanceRecorder_Report_2026-10-19_14-03.07.042.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "HD_PerformanceRecorder_Report_2026-10-21_00-00.00.000.csv"), 0o755))

	files, err := FindReports(dir, "")
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, filepath.Join(dir, names[1]), files[0].Path)
	assert.Equal(t, filepath.Join(dir, names[0]), files[1].Path)
	assert.Equal(t, filepath.Join(dir, names[2]), files[2].Path)
	assert.Equal(t, time.Date(2026, 10, 19, 14, 3, 7, 42_000_000, time.Local), files[1].Timestamp)
	assert.Equal(t, int64(1), files[0].Size)
}

func TestFindReportsCustomPrefix(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bench_2026-10-19_14-03.07.042.csv"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPrefix+"2026-10-19_14-03.07.042.csv"), nil, 0o644))

	files, err := FindReports(dir, "bench_")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bench_2026-10-19_14-03.07.042.csv", filepath.Base(files[0].Path))
}

func TestFindReportsMissingDir(t *testing.T) {
	files, err := FindReports(filepath.Join(t.TempDir(), "nope"), "")
	require.NoError(t, err)
	assert.Empty(t, files)

	latest, err := FindLatest(filepath.Join(t.TempDir(), "nope"), "")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestFindLatestMatchesSinkName(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(Config{Dir: dir, Now: fixedClock})
	require.NoError(t, sink.WriteSummary(nil))

	latest, err := FindLatest(dir, "")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, sink.FileName(), latest.Path)
	assert.True(t, latest.Timestamp.Equal(fixedNow))
}
