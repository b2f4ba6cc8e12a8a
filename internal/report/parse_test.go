package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

const sampleReport = `
Function performance analytics by PerformanceRecorder at Mon Oct 19 14:03:07 2026
Function,Start Time,End Time,Duration (sec)
busyLoop,1792404000000,1792404000012,0.0121
sleep,1792404000000,1792404000100,0.1

Function performance summary at Mon Oct 19 14:03:08 2026
Label,NumCalls,MinTime,MaxTime,AvgTime,StdDev,TotalTime
busyLoop,1,0.0121,0.0121,0.0121,0,0.0121
sleep,1,0.1,0.1,0.1,0,0.1
"a,b",2,1,3,2,1,4
busyLoop,1792404000200,1792404000210,0.01

Function performance summary at Mon Oct 19 14:03:09 2026
busyLoop,2,0.01,0.0121,0.01105,0.00105,0.0221
`

func TestParse(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleReport))
	require.NoError(t, err)

	require.Len(t, doc.Calls, 3)
	assert.Equal(t, "busyLoop", doc.Calls[0].Label)
	assert.Equal(t, time.UnixMilli(1792404000000), doc.Calls[0].Start)
	assert.Equal(t, time.UnixMilli(1792404000012), doc.Calls[0].End)
	assert.InDelta(t, 0.0121, doc.Calls[0].Seconds, 1e-12)
	assert.Equal(t, "busyLoop", doc.Calls[2].Label)

	require.Len(t, doc.Summaries, 2)
	assert.Equal(t, "Mon Oct 19 14:03:08 2026", doc.Summaries[0].GeneratedAt)
	require.Len(t, doc.Summaries[0].Rows, 3)
	assert.Equal(t, "a,b", doc.Summaries[0].Rows[2].Label)
	assert.Equal(t, 2, doc.Summaries[0].Rows[2].Count)

	last, err := doc.LastSummary()
	require.NoError(t, err)
	assert.Equal(t, "Mon Oct 19 14:03:09 2026", last.GeneratedAt)
	require.Len(t, last.Rows, 1)
	assert.InDelta(t, 0.01105, last.Rows[0].Mean, 1e-12)
	assert.InDelta(t, 0.0221, last.Rows[0].Total, 1e-12)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "summary row before section",
			input:   "a,1,1,1,1,0,1\n",
			wantErr: "line 1: summary row outside a summary section",
		},
		{
			name:    "bad field count",
			input:   "a,b\n",
			wantErr: "line 1: unexpected field count 2",
		},
		{
			name:    "bad start time",
			input:   "\nf,abc,1,0.1\n",
			wantErr: "line 2: start time",
		},
		{
			name:    "bad count",
			input:   "Function performance summary at now\nf,x,1,1,1,0,1\n",
			wantErr: "line 2: call count",
		},
		{
			name:    "bad float",
			input:   "Function performance summary at now\nf,1,1,oops,1,0,1\n",
			wantErr: "line 2: MaxTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLastSummaryEmpty(t *testing.T) {
	doc, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	_, err = doc.LastSummary()
	assert.ErrorIs(t, err, ErrNoSummary)
}

func TestParseFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	s := NewSink(Config{FileName: path, Now: fixedClock})

	require.NoError(t, s.WriteCall("decode, frame", time.UnixMilli(100), time.UnixMilli(150), 0.05))
	rows := stats.ComputeAll(map[string][]float64{
		"decode, frame": {0.05},
		"encode":        {1, 2, 3},
	})
	require.NoError(t, s.WriteSummary(rows))

	doc, err := ParseFile(path)
	require.NoError(t, err)

	require.Len(t, doc.Calls, 1)
	assert.Equal(t, "decode, frame", doc.Calls[0].Label)

	last, err := doc.LastSummary()
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Format(time.ANSIC), last.GeneratedAt)
	require.Len(t, last.Rows, 2)
	assert.Equal(t, "encode", last.Rows[1].Label)
	assert.Equal(t, 3, last.Rows[1].Count)
	assert.InDelta(t, 0.816497, last.Rows[1].StdDev, 1e-6)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open report")
}

func TestParseMultilineLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	s := NewSink(Config{FileName: path, Now: fixedClock})

	require.NoError(t, s.WriteCall("multi\nline", time.UnixMilli(100), time.UnixMilli(300), 0.2))
	require.NoError(t, s.WriteSummary(stats.ComputeAll(map[string][]float64{"multi\nline": {0.2}})))
	require.NoError(t, s.WriteCall("after", time.UnixMilli(400), time.UnixMilli(500), 0.1))

	doc, err := ParseFile(path)
	require.NoError(t, err)

	require.Len(t, doc.Calls, 2)
	assert.Equal(t, "multi\nline", doc.Calls[0].Label)
	assert.Equal(t, "after", doc.Calls[1].Label)

	last, err := doc.LastSummary()
	require.NoError(t, err)
	require.Len(t, last.Rows, 1)
	assert.Equal(t, "multi\nline", last.Rows[0].Label)
}

func TestParseLabelLooksLikeTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	s := NewSink(Config{FileName: path, Now: fixedClock})

	require.NoError(t, s.WriteSummary(nil))
	for _, label := range []string{
		"Function performance summary at noon",
		"Function performance analytics by PerformanceRecorder at noon",
	} {
		require.NoError(t, s.WriteCall(label, time.UnixMilli(100), time.UnixMilli(200), 0.1))
	}

	doc, err := ParseFile(path)
	require.NoError(t, err)

	assert.Len(t, doc.Summaries, 1)
	require.Len(t, doc.Calls, 2)
	assert.Equal(t, "Function performance summary at noon", doc.Calls[0].Label)
	assert.Equal(t, "Function performance analytics by PerformanceRecorder at noon", doc.Calls[1].Label)
}

func TestParseReportsMalformedCSV(t *testing.T) {
	_, err := Parse(strings.NewReader("\"unterminated,1,2,0.1\n"))
	assert.ErrorContains(t, err, "read report")
}
