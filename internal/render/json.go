package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// ErrInvalidJSON is returned by ParseJSON for input that is not a JSON
// summary export.
var ErrInvalidJSON = errors.New("invalid summary JSON")

// JSON encodes a summary section as an indented JSON document:
//
//	{"generated_at": "...", "source": "...", "labels": [{"label": ..., "count": ..., ...}]}
//
// Durations are in seconds.
func JSON(generatedAt, source string, rows []stats.Summary) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "generated_at", generatedAt); err != nil {
		return nil, fmt.Errorf("set generated_at: %w", err)
	}
	if source != "" {
		if doc, err = sjson.SetBytes(doc, "source", source); err != nil {
			return nil, fmt.Errorf("set source: %w", err)
		}
	}
	if doc, err = sjson.SetRawBytes(doc, "labels", []byte(`[]`)); err != nil {
		return nil, fmt.Errorf("set labels: %w", err)
	}
	for i, r := range rows {
		prefix := "labels." + strconv.Itoa(i) + "."
		fields := []struct {
			key string
			val any
		}{
			{"label", r.Label},
			{"count", r.Count},
			{"min", r.Min},
			{"max", r.Max},
			{"mean", r.Mean},
			{"stddev", r.StdDev},
			{"total", r.Total},
		}
		for _, f := range fields {
			if doc, err = sjson.SetBytes(doc, prefix+f.key, f.val); err != nil {
				return nil, fmt.Errorf("set %s%s: %w", prefix, f.key, err)
			}
		}
	}
	return pretty.Pretty(doc), nil
}

// ParseJSON reads a document produced by JSON.
func ParseJSON(data []byte) (generatedAt string, rows []stats.Summary, err error) {
	if !gjson.ValidBytes(data) {
		return "", nil, ErrInvalidJSON
	}
	labels := gjson.GetBytes(data, "labels")
	if !labels.IsArray() {
		return "", nil, fmt.Errorf("%w: missing labels array", ErrInvalidJSON)
	}

	labels.ForEach(func(_, v gjson.Result) bool {
		label := v.Get("label")
		if label.Type != gjson.String {
			err = fmt.Errorf("%w: entry without label", ErrInvalidJSON)
			return false
		}
		rows = append(rows, stats.Summary{
			Label:  label.String(),
			Count:  int(v.Get("count").Int()),
			Min:    v.Get("min").Float(),
			Max:    v.Get("max").Float(),
			Mean:   v.Get("mean").Float(),
			StdDev: v.Get("stddev").Float(),
			Total:  v.Get("total").Float(),
		})
		return true
	})
	if err != nil {
		return "", nil, err
	}
	return gjson.GetBytes(data, "generated_at").String(), rows, nil
}

// LooksLikeJSON reports whether data starts like a JSON object.
func LooksLikeJSON(data []byte) bool {
	for _, c := range data {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		}
		return false
	}
	return false
}
