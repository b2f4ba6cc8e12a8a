// Package stats computes per-label summary statistics over recorded durations.
package stats

import (
	"math"
	"sort"
)

// Summary aggregates the durations (seconds) recorded for one label.
type Summary struct {
	Label  string
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64 // population standard deviation
	Total  float64
}

// Compute summarizes durations for label. The mean is computed first, then
// the squared deviations from it; the variance divides by the sample count.
// An empty slice yields a zero Summary carrying only the label.
func Compute(label string, durations []float64) Summary {
	s := Summary{Label: label, Count: len(durations)}
	if s.Count == 0 {
		return s
	}

	s.Min, s.Max = durations[0], durations[0]
	for _, d := range durations {
		s.Total += d
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
	}
	s.Mean = s.Total / float64(s.Count)

	var sumSq float64
	for _, d := range durations {
		diff := d - s.Mean
		sumSq += diff * diff
	}
	s.StdDev = math.Sqrt(sumSq / float64(s.Count))

	return s
}

// ComputeAll summarizes every label in samples, ordered lexicographically by label.
func ComputeAll(samples map[string][]float64) []Summary {
	labels := make([]string, 0, len(samples))
	for label, durations := range samples {
		if len(durations) == 0 {
			continue
		}
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]Summary, 0, len(labels))
	for _, label := range labels {
		out = append(out, Compute(label, samples[label]))
	}
	return out
}
