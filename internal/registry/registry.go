// Package registry holds the per-label duration samples recorded by scoped recorders.
package registry

import (
	"sort"
	"sync"
)

// Registry maps a label to the durations (in seconds) recorded for it, in the
// order the recorders were stopped. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	samples map[string][]float64
	total   int
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{samples: make(map[string][]float64)}
}

// Append records one duration for label.
func (r *Registry) Append(label string, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.samples == nil {
		r.samples = make(map[string][]float64)
	}
	r.samples[label] = append(r.samples[label], seconds)
	r.total++
}

// Snapshot returns a point-in-time copy of every label's durations.
// The returned slices are owned by the caller.
func (r *Registry) Snapshot() map[string][]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]float64, len(r.samples))
	for label, durations := range r.samples {
		cp := make([]float64, len(durations))
		copy(cp, durations)
		out[label] = cp
	}
	return out
}

// Len returns the number of samples recorded for label.
func (r *Registry) Len(label string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.samples[label])
}

// Total returns the number of samples across all labels.
func (r *Registry) Total() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// Labels returns the recorded labels in lexicographic order.
func (r *Registry) Labels() []string {
	r.mu.RLock()
	labels := make([]string, 0, len(r.samples))
	for label := range r.samples {
		labels = append(labels, label)
	}
	r.mu.RUnlock()

	sort.Strings(labels)
	return labels
}

// Reset drops every recorded sample. Summaries are cumulative until this is called.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = make(map[string][]float64)
	r.total = 0
}
