// Package export writes registry aggregates in the Prometheus text
// exposition format, for node_exporter's textfile collector.
package export

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexander-akhmetov/perflogger/internal/registry"
	"github.com/alexander-akhmetov/perflogger/internal/stats"
)

// DefaultNamespace prefixes every exported metric name.
const DefaultNamespace = "perflogger"

// Exporter holds one metric set per export. Each Exporter owns a private
// registry, so several can coexist in one process.
type Exporter struct {
	reg *prometheus.Registry

	duration *prometheus.SummaryVec
	calls    *prometheus.CounterVec
	min      *prometheus.GaugeVec
	max      *prometheus.GaugeVec
	stddev   *prometheus.GaugeVec
}

// New creates an Exporter. An empty namespace uses DefaultNamespace.
func New(namespace string) *Exporter {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	labels := []string{"label"}

	e := &Exporter{
		reg: prometheus.NewRegistry(),
		duration: prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "region_duration_seconds",
				Help:       "Wall-clock duration of recorded code regions.",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
			labels,
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "region_calls_total",
				Help:      "Number of recorded invocations per region.",
			},
			labels,
		),
		min: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "region_duration_min_seconds",
				Help:      "Shortest recorded duration per region.",
			},
			labels,
		),
		max: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "region_duration_max_seconds",
				Help:      "Longest recorded duration per region.",
			},
			labels,
		),
		stddev: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "region_duration_stddev_seconds",
				Help:      "Population standard deviation of durations per region.",
			},
			labels,
		),
	}

	e.reg.MustRegister(e.duration, e.calls, e.min, e.max, e.stddev)
	return e
}

// Observe loads a registry snapshot into the metric set.
func (e *Exporter) Observe(samples map[string][]float64) {
	for label, durations := range samples {
		if len(durations) == 0 {
			continue
		}
		obs := e.duration.WithLabelValues(label)
		for _, d := range durations {
			obs.Observe(d)
		}
		s := stats.Compute(label, durations)
		e.calls.WithLabelValues(label).Add(float64(s.Count))
		e.min.WithLabelValues(label).Set(s.Min)
		e.max.WithLabelValues(label).Set(s.Max)
		e.stddev.WithLabelValues(label).Set(s.StdDev)
	}
}

// Gatherer exposes the underlying registry.
func (e *Exporter) Gatherer() prometheus.Gatherer {
	return e.reg
}

// WriteTextfile writes the metric set to path. The file is written to a
// temporary name and renamed, so a scraping collector never reads a partial
// file.
func (e *Exporter) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, e.reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// WriteRegistry snapshots r and writes it to path in one step.
func WriteRegistry(path string, r *registry.Registry) error {
	e := New("")
	e.Observe(r.Snapshot())
	return e.WriteTextfile(path)
}
