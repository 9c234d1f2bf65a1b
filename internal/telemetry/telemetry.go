// Package telemetry exposes matrix-wide run statistics as Prometheus
// metrics, dumped to a text-exposition file at the end of a run-matrix
// invocation. The core run engine never imports this package: it has no
// business doing I/O mid-run. run-matrix is its only caller; it feeds
// the per-outcome run counts from the matrix driver's Metrics and
// observes every run with a zero duration, since no per-run timing is
// measured.
package telemetry

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Registry owns one Prometheus registry for a run-matrix invocation.
type Registry struct {
	reg          *prometheus.Registry
	runsTotal    *prometheus.CounterVec
	runDuration  prometheus.Histogram
}

// NewRegistry constructs and registers oracle_runs_total{outcome} and
// oracle_run_duration_seconds.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_runs_total",
		Help: "Total experiment runs, partitioned by outcome.",
	}, []string{"outcome"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "oracle_run_duration_seconds",
		Help:    "Wall-clock duration of a single run.",
		Buckets: prometheus.DefBuckets,
	})

	reg.MustRegister(runsTotal, runDuration)

	return &Registry{reg: reg, runsTotal: runsTotal, runDuration: runDuration}
}

// ObserveRun records one run's outcome and duration.
func (r *Registry) ObserveRun(outcome string, duration time.Duration) {
	r.runsTotal.WithLabelValues(outcome).Inc()
	r.runDuration.Observe(duration.Seconds())
}

// DumpToFile writes the registry's current state as text exposition
// format to path, overwriting any existing file.
func (r *Registry) DumpToFile(path string) error {
	families, err := r.reg.Gather()
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.FmtText)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
