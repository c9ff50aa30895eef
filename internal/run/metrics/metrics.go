// Package metrics provides observability for the run module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks run lifecycle counts and analysis latency.
type Metrics struct {
	RunsAnalyzed    prometheus.Counter
	RunsPaid        prometheus.Counter
	RowsPerRun      prometheus.Histogram
	AnalyzeDuration prometheus.Histogram
}

// New creates a new Metrics instance with all run module metrics registered.
func New() *Metrics {
	return &Metrics{
		RunsAnalyzed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_runs_analyzed_total",
			Help: "Total uploads analyzed",
		}),
		RunsPaid: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_runs_paid_total",
			Help: "Total runs marked paid (free tier included)",
		}),
		RowsPerRun: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedupe_run_rows",
			Help:    "Input rows per analyzed upload",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 5000, 10000, 50000},
		}),
		AnalyzeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedupe_analyze_duration_seconds",
			Help:    "End-to-end duration of upload analysis",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
	}
}

// ObserveAnalyze records one completed analysis.
func (m *Metrics) ObserveAnalyze(start time.Time, rows int) {
	m.RunsAnalyzed.Inc()
	m.RowsPerRun.Observe(float64(rows))
	m.AnalyzeDuration.Observe(time.Since(start).Seconds())
}

// IncrementPaid records a run unlocking its downloads.
func (m *Metrics) IncrementPaid() {
	m.RunsPaid.Inc()
}
