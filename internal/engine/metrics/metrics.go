// Package metrics provides observability for the deduplication engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observable is the slice of an engine result the metrics layer needs. It
// avoids a dependency cycle with the engine package.
type Observable interface {
	Counts() (rows, merged, flagged, warnings int)
}

// Metrics holds the engine's prometheus instruments.
type Metrics struct {
	RunsTotal     prometheus.Counter
	RowsTotal     prometheus.Counter
	RemovedTotal  prometheus.Counter
	FlaggedTotal  prometheus.Counter
	WarningsTotal prometheus.Counter
	RunDuration   prometheus.Histogram
}

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		RunsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_engine_runs_total",
			Help: "Total number of deduplication runs",
		}),
		RowsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_engine_rows_total",
			Help: "Total input rows processed across runs",
		}),
		RemovedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_engine_rows_removed_total",
			Help: "Total rows removed by auto-merge",
		}),
		FlaggedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_engine_flagged_groups_total",
			Help: "Total clusters flagged for manual review",
		}),
		WarningsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dedupe_engine_row_warnings_total",
			Help: "Total malformed rows skipped",
		}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dedupe_engine_run_duration_seconds",
			Help:    "Duration of deduplication runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

// ObserveRun records one completed run.
func (m *Metrics) ObserveRun(start time.Time, res Observable) {
	rows, merged, flagged, warnings := res.Counts()
	m.RunsTotal.Inc()
	m.RowsTotal.Add(float64(rows))
	m.RemovedTotal.Add(float64(merged))
	m.FlaggedTotal.Add(float64(flagged))
	m.WarningsTotal.Add(float64(warnings))
	m.RunDuration.Observe(time.Since(start).Seconds())
}
