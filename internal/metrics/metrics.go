// Package metrics exposes Prometheus counters for the extraction service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts extraction runs by outcome (ok, error).
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "textmine_runs_total",
		Help: "Total extraction runs by outcome",
	}, []string{"outcome"})

	// RowsProcessed counts input rows seen by the row aggregator.
	RowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "textmine_rows_processed_total",
		Help: "Total input rows processed",
	})

	// RowsSkipped counts rows skipped for a missing patient id.
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "textmine_rows_skipped_total",
		Help: "Total rows skipped for missing patient id",
	})
)
