package ingest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Units seen per outcome ("ingested" or "skipped").
	ingestUnits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekb_ingest_units_total",
			Help: "Total number of recipe units processed, by outcome",
		},
		[]string{"outcome"},
	)

	ingestSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recipekb_ingest_skips_total",
			Help: "Total number of skipped recipe units, by reason",
		},
		[]string{"reason"},
	)

	ingestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recipekb_ingest_duration_seconds",
			Help:    "Duration of a directory ingestion in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)
