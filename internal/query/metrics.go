package query

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "recipekb_query_duration_seconds",
		Help:    "Duration of recipe queries in seconds, by operation",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	},
	[]string{"op"},
)

// observe records the elapsed time of op since start.
func observe(op string, start time.Time) {
	queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
