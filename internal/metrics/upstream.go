package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream and schema derivation metrics.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationview",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream dataset fetches",
		},
		[]string{"status"}, // "ok" / "error"
	)

	UpstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stationview",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream dataset fetch duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	UpstreamRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stationview",
			Name:      "upstream_records",
			Help:      "Number of records returned by the last successful fetch",
		},
	)

	SchemaDerivationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stationview",
			Name:      "schema_derivations_total",
			Help:      "Total number of schema derivations",
		},
		[]string{"status"}, // "ok" / "empty" / "error"
	)

	SchemaFields = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "stationview",
			Name:      "schema_fields",
			Help:      "Number of fields per type in the last derived schema",
		},
		[]string{"type"},
	)
)

var registerUpstream sync.Once

// RegisterUpstreamMetrics registers upstream and schema metrics. Safe to call more than once.
func RegisterUpstreamMetrics() {
	registerUpstream.Do(func() {
		prometheus.MustRegister(
			UpstreamRequestsTotal,
			UpstreamRequestDuration,
			UpstreamRecords,
			SchemaDerivationsTotal,
			SchemaFields,
		)
	})
}
