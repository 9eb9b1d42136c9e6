// Package observability defines Prometheus instrumentation for the lookup API.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for the lookup service.
type Metrics struct {
	Lookups       *prometheus.CounterVec // label: outcome={found,not_found,invalid}
	BulkRequests  prometheus.Counter
	BulkBatchSize prometheus.Histogram
	StoreRecords  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Lookups,
		m.BulkRequests,
		m.BulkBatchSize,
		m.StoreRecords,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tail_lookup",
			Name:      "lookups_total",
			Help:      "Tail number lookups by outcome.",
		}, []string{"outcome"}),
		BulkRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tail_lookup",
			Name:      "bulk_requests_total",
			Help:      "Accepted bulk lookup requests.",
		}),
		BulkBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tail_lookup",
			Name:      "bulk_batch_size",
			Help:      "Number of tail numbers per bulk request.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50},
		}),
		StoreRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tail_lookup",
			Name:      "store_records",
			Help:      "Registration records in the opened store.",
		}),
	}
}
