// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reporter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Page request outcomes recorded in PageRequestsTotal.
const (
	outcomeOK        = "ok"
	outcomeHTTP      = "http_error"
	outcomeTransport = "transport_error"
	outcomePartial   = "partial_data"
)

// Metrics holds the Prometheus collectors for page fetches.
type Metrics struct {
	PageRequestsTotal   *prometheus.CounterVec
	PageRequestDuration prometheus.Histogram
	RowsFetchedTotal    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg. A nil reg
// creates unregistered collectors, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PageRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grants_reporter_page_requests_total",
				Help: "Total page requests to the search API by outcome (ok, http_error, transport_error, partial_data).",
			},
			[]string{"outcome"},
		),
		PageRequestDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "grants_reporter_page_request_duration_seconds",
				Help:    "Search API page request latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		RowsFetchedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "grants_reporter_rows_fetched_total",
				Help: "Total project rows returned by the search API.",
			},
		),
	}
}
