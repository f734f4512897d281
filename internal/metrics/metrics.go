// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes prometheus counters for upstream service calls.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refmat_engine",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream service requests",
		},
		[]string{"service", "operation"},
	)

	upstreamFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "refmat_engine",
			Name:      "upstream_failures_total",
			Help:      "Total number of failed upstream service requests",
		},
		[]string{"service", "operation"},
	)

	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "refmat_engine",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"service", "operation"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(upstreamFailuresTotal)
	prometheus.MustRegister(upstreamRequestDuration)
}

// ObserveRequest records one upstream call. Callers pass the wall time in
// seconds and whether the call failed.
func ObserveRequest(service, operation string, seconds float64, failed bool) {
	upstreamRequestsTotal.WithLabelValues(service, operation).Inc()
	upstreamRequestDuration.WithLabelValues(service, operation).Observe(seconds)
	if failed {
		upstreamFailuresTotal.WithLabelValues(service, operation).Inc()
	}
}
