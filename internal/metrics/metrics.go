package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of requests to the remote provider API",
		},
		[]string{"action", "outcome"},
	)

	PollerRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_runs_total",
			Help: "Total number of completed status polling runs",
		},
	)

	PollerRunsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_runs_skipped_total",
			Help: "Total number of polling runs skipped because one was in flight",
		},
	)

	PollerChunkErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poller_chunk_errors_total",
			Help: "Total number of status chunks that failed and were skipped",
		},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Total number of applied order status transitions",
		},
		[]string{"status"},
	)

	CatalogSyncRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Total number of completed catalog sync runs",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		PollerRunsTotal,
		PollerRunsSkippedTotal,
		PollerChunkErrorsTotal,
		OrderTransitionsTotal,
		CatalogSyncRunsTotal,
	)
}
