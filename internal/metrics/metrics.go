// Package metrics exposes Prometheus metrics for the stoploss controller.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts ledger operations by kind and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoploss_operations_total",
		Help: "Ledger operations by kind and outcome",
	}, []string{"op", "outcome"})

	// ExecutionsTotal counts child order execution attempts by side and
	// resulting parent status.
	ExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoploss_executions_total",
		Help: "Child order execution attempts by side and resulting status",
	}, []string{"side", "status"})

	// BaseFilledTotal accumulates filled base quantity per market.
	BaseFilledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoploss_base_filled_total",
		Help: "Cumulative filled base quantity per market",
	}, []string{"market"})

	// QuoteFilledTotal accumulates filled quote quantity per market.
	QuoteFilledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stoploss_quote_filled_total",
		Help: "Cumulative filled quote quantity per market",
	}, []string{"market"})

	// TransferFailuresTotal counts failed custody transfers.
	TransferFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stoploss_transfer_failures_total",
		Help: "Failed custody fund transfers",
	})

	// ExecutionLatency observes the duration of execute operations,
	// including the venue round trip.
	ExecutionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stoploss_execution_latency_seconds",
		Help:    "Duration of execute operations",
		Buckets: prometheus.DefBuckets,
	})

	// OpenOrders gauges the number of non-terminal parent orders.
	OpenOrders = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stoploss_open_orders",
		Help: "Non-terminal parent orders",
	})

	// VenueUp reports venue reachability.
	VenueUp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stoploss_venue_up",
		Help: "Venue reachability (1 = reachable)",
	})

	// HeartbeatTimestamp is the unix time of the last controller
	// heartbeat.
	HeartbeatTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "stoploss_heartbeat_timestamp",
		Help: "Unix time of the last controller heartbeat",
	})

	// BuildInfo carries version metadata.
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "stoploss_build_info",
		Help: "Build information",
	}, []string{"version", "commit", "build_time"})
)

// SetBuildInfo records build metadata.
func SetBuildInfo(version, commit, buildTime string) {
	BuildInfo.WithLabelValues(version, commit, buildTime).Set(1)
}
