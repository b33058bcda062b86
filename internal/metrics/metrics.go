package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the scheduling engine and device delivery path
var (
	ReconciliationTicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconciliation_ticks_total",
			Help: "Total number of reconciliation ticks executed",
		},
	)

	ReconciliationTicksSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "reconciliation_ticks_skipped_total",
			Help: "Total number of ticks skipped because the previous tick was still running",
		},
	)

	ReconciliationTickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reconciliation_tick_duration_seconds",
			Help:    "Duration of a full reconciliation tick",
			Buckets: prometheus.DefBuckets,
		},
	)

	ScheduleFiringsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schedule_firings_total",
			Help: "Total number of schedule open/close transitions fired",
		},
	)

	OverrideFiringsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "override_firings_total",
			Help: "Total number of overrides converted into commands",
		},
	)

	OverridesCleanedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "overrides_cleaned_total",
			Help: "Total number of stale overrides removed by the cleanup pass",
		},
	)

	CommandsEnqueuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "commands_enqueued_total",
			Help: "Total number of commands enqueued",
		},
	)

	CommandsDeliveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "commands_delivered_total",
			Help: "Total number of commands handed to devices",
		},
	)

	HeartbeatsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "heartbeats_total",
			Help: "Total number of device heartbeats received",
		},
	)
)

// Register registers all Prometheus metrics
func Register() {
	prometheus.MustRegister(ReconciliationTicksTotal)
	prometheus.MustRegister(ReconciliationTicksSkippedTotal)
	prometheus.MustRegister(ReconciliationTickDuration)
	prometheus.MustRegister(ScheduleFiringsTotal)
	prometheus.MustRegister(OverrideFiringsTotal)
	prometheus.MustRegister(OverridesCleanedTotal)
	prometheus.MustRegister(CommandsEnqueuedTotal)
	prometheus.MustRegister(CommandsDeliveredTotal)
	prometheus.MustRegister(HeartbeatsTotal)
}
