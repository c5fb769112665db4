// Package metrics defines all custom Prometheus metrics for the ponto
// attendance server. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ponto"

// ── Punch metrics ─────────────────────────────────────────────────────────────

// PunchesAcceptedTotal counts accepted live punches.
// Label:
//   - event: the slot that was filled (entrada, saida_intervalo, …)
var PunchesAcceptedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "punches_accepted_total",
		Help:      "Total number of live punches accepted, by filled event slot.",
	},
	[]string{"event"},
)

// PunchesRejectedTotal counts rejected live punches.
// Label:
//   - reason: "repeated_touch", "unknown_uid", "day_complete", "empty_uid" or "error"
var PunchesRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "punches_rejected_total",
		Help:      "Total number of live punches rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Offline sync metrics ──────────────────────────────────────────────────────

// SyncScansTotal counts scan records processed during offline batch syncs.
// Label:
//   - result: "merged", "ignored" or "dropped"
var SyncScansTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_scans_total",
		Help:      "Total number of dump scan records, by merge result.",
	},
	[]string{"result"},
)

// SyncRunsTotal counts synchronization attempts.
// Label:
//   - outcome: "merged", "empty", "failed"
var SyncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sync_runs_total",
		Help:      "Total number of offline batch synchronizations, by outcome.",
	},
	[]string{"outcome"},
)

// ── Transport metrics ─────────────────────────────────────────────────────────

// SerialReadErrorsTotal counts transient per-read transport failures.
var SerialReadErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "serial_read_errors_total",
		Help:      "Total number of transient serial read failures.",
	},
)

// ── Notification channel metrics ──────────────────────────────────────────────

// NotificationsDroppedTotal counts notifications discarded because the
// channel was saturated.
var NotificationsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_dropped_total",
		Help:      "Total number of notifications dropped on a full channel.",
	},
)

// NotificationsQueueDepth tracks the number of notifications waiting to be
// drained by the consumer.
var NotificationsQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in the channel.",
	},
)
