// Package metrics defines and registers all custom Prometheus metrics for the
// todo API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Collectors are registered with the default registry at package init via
// promauto; the /metrics endpoint exposes them together with the HTTP metrics
// collected by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "todo_api"

// ── Push metrics ──────────────────────────────────────────────────────────────

// PushDeliveriesTotal counts per-recipient send outcomes.
// Label:
//   - outcome: "succeeded", "failed", "stale" (failed, address rejected) or "skipped"
var PushDeliveriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_deliveries_total",
		Help:      "Total number of push delivery attempts, by outcome.",
	},
	[]string{"outcome"},
)

// PushDispatchDuration measures a whole dispatch call.
// Label:
//   - mode: "single" or "fanout"
var PushDispatchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "push_dispatch_duration_seconds",
		Help:      "Duration of push dispatch calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"mode"},
)

// ── Background task metrics ───────────────────────────────────────────────────

// TasksTotal counts detached tasks by name and result.
// Labels:
//   - task: task name (e.g. "notify_todo_created")
//   - result: "ok", "error", "panic" or "dropped"
var TasksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "background_tasks_total",
		Help:      "Total number of background tasks, by name and result.",
	},
	[]string{"task", "result"},
)

// TaskQueueDepth tracks tasks waiting for a worker.
var TaskQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "background_queue_depth",
		Help:      "Current number of background tasks waiting for a worker.",
	},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// TodoMutationsTotal counts successful todo writes.
// Label:
//   - op: "create", "update" or "delete"
var TodoMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "todo_mutations_total",
		Help:      "Total number of todo mutations, by operation.",
	},
	[]string{"op"},
)

// SignInsTotal counts sign-ins.
// Labels:
//   - flow: "oauth" or "android"
//   - result: "created" or "updated"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sign_ins_total",
		Help:      "Total number of successful sign-ins, by flow and whether the user was new.",
	},
	[]string{"flow", "result"},
)
