// Package metrics defines and registers the custom Prometheus metrics of the
// stakeholder mapping API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry on package init via promauto;
// /metrics serves them through promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "smt"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login calls by outcome.
// Label:
//   - result: "success", "invalid" (credential mismatch) or "error" (infrastructure)
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures a login call end to end, simulated latency included.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login calls including the simulated credential check latency.",
		Buckets:   prometheus.DefBuckets,
	},
)

// LogoutsTotal counts logouts of authenticated sessions.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts.",
	},
)

// SessionRestoresTotal counts session rehydration attempts.
// Label:
//   - result: "restored", "absent", "malformed" or "error"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of persisted session restore attempts, by result.",
	},
	[]string{"result"},
)

// PermissionChecksTotal counts capability checks.
// Label:
//   - result: "granted" or "denied"
var PermissionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_checks_total",
		Help:      "Total number of capability checks, by result.",
	},
	[]string{"result"},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// UsersImportTotal counts CSV import rows.
// Label:
//   - result: "imported" or "skipped"
var UsersImportTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_import_rows_total",
		Help:      "Total number of CSV import rows, by result.",
	},
	[]string{"result"},
)

// AuditEntriesTotal counts audit entries handed to the dispatcher.
// Label:
//   - result: "written", "dropped" (queue full) or "failed" (repository error)
var AuditEntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_total",
		Help:      "Total number of audit entries, by result.",
	},
	[]string{"result"},
)

// AuditQueueDepth tracks the number of entries waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
