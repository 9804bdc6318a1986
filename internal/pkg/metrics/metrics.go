// Package metrics defines and registers the custom Prometheus metrics of the
// admin console. It is the single source of truth for metric names, labels
// and help strings.
//
// Metrics are registered with the default registry at package init through
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "console"

// ── Mock API ──────────────────────────────────────────────────────────────────

// MockAPIRequestsTotal counts Mock API operations.
// Labels:
//   - operation: "login", "get_users", "get_user", "create_user", "update_user", "delete_user", "get_roles"
//   - result: "ok", "not_found", "inactive", "simulated", "invalid", "canceled", "error"
var MockAPIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mockapi_requests_total",
		Help:      "Total number of Mock API operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// MockAPILatency measures the artificial latency injected before each operation.
var MockAPILatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mockapi_latency_seconds",
		Help:      "Artificial latency injected into Mock API operations.",
		Buckets:   []float64{.1, .2, .3, .4, .5, .6, .7, .8, 1},
	},
	[]string{"operation"},
)

// MockAPIScheduledFaults tracks how many upcoming operations are set to fail.
var MockAPIScheduledFaults = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mockapi_scheduled_faults",
		Help:      "Number of upcoming Mock API operations scheduled to fail.",
	},
)

// ── Sessions ──────────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts through the auth store.
// Label:
//   - result: "success", "declared_failure", "unexpected_failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SessionExpirationsTotal counts sessions logged out by the inactivity timer.
var SessionExpirationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_session_expirations_total",
		Help:      "Total number of sessions ended by inactivity.",
	},
)

// ActiveSessions tracks the number of client stores held by the session manager.
var ActiveSessions = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "auth_client_stores",
		Help:      "Number of client auth stores currently held in memory.",
	},
)

// ── Navigation ────────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - route: route name (e.g. "Users")
//   - outcome: "allow", "redirect_login", "redirect_unauthorized"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by route and outcome.",
	},
	[]string{"route", "outcome"},
)

// LayoutFallbacksTotal counts layout resolutions that fell back to the default layout.
var LayoutFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "layout_fallbacks_total",
		Help:      "Total number of layout resolutions that fell back to the default layout.",
	},
	[]string{"requested"},
)
