// Package metrics defines and registers all custom Prometheus metrics for the
// PulseLink API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Core services import this package; it must not import internal/api.
//
// Collectors are registered with the default registry on package init via
// promauto; HTTP request metrics come from echoprometheus in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pulselink"

// ── Credential metrics ────────────────────────────────────────────────────────

// AuthOutcomesTotal counts credential workflow outcomes.
// Labels:
//   - operation: "register", "login" or "resolve"
//   - result: "ok", "duplicate", "failed" or "invalid"
var AuthOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_outcomes_total",
		Help:      "Total number of credential operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// ── Provider metrics ──────────────────────────────────────────────────────────

// ProviderReady is 1 when the AI provider handle initialized successfully.
var ProviderReady = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "provider_ready",
		Help:      "Whether the AI provider client is ready (1) or unavailable (0).",
	},
)

// ProviderRequestsTotal counts provider calls.
// Labels:
//   - operation: "chat" or "transcribe"
//   - outcome: "ok", "fallback", "provider_error" or "internal_error"
var ProviderRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_requests_total",
		Help:      "Total number of AI provider requests, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ProviderRequestDuration measures provider round trips.
var ProviderRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_request_duration_seconds",
		Help:      "Duration of AI provider requests.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
	[]string{"operation"},
)

// RateLimitedTotal counts requests rejected by the per-user rate limiter.
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter, by operation.",
	},
	[]string{"operation"},
)

// ── Usage audit metrics ───────────────────────────────────────────────────────

// UsageQueueDepth tracks pending usage events per recorder worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var UsageQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "usage_queue_depth",
		Help:      "Current number of usage events pending in each recorder worker channel.",
	},
	[]string{"worker_id"},
)

// UsageDroppedTotal counts usage events dropped because a worker queue was full.
var UsageDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "usage_dropped_total",
		Help:      "Total number of usage events dropped due to a full queue.",
	},
)

// UsageWriteErrorsTotal counts usage events that failed to persist.
var UsageWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "usage_write_errors_total",
		Help:      "Total number of usage events that could not be written.",
	},
)
