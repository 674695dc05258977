package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTP
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Metering
	ToolInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tool_invocations_total",
			Help: "Tool invocations by outcome",
		},
		[]string{"tool", "outcome"},
	)
	QuotaDenials = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quota_denials_total",
			Help: "Calls refused because the plan limit was reached",
		},
		[]string{"tool", "plan"},
	)
	UsageCharged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usage_charged_total",
			Help: "Usage increments recorded in the store",
		},
		[]string{"tool"},
	)
	FreeTierResets = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "free_tier_resets_total",
			Help: "Free tier usage windows reset on read",
		},
	)
	SubscriptionsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Default subscriptions created lazily",
		},
	)

	// Generation backend
	BackendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_backend_request_duration_seconds",
			Help:    "Duration of generation backend calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"model"},
	)
	BackendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_backend_errors_total",
			Help: "Failed generation backend calls",
		},
		[]string{"model"},
	)
	BackendBreakerState = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ai_backend_circuit_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	// Gallery
	GallerySaveFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_save_failures_total",
			Help: "Best-effort gallery writes that failed",
		},
	)
)

var initOnce sync.Once

// InitMetrics registers all collectors with the default registry. Safe to call more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(HTTPRequestsInFlight)

		prometheus.MustRegister(ToolInvocations)
		prometheus.MustRegister(QuotaDenials)
		prometheus.MustRegister(UsageCharged)
		prometheus.MustRegister(FreeTierResets)
		prometheus.MustRegister(SubscriptionsCreated)

		prometheus.MustRegister(BackendDuration)
		prometheus.MustRegister(BackendErrors)
		prometheus.MustRegister(BackendBreakerState)

		prometheus.MustRegister(GallerySaveFailures)
	})
}
