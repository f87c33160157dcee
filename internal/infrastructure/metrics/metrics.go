// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "integrationhub"

var (
	// Registry is the dedicated registry; nothing is registered on the global default.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// WebhookEvents counts ingestion outcomes. Event types outside the allow-list are
	// reported as "other" to keep label cardinality bounded.
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "webhook_events_total", Help: "Webhook deliveries by event type and outcome."},
		[]string{"event_type", "outcome"},
	)

	// ProviderCalls counts outbound OAuth calls (exchange, revoke, probe) by provider and result.
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "provider_calls_total", Help: "Outbound provider calls by provider, operation and result."},
		[]string{"provider", "operation", "result"},
	)
)

// Webhook outcomes.
const (
	OutcomeAccepted  = "accepted"
	OutcomeDuplicate = "duplicate"
	OutcomeIgnored   = "ignored"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// Provider call results.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(WebhookEvents)
		Registry.MustRegister(ProviderCalls)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	Register()
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordWebhook(eventType string, allowed bool, outcome string) {
	if !allowed {
		eventType = "other"
	}
	WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}

func RecordProviderCall(provider, operation, result string) {
	ProviderCalls.WithLabelValues(provider, operation, result).Inc()
}
