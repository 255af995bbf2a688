// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	subscriptionsEnrolled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_enrolled_total",
			Help: "Enrollment attempts by outcome (created/existing/invalid/error).",
		},
		[]string{"outcome"},
	)

	subscriptionsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_confirmed_total",
			Help: "Confirmation attempts by outcome (confirmed/malformed/unknown/error).",
		},
		[]string{"outcome"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Outbound emails by kind (confirmation/newsletter) and success.",
		},
		[]string{"kind", "success"},
	)

	publishLatencyMs = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newsletter_publish_latency_ms",
			Help:    "End-to-end newsletter broadcast latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
	)

	httpRequestDurationMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration distribution in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
		},
		[]string{"route", "method", "status"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			subscriptionsEnrolled, subscriptionsConfirmed,
			emailsSent, publishLatencyMs, httpRequestDurationMs,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Subscription helpers --------

func IncEnrolled(outcome string) {
	subscriptionsEnrolled.WithLabelValues(norm(outcome)).Inc()
}

func IncConfirmed(outcome string) {
	subscriptionsConfirmed.WithLabelValues(norm(outcome)).Inc()
}

// -------- Email helpers --------

func IncEmailSent(kind string, success bool) {
	emailsSent.WithLabelValues(norm(kind), strconv.FormatBool(success)).Inc()
}

func ObservePublishLatency(ms float64) {
	publishLatencyMs.Observe(ms)
}

// -------- HTTP helpers --------

func ObserveHTTPRequest(route, method string, status int, ms float64) {
	httpRequestDurationMs.WithLabelValues(route, method, strconv.Itoa(status)).Observe(ms)
}
