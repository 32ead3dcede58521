package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
	notificationUpserts *prometheus.CounterVec
	webhookDeliveries   *prometheus.CounterVec
}

// NewMetrics builds and registers all collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Total number of requests ending in a domain error.",
		}, []string{"method", "path", "code"}),
		notificationUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notification_upserts_total",
			Help: "Notification trigger outcomes, split by insert vs update.",
		}, []string{"op"}),
		webhookDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_deliveries_total",
			Help: "Unread-count webhook delivery attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		m.notificationUpserts,
		m.webhookDeliveries,
	)
	return m
}

// Handler exposes the registry for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRequest counts a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError counts a request that ended in a domain error.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(method, path, code).Inc()
}

// RecordNotificationUpsert counts a trigger outcome; op is "insert" or "update".
func (m *Metrics) RecordNotificationUpsert(op string) {
	if m == nil {
		return
	}
	m.notificationUpserts.WithLabelValues(op).Inc()
}

// RecordWebhookDelivery counts an outbound push; outcome is "ok", "error" or "skipped".
func (m *Metrics) RecordWebhookDelivery(outcome string) {
	if m == nil {
		return
	}
	m.webhookDeliveries.WithLabelValues(outcome).Inc()
}
