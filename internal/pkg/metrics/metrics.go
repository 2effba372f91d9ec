package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the membership service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Intake and review outcomes
	ApplicationsSubmitted prometheus.Counter
	StatusTransitions     *prometheus.CounterVec

	// Allocation
	NumbersAllocated  prometheus.Counter
	AllocationRetries prometheus.Counter

	CertificatesIssued prometheus.Counter

	// Notification pipeline
	NotificationsEnqueued  *prometheus.CounterVec
	NotificationsDelivered *prometheus.CounterVec

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry preloaded with the Go and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New creates a new Metrics instance registered on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "sesi_applications_submitted_total",
			Help: "Membership applications accepted at intake",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sesi_application_status_updates_total",
			Help: "Admin status updates by target status and whether approval side effects ran",
		}, []string{"status", "materialized"}),

		NumbersAllocated: factory.NewCounter(prometheus.CounterOpts{
			Name: "sesi_membership_numbers_allocated_total",
			Help: "Membership numbers handed out by the allocator",
		}),
		AllocationRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "sesi_membership_number_conflicts_total",
			Help: "Allocations retried because the number was already taken",
		}),

		CertificatesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "sesi_certificates_issued_total",
			Help: "Membership certificates rendered and stored",
		}),

		NotificationsEnqueued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sesi_notifications_enqueued_total",
			Help: "Notification enqueue attempts by kind and result",
		}, []string{"kind", "result"}),
		NotificationsDelivered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sesi_notifications_delivered_total",
			Help: "Notification deliveries by kind and result (sent, retry, dropped)",
		}, []string{"kind", "result"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sesi_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sesi_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

// Handler exposes the registry over HTTP
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// IncSubmitted records an accepted application.
func (m *Metrics) IncSubmitted() {
	if m != nil {
		m.ApplicationsSubmitted.Inc()
	}
}

// IncTransition records a status update.
func (m *Metrics) IncTransition(status string, materialized bool) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status, strconv.FormatBool(materialized)).Inc()
	}
}

// IncAllocated records an allocated membership number.
func (m *Metrics) IncAllocated() {
	if m != nil {
		m.NumbersAllocated.Inc()
	}
}

// IncAllocationRetry records a number collision.
func (m *Metrics) IncAllocationRetry() {
	if m != nil {
		m.AllocationRetries.Inc()
	}
}

// IncCertificate records an issued certificate.
func (m *Metrics) IncCertificate() {
	if m != nil {
		m.CertificatesIssued.Inc()
	}
}

// IncEnqueued records an enqueue outcome.
func (m *Metrics) IncEnqueued(kind, result string) {
	if m != nil {
		m.NotificationsEnqueued.WithLabelValues(kind, result).Inc()
	}
}

// IncDelivered records a delivery outcome.
func (m *Metrics) IncDelivered(kind, result string) {
	if m != nil {
		m.NotificationsDelivered.WithLabelValues(kind, result).Inc()
	}
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	}
}
