package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/student-roster/internal/models"
)

// Event delivery outcomes reported by the notification dispatcher.
const (
	EventOutcomeQueued    = "queued"
	EventOutcomeDropped   = "dropped"
	EventOutcomeDelivered = "delivered"
	EventOutcomeFailed    = "failed"
)

// MetricsService encapsulates Prometheus instrumentation for the roster service.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	rosterLoadDuration *prometheus.HistogramVec
	studentCommits     prometheus.Counter
	validationFailures prometheus.Counter
	studentEvents      *prometheus.CounterVec
	dbQueryDuration    *prometheus.HistogramVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	rosterLoadDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roster_load_duration_seconds",
		Help:    "Duration of roster loads by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	studentCommits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "student_commits_total",
		Help: "Total edited students committed to the roster",
	})

	validationFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "student_form_validation_failures_total",
		Help: "Total form submissions rejected by validation",
	})

	studentEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_events_total",
		Help: "Student notifications by kind and delivery outcome",
	}, []string{"kind", "outcome"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, rosterLoadDuration, studentCommits, validationFailures, studentEvents, dbQueryDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:           registry,
		handler:            handler,
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		rosterLoadDuration: rosterLoadDuration,
		studentCommits:     studentCommits,
		validationFailures: validationFailures,
		studentEvents:      studentEvents,
		dbQueryDuration:    dbQueryDuration,
	}
}

// Registry exposes the underlying registry for tests and custom collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveRosterLoad records how long a roster load took and how it ended.
func (m *MetricsService) ObserveRosterLoad(status models.LoadStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.rosterLoadDuration.WithLabelValues(string(status)).Observe(duration.Seconds())
}

// IncStudentCommit counts a committed edit.
func (m *MetricsService) IncStudentCommit() {
	if m == nil {
		return
	}
	m.studentCommits.Inc()
}

// IncValidationFailure counts a submission rejected by validation.
func (m *MetricsService) IncValidationFailure() {
	if m == nil {
		return
	}
	m.validationFailures.Inc()
}

// ObserveStudentEvent counts a notification outcome.
func (m *MetricsService) ObserveStudentEvent(kind models.EventKind, outcome string) {
	if m == nil {
		return
	}
	m.studentEvents.WithLabelValues(string(kind), outcome).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}
