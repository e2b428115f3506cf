package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduling pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runsTotal       prometheus.Counter
	sessionsPlaced  prometheus.Counter
	sessionsFailed  prometheus.Counter
	partialRuns     prometheus.Counter
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

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_runs_total",
		Help: "Total number of scheduling runs",
	})

	sessionsPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_sessions_placed_total",
		Help: "Total sessions placed across all runs",
	})

	sessionsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_placement_failures_total",
		Help: "Total sessions that could not be placed",
	})

	partialRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduling_partial_runs_total",
		Help: "Total runs that produced a partial schedule",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runsTotal, sessionsPlaced, sessionsFailed, partialRuns, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runsTotal:       runsTotal,
		sessionsPlaced:  sessionsPlaced,
		sessionsFailed:  sessionsFailed,
		partialRuns:     partialRuns,
	}
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

// RecordSchedulingRun updates the run counters after an engine run.
func (m *MetricsService) RecordSchedulingRun(placed, failed int) {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
	m.sessionsPlaced.Add(float64(placed))
	m.sessionsFailed.Add(float64(failed))
	if failed > 0 {
		m.partialRuns.Inc()
	}
}
