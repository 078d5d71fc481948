package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// phase-solver runs, and analyzer queries.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	phaseDuration  *prometheus.HistogramVec
	phaseObjective *prometheus.GaugeVec
	phaseOutcome   *prometheus.CounterVec

	searchTotal    *prometheus.CounterVec
	searchDuration prometheus.Histogram
}

// NewMetricsService registers the scheduler's Prometheus collectors.
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

	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "phase_solve_duration_seconds",
		Help:    "Duration of a single phase solve attempt",
		Buckets: prometheus.DefBuckets,
	}, []string{"level"})

	phaseObjective := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "phase_objective_value",
		Help: "Weighted soft-constraint objective of the last feasible solve at each level",
	}, []string{"level"})

	phaseOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phase_outcome_total",
		Help: "Count of phase solves by level and feasibility outcome",
	}, []string{"level", "feasible"})

	searchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analyzer_search_total",
		Help: "Total analyzer search queries by hit/miss",
	}, []string{"found"})

	searchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analyzer_search_duration_seconds",
		Help:    "Duration of analyzer search queries",
		Buckets: prometheus.DefBuckets,
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, phaseDuration, phaseObjective, phaseOutcome, searchTotal, searchDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		phaseDuration:   phaseDuration,
		phaseObjective:  phaseObjective,
		phaseOutcome:    phaseOutcome,
		searchTotal:     searchTotal,
		searchDuration:  searchDuration,
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

// ObservePhase records one phase level's solve duration, outcome, and
// (when feasible) objective value.
func (m *MetricsService) ObservePhase(level int, feasible bool, objective float64, duration time.Duration) {
	if m == nil {
		return
	}
	levelLabel := fmt.Sprintf("%d", level)
	m.phaseDuration.WithLabelValues(levelLabel).Observe(duration.Seconds())
	m.phaseOutcome.WithLabelValues(levelLabel, fmt.Sprintf("%t", feasible)).Inc()
	if feasible {
		m.phaseObjective.WithLabelValues(levelLabel).Set(objective)
	}
}

// ObserveSearch records one analyzer search query.
func (m *MetricsService) ObserveSearch(found bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.searchTotal.WithLabelValues(fmt.Sprintf("%t", found)).Inc()
	m.searchDuration.Observe(duration.Seconds())
}
