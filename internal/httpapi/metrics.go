package httpapi

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/timetable/engine/internal/domain"
)

// Metrics wraps the Prometheus collectors for the solve endpoint: a count of
// terminal solve outcomes by status and a latency histogram.
type Metrics struct {
	registry      *prometheus.Registry
	handler       http.Handler
	solvesTotal   *prometheus.CounterVec
	solveDuration prometheus.Histogram
}

// NewMetrics registers the solve-endpoint collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	solvesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "timetable_solves_total",
		Help: "Total number of solve requests handled, by terminal status",
	}, []string{"status"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_solve_duration_seconds",
		Help:    "Wall-clock duration of a solve request",
		Buckets: prometheus.DefBuckets,
	})

	registry.MustRegister(solvesTotal, solveDuration)

	return &Metrics{
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		solvesTotal:   solvesTotal,
		solveDuration: solveDuration,
	}
}

// Handler exposes the Prometheus text-format endpoint.
func (m *Metrics) Handler() http.Handler { return m.handler }

// ObserveSolve records one terminal outcome and its duration. status is
// "bad_request", "input_rejected", or a domain.Status for a completed solve.
func (m *Metrics) ObserveSolve(status string, duration time.Duration) {
	m.solvesTotal.WithLabelValues(status).Inc()
	m.solveDuration.Observe(duration.Seconds())
}

func statusLabel(result *domain.SolveResult) string {
	if result == nil {
		return "infeasible"
	}
	return string(result.Status)
}
