package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/papercomputeco/mentor/pkg/mentor"
)

// Request outcomes recorded in mentor_requests_total.
const (
	outcomeSuccess     = "success"
	outcomeRateLimited = "rate_limited"
	outcomeError       = "error"
)

// metrics are the Prometheus collectors of one server. Each server owns its registry.
type metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	sessions prometheus.Counter
	archived prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mentor_requests_total",
			Help: "Mentoring requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mentor_request_duration_seconds",
			Help:    "Time spent serving mentoring requests, retries included.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"mode"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mentor_sessions_created_total",
			Help: "Chat sessions created.",
		}),
		archived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mentor_archive_nodes_stored_total",
			Help: "New nodes written to the exchange archive.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.sessions,
		m.archived,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observe(res *mentor.Result, elapsed time.Duration) {
	outcome := outcomeSuccess
	switch {
	case res.RateLimited:
		outcome = outcomeRateLimited
	case !res.Success:
		outcome = outcomeError
	}

	mode := res.Mode.String()
	m.requests.WithLabelValues(mode, outcome).Inc()
	m.duration.WithLabelValues(mode).Observe(elapsed.Seconds())
}
