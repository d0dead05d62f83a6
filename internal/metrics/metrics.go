// Package metrics exposes the gateway's Prometheus collectors on a private
// registry.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"edumaster/web/internal/session"
)

const namespace = "edumaster"

type Metrics struct {
	registry        *prometheus.Registry
	transitions     *prometheus.CounterVec
	authenticated   prometheus.Gauge
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec

	mu    sync.Mutex
	phase session.Phase
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		phase:    session.Initial().Phase,
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "transitions_total",
			Help:      "Session transitions by resulting phase.",
		}, []string{"phase"}),
		authenticated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "authenticated",
			Help:      "1 while a user is signed in.",
		}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Marketplace API calls by method and status; status 0 is a transport failure.",
		}, []string{"method", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Marketplace API round trip latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.transitions,
		m.authenticated,
		m.backendRequests,
		m.backendLatency,
	)
	return m
}

// ObserveSession is meant to be registered with session.Service.Subscribe,
// which delivers states in the order they were applied. Only phase changes
// count as transitions.
func (m *Metrics) ObserveSession(s session.State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Phase != m.phase {
		m.transitions.WithLabelValues(s.Phase.String()).Inc()
		m.phase = s.Phase
	}
	if s.IsAuthenticated {
		m.authenticated.Set(1)
	} else {
		m.authenticated.Set(0)
	}
}

func (m *Metrics) ObserveBackend(method string, status int, elapsed time.Duration) {
	m.backendRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.backendLatency.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
