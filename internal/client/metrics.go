package client

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts client traffic. A nil *Metrics records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	decorated    prometheus.Counter
	unauthorized prometheus.Counter
}

// NewMetrics registers the client metrics on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "medistore"
	}
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests sent by the client, by method and status (0 for transport errors).",
		}, []string{"method", "status"}),
		decorated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "authorized_requests_total",
			Help:      "Requests that carried a bearer token.",
		}),
		unauthorized: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "session_invalidations_total",
			Help:      "Dashboard requests answered with 401.",
		}),
	}
}

func (m *Metrics) observe(method string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) observeDecorated() {
	if m == nil {
		return
	}
	m.decorated.Inc()
}

func (m *Metrics) observeUnauthorized() {
	if m == nil {
		return
	}
	m.unauthorized.Inc()
}
