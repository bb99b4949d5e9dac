package api

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/confessio/confessio/internal/common"
)

// Metrics collects request counters and latency for the API client. All
// methods are nil-receiver safe so the client can run without a registry.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "confessio_api_requests_total",
			Help: "API requests by operation and outcome.",
		}, []string{"op", "outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "confessio_api_request_seconds",
			Help:    "API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.requests, m.latency)
	return m
}

// observe records one finished request.
func (m *Metrics) observe(op string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome(err)).Inc()
	m.latency.Observe(d.Seconds())
}

func outcome(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrSessionExpired):
		return "unauthorized"
	case errors.As(err, &se):
		return "rejected"
	case errors.Is(err, common.ErrTransport):
		return "transport"
	default:
		return "error"
	}
}
