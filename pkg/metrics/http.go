package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPClientMetrics records outcome metadata for outbound API requests.
type HTTPClientMetrics struct {
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewHTTPClientMetrics registers the client metrics on the provided registerer.
func NewHTTPClientMetrics(reg prometheus.Registerer) *HTTPClientMetrics {
	if reg == nil {
		return &HTTPClientMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "api_request_duration_seconds",
		Help:    "Duration of storefront API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_retries_total",
		Help: "Retried storefront API attempts.",
	}, []string{"method", "path"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "api_request_failures_total",
		Help: "Failed storefront API requests by error kind.",
	}, []string{"method", "path", "kind"})
	reg.MustRegister(duration, retries, failures)
	return &HTTPClientMetrics{
		duration: duration,
		retries:  retries,
		failures: failures,
	}
}

// ObserveDuration records the wall time of a completed request.
func (m *HTTPClientMetrics) ObserveDuration(method, path string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncRetry increments the retry counter for the request.
func (m *HTTPClientMetrics) IncRetry(method, path string) {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.WithLabelValues(method, path).Inc()
}

// IncFailure increments the failure counter for the request and error kind.
func (m *HTTPClientMetrics) IncFailure(method, path, kind string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(method, path, kind).Inc()
}
