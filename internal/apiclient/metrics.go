package apiclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — метрики вызовов REST-бэкенда.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics регистрирует метрики в reg; nil -> prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "courtside",
				Subsystem: "apiclient",
				Name:      "requests_total",
				Help:      "Total number of REST backend calls by resource, operation and status code",
			},
			[]string{"resource", "operation", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "courtside",
				Subsystem: "apiclient",
				Name:      "request_duration_seconds",
				Help:      "Duration of REST backend calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"resource", "operation"},
		),
	}

	reg.MustRegister(m.requests, m.duration)
	return m
}

// observe безопасен для nil-получателя.
func (m *Metrics) observe(resource, operation, code string, d time.Duration) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(resource, operation, code).Inc()
	m.duration.WithLabelValues(resource, operation).Observe(d.Seconds())
}
