package server

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatched requests. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "svc",
			Name:      "requests_total",
			Help:      "Requests served, by routing category and status code.",
		}, []string{"category", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "svc",
			Name:      "request_duration_seconds",
			Help:      "Time from request arrival to response written.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"category"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(category string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(category, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(category).Observe(d.Seconds())
}
