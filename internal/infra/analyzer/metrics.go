package analyzer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRecorder records analysis metrics. Tests swap in a fake.
type MetricsRecorder interface {
	RecordDuration(provider string, duration time.Duration)
	RecordTruncation(provider string)
}

// PrometheusMetrics implements MetricsRecorder with Prometheus collectors.
type PrometheusMetrics struct {
	duration    *prometheus.HistogramVec
	truncations *prometheus.CounterVec
}

var (
	prometheusMetricsInstance *PrometheusMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusMetrics returns the process-wide recorder, registering its
// collectors on first use.
func NewPrometheusMetrics() *PrometheusMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusMetrics{
			duration: registerHistogramVec(prometheus.HistogramOpts{
				Name:    "digest_analysis_duration_seconds",
				Help:    "Time taken by one article analysis, retries included",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			}, []string{"provider"}),
			truncations: registerCounterVec(prometheus.CounterOpts{
				Name: "digest_analysis_truncations_total",
				Help: "Total number of article bodies truncated before analysis",
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordDuration implements MetricsRecorder.
func (m *PrometheusMetrics) RecordDuration(provider string, duration time.Duration) {
	m.duration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordTruncation implements MetricsRecorder.
func (m *PrometheusMetrics) RecordTruncation(provider string) {
	m.truncations.WithLabelValues(provider).Inc()
}

func registerHistogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(opts, labels)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	return h
}

func registerCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	return c
}
