// Package metrics records handler invocations in Prometheus.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements interceptors.MetricsCollector on Prometheus vectors
type Collector struct {
	invocations *prometheus.CounterVec
	errors      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewCollector creates the vectors and registers them with reg. A nil reg
// uses the default registerer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strong_lambda_invocations_total",
				Help: "Total handler invocations",
			},
			[]string{"handler"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "strong_lambda_errors_total",
				Help: "Total failed handler invocations by error kind",
			},
			[]string{"handler", "kind"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "strong_lambda_invocation_duration_seconds",
				Help:    "Handler invocation duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
			},
			[]string{"handler"},
		),
	}

	for _, collector := range []prometheus.Collector{c.invocations, c.errors, c.duration} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	return c, nil
}

// IncrementInvocationCount counts one invocation of handler
func (c *Collector) IncrementInvocationCount(handler string) {
	c.invocations.WithLabelValues(handler).Inc()
}

// RecordDuration observes how long handler ran
func (c *Collector) RecordDuration(handler string, duration time.Duration) {
	c.duration.WithLabelValues(handler).Observe(duration.Seconds())
}

// IncrementErrorCount counts one failure of handler
func (c *Collector) IncrementErrorCount(handler string, kind string) {
	c.errors.WithLabelValues(handler, kind).Inc()
}
