package interceptors

import (
	"context"
	"time"

	"github.com/glimte/strong-lambda-go/hydrate"
)

// Error kinds reported to a MetricsCollector
const (
	ErrorKindMissingFields = "missing_fields"
	ErrorKindConstruction  = "construction"
	ErrorKindPanic         = "panic"
	ErrorKindHandler       = "handler"
)

// MetricsCollector defines the interface for collecting metrics
type MetricsCollector interface {
	IncrementInvocationCount(handler string)
	RecordDuration(handler string, duration time.Duration)
	IncrementErrorCount(handler string, kind string)
}

// MetricsInterceptor collects metrics about invocations
type MetricsInterceptor struct {
	collector MetricsCollector
}

// NewMetricsInterceptor creates a new metrics interceptor
func NewMetricsInterceptor(collector MetricsCollector) *MetricsInterceptor {
	return &MetricsInterceptor{collector: collector}
}

// Intercept implements Interceptor
func (i *MetricsInterceptor) Intercept(ctx context.Context, inv *Invocation, next Handler) (any, error) {
	start := time.Now()

	i.collector.IncrementInvocationCount(inv.Name)

	result, err := next.Handle(ctx, inv)

	i.collector.RecordDuration(inv.Name, time.Since(start))
	if err != nil {
		i.collector.IncrementErrorCount(inv.Name, ErrorKind(err))
	}

	return result, err
}

// Name implements Interceptor
func (i *MetricsInterceptor) Name() string {
	return "MetricsInterceptor"
}

// ErrorKind classifies err for metrics labels
func ErrorKind(err error) string {
	switch {
	case hydrate.IsMissingFields(err):
		return ErrorKindMissingFields
	case hydrate.IsConstruction(err):
		return ErrorKindConstruction
	case IsPanic(err):
		return ErrorKindPanic
	default:
		return ErrorKindHandler
	}
}
