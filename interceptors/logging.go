package interceptors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// DefaultCorrelationKey is the event key left out of logged parameters
const DefaultCorrelationKey = "correlation_id"

// LoggingInterceptor logs the event before the handler runs and the outcome
// with its duration afterwards.
type LoggingInterceptor struct {
	logger         *slog.Logger
	correlationKey string
}

// LoggingOption configures the logging interceptor
type LoggingOption func(*LoggingInterceptor)

// WithCorrelationKey sets the event key that is dropped from logged params.
// An empty key logs the event unchanged.
func WithCorrelationKey(key string) LoggingOption {
	return func(i *LoggingInterceptor) {
		i.correlationKey = key
	}
}

// NewLoggingInterceptor creates a new logging interceptor
func NewLoggingInterceptor(logger *slog.Logger, opts ...LoggingOption) *LoggingInterceptor {
	if logger == nil {
		logger = slog.Default()
	}

	i := &LoggingInterceptor{
		logger:         logger,
		correlationKey: DefaultCorrelationKey,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Intercept implements Interceptor
func (i *LoggingInterceptor) Intercept(ctx context.Context, inv *Invocation, next Handler) (any, error) {
	logger := inv.logger(i.logger)
	params := WithoutKey(inv.Event, i.correlationKey)

	logger.InfoContext(ctx, "Calling lambda handler with", "params", params)

	start := time.Now()
	result, err := next.Handle(ctx, inv)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		logger.ErrorContext(ctx, "Lambda handler finished with",
			"duration_ms", durationMs,
			"exception_occurred", true,
			"exception_stacktrace", StackTrace(err),
			"exception_object", err,
			"params", params,
		)
		return result, err
	}

	logger.InfoContext(ctx, "Lambda handler finished with",
		"duration_ms", durationMs,
		"exception_occurred", false,
		"params", params,
	)
	return result, nil
}

// Name implements Interceptor
func (i *LoggingInterceptor) Name() string {
	return "LoggingInterceptor"
}

// WithoutKey returns a shallow copy of event without key
func WithoutKey(event map[string]any, key string) map[string]any {
	if event == nil {
		return nil
	}

	out := make(map[string]any, len(event))
	for k, v := range event {
		if k == key {
			continue
		}
		out[k] = v
	}
	return out
}

// StackTrace renders err with a stack. Recovered panics keep the stack of
// the panicking goroutine; other errors get the stack at the time of the call.
func StackTrace(err error) string {
	if err == nil {
		return ""
	}

	var pe *PanicError
	if errors.As(err, &pe) {
		return fmt.Sprintf("%T: %v\n%s", err, err, pe.Stack)
	}
	return fmt.Sprintf("%T: %v\n%s", err, err, debug.Stack())
}
