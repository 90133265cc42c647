package interceptors

import (
	"context"
	"log/slog"
)

// Invocation is a single handler call travelling through the chain
type Invocation struct {
	// Name identifies the handler in logs and metrics
	Name string

	// Event is the raw incoming event. Interceptors must treat it as read-only.
	Event map[string]any

	// CustomResource is set when the event is a CloudFormation custom
	// resource callback.
	CustomResource bool

	// Logger is the invocation-scoped logger, already carrying request
	// attributes. Nil means slog.Default().
	Logger *slog.Logger
}

// logger returns the invocation logger or the fallback
func (inv *Invocation) logger(fallback *slog.Logger) *slog.Logger {
	if inv.Logger != nil {
		return inv.Logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}

// Handler handles an invocation at the end of, or inside, the chain
type Handler interface {
	Handle(ctx context.Context, inv *Invocation) (any, error)
}

// HandlerFunc is a function adapter for Handler
type HandlerFunc func(ctx context.Context, inv *Invocation) (any, error)

// Handle implements Handler
func (f HandlerFunc) Handle(ctx context.Context, inv *Invocation) (any, error) {
	return f(ctx, inv)
}

// Interceptor wraps invocation handling
type Interceptor interface {
	// Intercept processes an invocation and calls the next handler in the chain
	Intercept(ctx context.Context, inv *Invocation, next Handler) (any, error)

	// Name returns the interceptor name for logging and debugging
	Name() string
}

// InterceptorFunc is a function adapter for Interceptor
type InterceptorFunc struct {
	name string
	fn   func(ctx context.Context, inv *Invocation, next Handler) (any, error)
}

// NewInterceptorFunc creates a new function-based interceptor
func NewInterceptorFunc(name string, fn func(ctx context.Context, inv *Invocation, next Handler) (any, error)) *InterceptorFunc {
	return &InterceptorFunc{name: name, fn: fn}
}

// Intercept implements Interceptor
func (i *InterceptorFunc) Intercept(ctx context.Context, inv *Invocation, next Handler) (any, error) {
	return i.fn(ctx, inv, next)
}

// Name implements Interceptor
func (i *InterceptorFunc) Name() string {
	return i.name
}

// Chain runs interceptors around a final handler. The first interceptor
// added is the outermost.
type Chain struct {
	interceptors []Interceptor
	logger       *slog.Logger
}

// NewChain creates a new interceptor chain
func NewChain(logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}

	return &Chain{
		interceptors: make([]Interceptor, 0),
		logger:       logger,
	}
}

// Add adds an interceptor to the chain
func (c *Chain) Add(interceptor Interceptor) *Chain {
	c.interceptors = append(c.interceptors, interceptor)
	return c
}

// Names lists the interceptors in execution order
func (c *Chain) Names() []string {
	names := make([]string, len(c.interceptors))
	for i, interceptor := range c.interceptors {
		names[i] = interceptor.Name()
	}
	return names
}

// Then composes the chain with finalHandler into a single Handler
func (c *Chain) Then(finalHandler Handler) Handler {
	// Build the chain in reverse order
	handler := finalHandler
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		interceptor := c.interceptors[i]
		currentHandler := handler
		handler = HandlerFunc(func(ctx context.Context, inv *Invocation) (any, error) {
			return interceptor.Intercept(ctx, inv, currentHandler)
		})
	}
	return handler
}

// Execute runs the chain for one invocation
func (c *Chain) Execute(ctx context.Context, inv *Invocation, finalHandler Handler) (any, error) {
	if len(c.interceptors) == 0 {
		return finalHandler.Handle(ctx, inv)
	}
	return c.Then(finalHandler).Handle(ctx, inv)
}

// ChainBuilder builds the usual interceptor chain
type ChainBuilder struct {
	chain  *Chain
	logger *slog.Logger
}

// NewChainBuilder creates a new builder
func NewChainBuilder(logger *slog.Logger) *ChainBuilder {
	if logger == nil {
		logger = slog.Default()
	}

	return &ChainBuilder{
		chain:  NewChain(logger),
		logger: logger,
	}
}

// WithCustomResource adds the custom resource failure shaping interceptor
func (b *ChainBuilder) WithCustomResource() *ChainBuilder {
	b.chain.Add(NewCustomResourceInterceptor())
	return b
}

// WithLogging adds the logging interceptor, dropping correlationKey from logged events
func (b *ChainBuilder) WithLogging(correlationKey string) *ChainBuilder {
	b.chain.Add(NewLoggingInterceptor(b.logger, WithCorrelationKey(correlationKey)))
	return b
}

// WithMetrics adds the metrics interceptor
func (b *ChainBuilder) WithMetrics(collector MetricsCollector) *ChainBuilder {
	b.chain.Add(NewMetricsInterceptor(collector))
	return b
}

// WithRecovery adds the panic recovery interceptor
func (b *ChainBuilder) WithRecovery() *ChainBuilder {
	b.chain.Add(NewRecoveryInterceptor())
	return b
}

// WithCustom adds a custom interceptor
func (b *ChainBuilder) WithCustom(interceptor Interceptor) *ChainBuilder {
	b.chain.Add(interceptor)
	return b
}

// Build returns the built interceptor chain
func (b *ChainBuilder) Build() *Chain {
	return b.chain
}
