package stronglambda

import (
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/glimte/strong-lambda-go/config"
	"github.com/glimte/strong-lambda-go/contracts"
	"github.com/glimte/strong-lambda-go/interceptors"
)

const defaultHandlerName = "handler"

type handlerConfig struct {
	name           string
	logger         *slog.Logger
	schema         *contracts.Schema
	correlationKey string
	marker         string
	collector      interceptors.MetricsCollector
	interceptors   []interceptors.Interceptor
}

func newHandlerConfig(opts []Option) *handlerConfig {
	cfg := &handlerConfig{
		name:           lambdacontext.FunctionName,
		logger:         slog.Default(),
		correlationKey: interceptors.DefaultCorrelationKey,
		marker:         interceptors.CustomResourceMarker,
	}
	if cfg.name == "" {
		cfg.name = defaultHandlerName
	}

	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures a wrapped handler
type Option func(*handlerConfig)

// WithLogger sets the base logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConfig applies loaded settings. The logger writes to stdout.
func WithConfig(cfg *config.Config) Option {
	return func(c *handlerConfig) {
		if cfg == nil {
			return
		}
		c.logger = cfg.Logger(os.Stdout)
		c.correlationKey = cfg.CorrelationKey
		c.marker = cfg.CustomResourceMarker
	}
}

// WithSchema overrides the schema derived from the params type
func WithSchema(s *contracts.Schema) Option {
	return func(c *handlerConfig) {
		c.schema = s
	}
}

// WithName sets the handler name used in metrics
func WithName(name string) Option {
	return func(c *handlerConfig) {
		c.name = name
	}
}

// WithMetrics records invocations with collector
func WithMetrics(collector interceptors.MetricsCollector) Option {
	return func(c *handlerConfig) {
		c.collector = collector
	}
}

// WithInterceptors appends interceptors that run inside the built-in ones,
// closest to the business function.
func WithInterceptors(list ...interceptors.Interceptor) Option {
	return func(c *handlerConfig) {
		c.interceptors = append(c.interceptors, list...)
	}
}
