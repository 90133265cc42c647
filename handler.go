// Copyright 2024 Strong Lambda Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stronglambda

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/glimte/strong-lambda-go/hydrate"
	"github.com/glimte/strong-lambda-go/interceptors"
	"github.com/google/uuid"
)

// BusinessFunc is the typed function a Handler invokes with hydrated params
type BusinessFunc[T, R any] func(ctx context.Context, params T, logger *slog.Logger) (R, error)

// Handler is the untyped entry point handed to the Lambda runtime
type Handler func(ctx context.Context, event map[string]any) (any, error)

// Wrap turns fn into a Handler. Every invocation is logged, the event is
// hydrated into T, and failed custom resource requests are answered with a
// FAILED response instead of an error.
func Wrap[T, R any](fn BusinessFunc[T, R], opts ...Option) Handler {
	cfg := newHandlerConfig(opts)

	builder := interceptors.NewChainBuilder(cfg.logger).
		WithCustomResource().
		WithLogging(cfg.correlationKey)
	if cfg.collector != nil {
		builder.WithMetrics(cfg.collector)
	}
	builder.WithRecovery()
	for _, interceptor := range cfg.interceptors {
		builder.WithCustom(interceptor)
	}

	final := interceptors.HandlerFunc(func(ctx context.Context, inv *interceptors.Invocation) (any, error) {
		params, err := hydrate.Hydrate[T](inv.Event, cfg.schema)
		if err != nil {
			return nil, err
		}

		result, err := fn(ctx, params, inv.Logger)
		if err != nil {
			return nil, err
		}
		return result, nil
	})

	handler := builder.Build().Then(final)

	return func(ctx context.Context, event map[string]any) (any, error) {
		inv := &interceptors.Invocation{
			Name:           cfg.name,
			Event:          event,
			CustomResource: interceptors.IsCustomResource(event, cfg.marker),
			Logger:         invocationLogger(ctx, cfg.logger),
		}
		return handler.Handle(ctx, inv)
	}
}

// Start hands h to the Lambda runtime. It does not return.
func Start(h Handler) {
	lambda.Start(h)
}

// invocationLogger scopes logger to the current request
func invocationLogger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return logger.With(
			"aws_request_id", lc.AwsRequestID,
			"function_name", lambdacontext.FunctionName,
		)
	}
	return logger.With("invocation_id", uuid.New().String())
}
