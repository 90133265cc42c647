// Package interceptors provides the interceptor chain wrapped around every
// handler invocation.
//
// Cross-cutting concerns are layered around the business handler without
// touching it. The chain is built back to front, so the first interceptor
// added sees the invocation first and the result last.
//
// Built-in interceptors:
//   - CustomResourceInterceptor: answers failed CloudFormation custom resource
//     calls with {Status: FAILED, Reason: ...} instead of an error
//   - LoggingInterceptor: logs the event (minus the correlation id) before the
//     call and duration, outcome and stack trace after it
//   - MetricsInterceptor: counts invocations, durations and errors by kind
//   - RecoveryInterceptor: converts panics into PanicError values
//
// Example usage:
//
//	chain := interceptors.NewChainBuilder(logger).
//		WithCustomResource().
//		WithLogging(interceptors.DefaultCorrelationKey).
//		WithMetrics(collector).
//		WithRecovery().
//		Build()
//
//	result, err := chain.Execute(ctx, inv, finalHandler)
//
// Custom interceptors implement Interceptor:
//
//	type tenantInterceptor struct{}
//
//	func (tenantInterceptor) Intercept(ctx context.Context, inv *interceptors.Invocation, next interceptors.Handler) (any, error) {
//		if tenant, ok := inv.Event["tenant"].(string); ok {
//			inv.Logger = inv.Logger.With("tenant", tenant)
//		}
//		return next.Handle(ctx, inv)
//	}
//
//	func (tenantInterceptor) Name() string { return "tenantInterceptor" }
package interceptors
