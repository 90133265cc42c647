package interceptors

import "context"

const (
	// CustomResourceMarker is the event key CloudFormation custom resource
	// requests always carry.
	CustomResourceMarker = "ResourceProperties"

	// StatusFailed is the custom resource status reported on failure
	StatusFailed = "FAILED"
)

// IsCustomResource reports whether event carries marker
func IsCustomResource(event map[string]any, marker string) bool {
	if event == nil {
		return false
	}
	_, ok := event[marker]
	return ok
}

// FailedResponse builds the custom resource failure payload for err
func FailedResponse(err error) map[string]any {
	return map[string]any{
		"Status": StatusFailed,
		"Reason": err.Error(),
	}
}

// CustomResourceInterceptor answers failed custom resource invocations with
// a FAILED response instead of an error. Other invocations pass through.
type CustomResourceInterceptor struct{}

// NewCustomResourceInterceptor creates a new custom resource interceptor
func NewCustomResourceInterceptor() *CustomResourceInterceptor {
	return &CustomResourceInterceptor{}
}

// Intercept implements Interceptor
func (i *CustomResourceInterceptor) Intercept(ctx context.Context, inv *Invocation, next Handler) (any, error) {
	result, err := next.Handle(ctx, inv)
	if err != nil && inv.CustomResource {
		return FailedResponse(err), nil
	}
	return result, err
}

// Name implements Interceptor
func (i *CustomResourceInterceptor) Name() string {
	return "CustomResourceInterceptor"
}
