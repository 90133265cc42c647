package stronglambda

import (
	"context"

	"github.com/glimte/strong-lambda-go/interceptors"
)

// CustomResourceErrorHandler converts any error from h into a FAILED
// custom resource response. Successful results pass through.
func CustomResourceErrorHandler(h Handler) Handler {
	return func(ctx context.Context, event map[string]any) (any, error) {
		result, err := h(ctx, event)
		if err != nil {
			return FailedResponse(err), nil
		}
		return result, nil
	}
}

// IsCustomResource reports whether event is a CloudFormation custom
// resource request.
func IsCustomResource(event map[string]any) bool {
	return interceptors.IsCustomResource(event, interceptors.CustomResourceMarker)
}

// FailedResponse builds the custom resource failure payload for err
func FailedResponse(err error) map[string]any {
	return interceptors.FailedResponse(err)
}
