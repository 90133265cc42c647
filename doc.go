// Package stronglambda wraps typed business functions as Lambda handlers.
//
// A wrapped function receives its event hydrated into a contract struct:
//
//	type Order struct {
//		ID       string   `json:"id"`
//		Customer Customer `json:"customer"`
//		Note     string   `json:"note,omitempty"`
//	}
//
//	func handle(ctx context.Context, order Order, logger *slog.Logger) (string, error) {
//		logger.Info("processing", "id", order.ID)
//		return order.ID, nil
//	}
//
//	func main() {
//		stronglambda.Start(stronglambda.Wrap(handle))
//	}
//
// Missing required keys fail the invocation with a
// *hydrate.MissingFieldsError naming every absent path. Events carrying
// ResourceProperties are treated as CloudFormation custom resource requests
// and answered with {"Status": "FAILED", "Reason": ...} when they fail.
//
// Lambda decodes events from JSON, so numbers arrive as float64 and are not
// converted. Declare numeric contract fields as float64; an int field fails
// hydration with a *hydrate.ConstructionError.
package stronglambda
