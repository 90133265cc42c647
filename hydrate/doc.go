// Package hydrate turns loosely typed event mappings into contract values.
//
// Hydration runs in two steps. Validate checks that every required field
// path of the schema resolves in the input, collecting all misses into one
// MissingFieldsError:
//
//	Keys ['customer:email', 'amount'] not found in event
//
// Construction then copies values into a new instance, recursing into
// nested records. Values are assigned as-is, except that a plain scalar may
// fill a named type of the same kind. A value whose Go type does not fit the
// field is a ConstructionError. The two error types stay distinct
// so callers can branch on them with IsMissingFields and IsConstruction.
// A null value for an optional field is treated as absent.
//
// Events decoded from JSON carry every number as float64, and float64 is
// not converted to int. Declare numeric contract fields as float64:
//
//	type Payment struct {
//		Amount float64 `json:"amount"`
//	}
//
//	order, err := hydrate.Hydrate[Order](event, nil)
//	switch {
//	case hydrate.IsMissingFields(err):
//		// reject the event
//	case hydrate.IsConstruction(err):
//		// contract and payload disagree on a type
//	}
//
// Declarative schemas without a Go type hydrate into a Record with
// HydrateRecord. Everything here is stateless and safe for concurrent use.
package hydrate
