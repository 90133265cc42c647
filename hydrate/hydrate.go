package hydrate

import (
	"fmt"

	"github.com/glimte/strong-lambda-go/contracts"
)

// Hydrate validates input against s and builds a T from it. T must be the
// struct type s is bound to, or a pointer to it. A nil schema is derived
// from T with contracts.Of.
//
// Presence is checked first; if any required path is absent a
// MissingFieldsError naming all of them is returned and nothing is built.
func Hydrate[T any](input map[string]any, s *contracts.Schema) (T, error) {
	if s == nil {
		var err error
		if s, err = contracts.Of[T](); err != nil {
			var zero T
			return zero, &ConstructionError{Schema: fmt.Sprintf("%T", zero), Reason: "cannot describe contract", Err: err}
		}
	}

	if err := Validate(input, PathsFor(input, s)); err != nil {
		var zero T
		return zero, err
	}
	return Construct[T](input, s)
}

// HydrateRecord validates input against a declarative schema and returns the
// declared fields as a Record.
func HydrateRecord(input map[string]any, s *contracts.Schema) (Record, error) {
	if err := Validate(input, PathsFor(input, s)); err != nil {
		return nil, err
	}
	return ConstructRecord(input, s)
}
