// Package contracts describes the record types a handler accepts.
//
// A Schema lists named fields in declaration order. Each field is either a
// scalar, assigned verbatim during hydration, or a nested record with its
// own Schema. Schemas are immutable and may be shared by concurrent
// invocations.
//
// Schemas can be declared by hand:
//
//	address := contracts.MustNew("Address",
//		contracts.String("street"),
//		contracts.String("city"),
//	)
//	customer := contracts.MustNew("Customer",
//		contracts.String("email"),
//		contracts.Record("address", address),
//		contracts.String("nickname", contracts.Optional()),
//	)
//
// derived from a Go struct, using json tags for key names and omitempty or
// `contract:"optional"` for optional fields:
//
//	type Customer struct {
//		Email    string  `json:"email"`
//		Address  Address `json:"address"`
//		Nickname string  `json:"nickname,omitempty"`
//	}
//
//	schema := contracts.MustOf[Customer]()
//
// or loaded from YAML with ParseYAML and LoadYAML.
//
// RequiredPaths flattens a schema into the field paths an event must
// carry, joining nested keys with Separator:
//
//	schema.RequiredPaths() // ["email", "address:street", "address:city"]
//
// JSONSchema exports the same structure as a draft-07 JSON Schema document.
package contracts
