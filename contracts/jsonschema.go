package contracts

import (
	"reflect"
	"time"
)

// JSONSchemaDraft is the dialect JSONSchema documents declare
const JSONSchemaDraft = "http://json-schema.org/draft-07/schema#"

// JSONSchema renders s as a JSON Schema document. Required fields and
// nesting follow the schema; scalar types come from the bound Go type and
// are left open for declarative schemas.
func (s *Schema) JSONSchema() map[string]any {
	doc := objectSchema(s)
	doc["$schema"] = JSONSchemaDraft
	doc["title"] = s.name
	return doc
}

func objectSchema(s *Schema) map[string]any {
	properties := make(map[string]any, len(s.fields))
	required := make([]string, 0, len(s.fields))

	for _, f := range s.fields {
		if f.Kind == KindRecord {
			properties[f.Name] = objectSchema(f.Schema)
		} else {
			properties[f.Name] = scalarSchema(f.goType)
		}
		if !f.Optional {
			required = append(required, f.Name)
		}
	}

	doc := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

// scalarSchema maps a leaf Go type to its JSON Schema type. A nil type
// accepts any value.
func scalarSchema(t reflect.Type) map[string]any {
	if t == nil {
		return map[string]any{}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return map[string]any{"type": "integer"}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer", "minimum": 0}

	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}

	case reflect.Bool:
		return map[string]any{"type": "boolean"}

	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": scalarSchema(t.Elem())}

	case reflect.Map:
		return map[string]any{"type": "object", "additionalProperties": scalarSchema(t.Elem())}

	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return map[string]any{"type": "string", "format": "date-time"}
		}
		return map[string]any{"type": "object"}

	default:
		return map[string]any{}
	}
}
