package hydrate

import (
	"fmt"
	"reflect"

	"github.com/glimte/strong-lambda-go/contracts"
)

// Record is the hydrated form of a declarative schema: a mapping limited to
// the declared fields, with nested records as Records.
type Record map[string]any

// Construct builds a T from input without checking presence first. Missing
// required values surface as a ConstructionError. Most callers want Hydrate.
func Construct[T any](input map[string]any, s *contracts.Schema) (T, error) {
	var zero T

	target := reflect.TypeOf((*T)(nil)).Elem()
	pointer := target.Kind() == reflect.Ptr
	structType := target
	if pointer {
		structType = target.Elem()
	}

	if s.GoType() != structType {
		bound := "no Go type"
		if s.GoType() != nil {
			bound = s.GoType().String()
		}
		return zero, &ConstructionError{
			Schema: s.Name(),
			Reason: fmt.Sprintf("schema is bound to %s, not %v", bound, structType),
		}
	}

	ptr := reflect.New(structType)
	if err := constructStruct(input, s, ptr.Elem(), ""); err != nil {
		return zero, err
	}

	if pointer {
		return ptr.Interface().(T), nil
	}
	return ptr.Elem().Interface().(T), nil
}

func constructStruct(input map[string]any, s *contracts.Schema, dst reflect.Value, prefix string) error {
	for _, f := range s.Fields() {
		path := joinPrefix(prefix, f.Name)
		raw, present := input[f.Name]
		fv := dst.FieldByIndex(f.Index())

		if f.Kind == contracts.KindRecord {
			sub, skip, err := subMapping(s, f, path, raw, present)
			if err != nil {
				return err
			}
			if skip {
				continue
			}

			if f.IsPointer() {
				nested := reflect.New(f.GoType().Elem())
				if err := constructStruct(sub, f.Schema, nested.Elem(), path); err != nil {
					return err
				}
				fv.Set(nested)
				continue
			}
			if err := constructStruct(sub, f.Schema, fv, path); err != nil {
				return err
			}
			continue
		}

		// A null optional value counts as absent
		if !present || (raw == nil && f.Optional) {
			if f.Optional {
				continue
			}
			return &ConstructionError{Schema: s.Name(), Path: path, Reason: "missing value for required field"}
		}
		if err := assign(fv, raw); err != nil {
			return &ConstructionError{Schema: s.Name(), Path: path, Reason: err.Error()}
		}
	}
	return nil
}

// ConstructRecord builds a Record from input for a declarative schema,
// without checking presence first.
func ConstructRecord(input map[string]any, s *contracts.Schema) (Record, error) {
	return constructRecord(input, s, "")
}

func constructRecord(input map[string]any, s *contracts.Schema, prefix string) (Record, error) {
	out := make(Record, s.Len())
	for _, f := range s.Fields() {
		path := joinPrefix(prefix, f.Name)
		raw, present := input[f.Name]

		if f.Kind == contracts.KindRecord {
			sub, skip, err := subMapping(s, f, path, raw, present)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			nested, err := constructRecord(sub, f.Schema, path)
			if err != nil {
				return nil, err
			}
			out[f.Name] = nested
			continue
		}

		if !present || (raw == nil && f.Optional) {
			if f.Optional {
				continue
			}
			return nil, &ConstructionError{Schema: s.Name(), Path: path, Reason: "missing value for required field"}
		}
		out[f.Name] = raw
	}
	return out, nil
}

// subMapping resolves the mapping a nested record is built from. Absent
// required records default to an empty mapping; absent optional ones are
// skipped.
func subMapping(s *contracts.Schema, f contracts.Field, path string, raw any, present bool) (map[string]any, bool, error) {
	if !present || raw == nil {
		if f.Optional {
			return nil, true, nil
		}
		return map[string]any{}, false, nil
	}

	sub, ok := asMapping(raw)
	if !ok {
		return nil, false, &ConstructionError{
			Schema: s.Name(),
			Path:   path,
			Reason: fmt.Sprintf("expected a mapping for record %s, got %T", f.Schema.Name(), raw),
		}
	}
	return sub, false, nil
}

// assign sets dst to raw without any conversion
func assign(dst reflect.Value, raw any) error {
	if raw == nil {
		switch dst.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		default:
			return fmt.Errorf("null value for non-nullable %v", dst.Type())
		}
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}
	if sameScalarKind(rv.Type(), dst.Type()) {
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %v", raw, dst.Type())
}

// sameScalarKind allows a plain scalar into a named type with the same
// underlying kind, like string into a string enum.
func sameScalarKind(src, dst reflect.Type) bool {
	if src.Kind() != dst.Kind() {
		return false
	}
	switch src.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func joinPrefix(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return contracts.JoinPath(prefix, name)
}
