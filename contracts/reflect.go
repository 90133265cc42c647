package contracts

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var timeType = reflect.TypeOf(time.Time{})

// Of describes the struct type T, caching the result in the default registry.
// T may be a struct or a pointer to one.
func Of[T any]() (*Schema, error) {
	return defaultRegistry.Describe(reflect.TypeOf((*T)(nil)).Elem())
}

// MustOf is like Of but panics on error. Meant for package-level schema vars.
func MustOf[T any]() *Schema {
	s, err := Of[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// FromType describes a struct type without caching it
func FromType(t reflect.Type) (*Schema, error) {
	b := &typeDescriber{inProgress: make(map[reflect.Type]bool)}
	return b.describe(t)
}

// typeDescriber turns struct types into schemas. inProgress tracks the types
// on the current descent to reject self-referencing contracts.
type typeDescriber struct {
	inProgress map[reflect.Type]bool
}

func (d *typeDescriber) describe(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrUnsupportedType)
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: contract must be a struct, got %v", ErrUnsupportedType, t.Kind())
	}
	if d.inProgress[t] {
		return nil, fmt.Errorf("%w: %v refers to itself", ErrUnsupportedType, t)
	}

	d.inProgress[t] = true
	defer delete(d.inProgress, t)

	name := t.Name()
	if name == "" {
		name = t.String()
	}

	s := &Schema{name: name, goType: t}
	if err := d.collect(t, nil, &s.fields); err != nil {
		return nil, err
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// collect appends the fields of t to dst, flattening untagged embedded structs
func (d *typeDescriber) collect(t reflect.Type, prefix []int, dst *[]Field) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), prefix...), i)

		jsonTag := sf.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name, omitempty := parseJSONTag(jsonTag)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				return fmt.Errorf("%w: embedded pointer %v in %v", ErrUnsupportedType, ft, t)
			}
			if ft.Kind() == reflect.Struct {
				if err := d.collect(ft, index, dst); err != nil {
					return err
				}
				continue
			}
		}

		// Skip unexported fields
		if sf.PkgPath != "" {
			continue
		}

		if name == "" {
			name = sf.Name
		}

		f := Field{
			Name:     name,
			Kind:     KindScalar,
			Optional: omitempty || hasContractOption(sf.Tag, "optional"),
			index:    index,
			goType:   sf.Type,
		}
		if hasContractOption(sf.Tag, "required") {
			f.Optional = false
		}

		if nested, pointer, ok := recordType(sf.Type); ok {
			ns, err := d.describe(nested)
			if err != nil {
				return fmt.Errorf("field %s.%s: %w", t.Name(), sf.Name, err)
			}
			f.Kind = KindRecord
			f.Schema = ns
			f.pointer = pointer
		}

		*dst = append(*dst, f)
	}
	return nil
}

// recordType reports whether t is described as a nested record
func recordType(t reflect.Type) (reflect.Type, bool, bool) {
	pointer := false
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
		pointer = true
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, false, false
	}
	return t, pointer, true
}

func parseJSONTag(tag string) (string, bool) {
	if tag == "" {
		return "", false
	}
	parts := strings.Split(tag, ",")
	omitempty := false
	for _, part := range parts[1:] {
		if part == "omitempty" {
			omitempty = true
		}
	}
	return parts[0], omitempty
}

func hasContractOption(tag reflect.StructTag, option string) bool {
	for _, part := range strings.Split(tag.Get("contract"), ",") {
		if strings.TrimSpace(part) == option {
			return true
		}
	}
	return false
}
