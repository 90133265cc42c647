package contracts

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Separator joins the segments of a nested field path, e.g. "customer:email".
// It is reserved and may not appear inside a field name.
const Separator = ":"

var (
	// ErrInvalidSchema is returned when a schema definition is malformed
	ErrInvalidSchema = errors.New("contracts: invalid schema")

	// ErrUnsupportedType is returned when a Go type cannot be described as a schema
	ErrUnsupportedType = errors.New("contracts: unsupported type")
)

// Kind tells scalar fields apart from nested record fields
type Kind int

const (
	// KindScalar is any primitive or opaque value assigned as-is
	KindScalar Kind = iota
	// KindRecord is a nested record described by its own Schema
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindRecord:
		return "record"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one named field of a record
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	Schema   *Schema

	// Set only for schemas bound to a Go struct type.
	index   []int
	goType  reflect.Type
	pointer bool
}

// Index returns the struct field index path of a struct-bound field
func (f Field) Index() []int {
	return f.index
}

// GoType returns the declared Go type of a struct-bound field, nil otherwise
func (f Field) GoType() reflect.Type {
	return f.goType
}

// IsPointer reports whether a struct-bound record field is declared as a pointer
func (f Field) IsPointer() bool {
	return f.pointer
}

// Schema is an immutable record definition. Build it once, at handler
// definition time, and share it freely between invocations.
type Schema struct {
	name   string
	goType reflect.Type
	fields []Field
}

// Name returns the schema name
func (s *Schema) Name() string {
	return s.name
}

// GoType returns the struct type the schema is bound to, or nil for
// declarative schemas.
func (s *Schema) GoType() reflect.Type {
	return s.goType
}

// Fields returns a copy of the declared fields in declaration order
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of declared fields
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field looks up a declared field by name
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// String renders the schema as name{field, nested{...}}
func (s *Schema) String() string {
	b := &strings.Builder{}
	s.render(b)
	return b.String()
}

func (s *Schema) render(b *strings.Builder) {
	b.WriteString(s.name)
	b.WriteByte('{')
	for i, f := range s.fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		if f.Optional {
			b.WriteByte('?')
		}
		if f.Kind == KindRecord && f.Schema != nil {
			b.WriteByte(':')
			f.Schema.render(b)
		}
	}
	b.WriteByte('}')
}

// FieldOption tweaks a declaratively built field
type FieldOption func(*Field)

// Optional marks the field as not required
func Optional() FieldOption {
	return func(f *Field) {
		f.Optional = true
	}
}

// Scalar declares a scalar field
func Scalar(name string, opts ...FieldOption) Field {
	f := Field{Name: name, Kind: KindScalar}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// String declares a scalar field. The name mirrors the most common payload
// type; no coercion or type check is applied.
func String(name string, opts ...FieldOption) Field {
	return Scalar(name, opts...)
}

// Record declares a nested record field
func Record(name string, nested *Schema, opts ...FieldOption) Field {
	f := Field{Name: name, Kind: KindRecord, Schema: nested}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// New builds a declarative schema that is not bound to a Go type
func New(name string, fields ...Field) (*Schema, error) {
	s := &Schema{name: name, fields: append([]Field(nil), fields...)}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustNew is like New but panics on an invalid definition
func MustNew(name string, fields ...Field) *Schema {
	s, err := New(name, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) check() error {
	if s.name == "" {
		return fmt.Errorf("%w: schema name cannot be empty", ErrInvalidSchema)
	}

	seen := make(map[string]bool, len(s.fields))
	for _, f := range s.fields {
		if err := checkFieldName(s.name, f.Name); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: %s declares field %q twice", ErrInvalidSchema, s.name, f.Name)
		}
		seen[f.Name] = true

		if f.Kind == KindRecord && f.Schema == nil {
			return fmt.Errorf("%w: record field %s.%s has no nested schema", ErrInvalidSchema, s.name, f.Name)
		}
		if f.Kind == KindScalar && f.Schema != nil {
			return fmt.Errorf("%w: scalar field %s.%s cannot carry a nested schema", ErrInvalidSchema, s.name, f.Name)
		}
	}
	return nil
}

func checkFieldName(schemaName, fieldName string) error {
	if fieldName == "" {
		return fmt.Errorf("%w: %s has a field with an empty name", ErrInvalidSchema, schemaName)
	}
	if strings.Contains(fieldName, Separator) {
		return fmt.Errorf("%w: field name %q in %s contains reserved separator %q",
			ErrInvalidSchema, fieldName, schemaName, Separator)
	}
	return nil
}
