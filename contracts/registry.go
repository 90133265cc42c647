package contracts

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry caches schemas described from Go types and holds named
// declarative schemas.
type Registry struct {
	byType map[reflect.Type]*Schema
	byName map[string]*Schema
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[reflect.Type]*Schema),
		byName: make(map[string]*Schema),
	}
}

// Describe returns the schema for a struct type, building it on first use
func (r *Registry) Describe(t reflect.Type) (*Schema, error) {
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	r.mu.RLock()
	s, ok := r.byType[t]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := FromType(t)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another caller may have won the race; keep the first schema
	if existing, ok := r.byType[t]; ok {
		return existing, nil
	}
	r.byType[t] = s
	return s, nil
}

// Register stores a schema under its name
func (r *Registry) Register(s *Schema) error {
	if s == nil {
		return fmt.Errorf("%w: schema cannot be nil", ErrInvalidSchema)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.byName[s.name]; exists {
		if existing == s {
			return nil
		}
		return fmt.Errorf("%w: schema name %s already registered", ErrInvalidSchema, s.name)
	}
	r.byName[s.name] = s
	if s.goType != nil {
		r.byType[s.goType] = s
	}
	return nil
}

// Get retrieves a schema by name
func (r *Registry) Get(name string) (*Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("schema %s not registered", name)
	}
	return s, nil
}

// Names returns the registered schema names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by Of
func DefaultRegistry() *Registry {
	return defaultRegistry
}
