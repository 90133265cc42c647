package hydrate

import (
	"github.com/glimte/strong-lambda-go/contracts"
)

// Validate checks that every path is present in input. Paths are split on
// contracts.Separator and resolved level by level; a missing key or a
// non-mapping intermediate value marks the whole path missing. All misses
// are reported together in a MissingFieldsError.
func Validate(input map[string]any, paths []string) error {
	var missing []string
	for _, path := range paths {
		if _, ok := Lookup(input, path); !ok {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Paths: missing}
	}
	return nil
}

// Lookup resolves a field path against input
func Lookup(input map[string]any, path string) (any, bool) {
	return lookupKeys(input, contracts.SplitPath(path))
}

func lookupKeys(input map[string]any, keys []string) (any, bool) {
	var current any = input
	for _, key := range keys {
		level, ok := asMapping(current)
		if !ok {
			return nil, false
		}
		value, exists := level[key]
		if !exists {
			return nil, false
		}
		current = value
	}
	return current, true
}

// asMapping accepts the map shapes decoded events and hydrated records use
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case Record:
		return m, m != nil
	default:
		return nil, false
	}
}

// PathsFor returns the paths input must provide for s. It equals
// s.RequiredPaths() plus, for optional records present in input, the
// required paths inside them.
func PathsFor(input map[string]any, s *contracts.Schema) []string {
	result := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		if f.Kind != contracts.KindRecord {
			if !f.Optional {
				result = append(result, f.Name)
			}
			continue
		}

		raw, present := input[f.Name]
		if f.Optional && (!present || raw == nil) {
			continue
		}
		sub, isMapping := asMapping(raw)
		if f.Optional && !isMapping {
			// Left for construction to reject
			continue
		}
		for _, inner := range PathsFor(sub, f.Schema) {
			result = append(result, contracts.JoinPath(f.Name, inner))
		}
	}
	return result
}
