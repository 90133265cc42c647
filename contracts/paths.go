package contracts

import "strings"

// RequiredPaths flattens the schema into the field paths an input mapping
// must provide. Nested record paths are prefixed with the parent field name
// and Separator; order is depth first, declaration order per level.
// Optional fields are skipped together with everything below them.
func RequiredPaths(s *Schema) []string {
	result := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		if f.Optional {
			continue
		}
		if f.Kind != KindRecord {
			result = append(result, f.Name)
			continue
		}
		for _, inner := range RequiredPaths(f.Schema) {
			result = append(result, JoinPath(f.Name, inner))
		}
	}
	return result
}

// RequiredPaths is a method form of the package function
func (s *Schema) RequiredPaths() []string {
	return RequiredPaths(s)
}

// JoinPath joins path segments with Separator
func JoinPath(segments ...string) string {
	return strings.Join(segments, Separator)
}

// SplitPath splits a field path into its key segments
func SplitPath(path string) []string {
	return strings.Split(path, Separator)
}
