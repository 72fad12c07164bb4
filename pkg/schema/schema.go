package schema

import (
	"strings"
)

// Field is one canonical-path update entry. Updates are carried as an
// ordered slice rather than a map so the compiled write plan has a
// deterministic application order.
type Field struct {
	Path  string
	Value interface{}
}

// Schema declares the column vocabulary for one updatable table:
// which top-level columns are scalars, which hold a nested JSON document,
// and which are categorical (exact-match in search criteria).
type Schema struct {
	Name             string
	ScalarColumns    map[string]bool
	DocumentColumns  map[string]bool
	Categorical      map[string]bool
	// DefaultContainer receives unresolved raw keys as document sub-keys
	// when no safer interpretation exists. Empty means unresolved keys
	// are rejected instead of passed through.
	DefaultContainer string

	synonyms  map[string]string
	threshold float64
}

// KnownPath reports whether a dotted canonical path targets a declared
// column of this schema.
func (s *Schema) KnownPath(path string) bool {
	column, _, nested := strings.Cut(path, ".")
	if nested {
		return s.DocumentColumns[column]
	}
	return s.ScalarColumns[column] || s.DocumentColumns[column]
}

// IsCategorical reports whether a canonical path must use exact matching
// in search criteria.
func (s *Schema) IsCategorical(path string) bool {
	return s.Categorical[path]
}
