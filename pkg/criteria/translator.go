package criteria

import (
	"sort"
	"strings"

	"ai-sitebuilder-be/pkg/schema"
)

// Comparator selects how a predicate matches.
type Comparator int

const (
	// Equals is exact matching, used for categorical identity fields.
	Equals Comparator = iota
	// ContainsCI is case-insensitive substring matching, the default for
	// descriptive fields.
	ContainsCI
)

func (c Comparator) String() string {
	if c == Equals {
		return "equals"
	}
	return "contains_ci"
}

// Predicate is one compiled filter. JSONKey is empty for scalar columns.
// Values are always bound as parameters by the store, never interpolated.
type Predicate struct {
	Column     string
	JSONKey    string
	Comparator Comparator
	Value      interface{}
}

// Result carries the compiled predicates plus any raw keys that had no
// confident canonical mapping and were passed through to the schema's
// default container.
type Result struct {
	Predicates  []Predicate
	Passthrough []string
	Dropped     []string
}

// Translate compiles a flat or dotted criteria map into ordered
// predicates. Keys resolve through the schema's field resolver;
// categorical fields always compare with Equals, everything else with
// ContainsCI. Keys are processed in sorted order so translation is
// deterministic.
func Translate(s *schema.Schema, criteria map[string]interface{}) Result {
	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var result Result
	for _, rawKey := range keys {
		value := criteria[rawKey]

		resolution := s.Resolve(rawKey)
		path := resolution.Path
		if !resolution.Resolved {
			if s.DefaultContainer == "" {
				result.Dropped = append(result.Dropped, rawKey)
				continue
			}
			// No confident mapping: match against the default document
			// container under the raw key rather than dropping intent.
			path = s.DefaultContainer + "." + sanitizeKey(rawKey)
			result.Passthrough = append(result.Passthrough, rawKey)
		}

		comparator := ContainsCI
		if s.IsCategorical(path) {
			comparator = Equals
		}

		column, jsonKey, nested := strings.Cut(path, ".")
		if !nested {
			jsonKey = ""
		}
		result.Predicates = append(result.Predicates, Predicate{
			Column:     column,
			JSONKey:    jsonKey,
			Comparator: comparator,
			Value:      value,
		})
	}
	return result
}

// sanitizeKey normalizes a passthrough key into the snake_case form used
// inside document columns.
func sanitizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Join(strings.Fields(key), "_")
	return strings.ReplaceAll(key, "-", "_")
}
