package agent

import (
	"sort"
	"strings"

	"ai-sitebuilder-be/pkg/schema"
)

// resolvedUpdate is a raw argument map pushed through the full
// guard -> resolve -> guard pipeline.
type resolvedUpdate struct {
	Fields      []schema.Field
	Rejected    []string
	Passthrough []string
}

// resolveUpdate canonicalizes a raw field map against one schema. The
// protected-path guard runs twice: once on the raw keys and again on the
// resolved canonical paths, because a synonym can resolve into a
// protected path. Keys are processed in sorted order so the compiled
// write plan is deterministic.
func resolveUpdate(s *schema.Schema, raw map[string]interface{}) resolvedUpdate {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	preGuard := make([]schema.Field, 0, len(keys))
	for _, k := range keys {
		preGuard = append(preGuard, schema.Field{Path: k, Value: raw[k]})
	}
	first := schema.FilterProtected(preGuard)

	result := resolvedUpdate{Rejected: first.Rejected}
	canonical := make([]schema.Field, 0, len(first.Allowed))
	for _, f := range first.Allowed {
		resolution := s.Resolve(f.Path)
		if !resolution.Resolved {
			if s.DefaultContainer == "" {
				result.Rejected = append(result.Rejected, f.Path)
				continue
			}
			// Carry unresolved intent into the default container rather
			// than dropping it silently.
			path := s.DefaultContainer + "." + passthroughKey(f.Path)
			canonical = append(canonical, schema.Field{Path: path, Value: f.Value})
			result.Passthrough = append(result.Passthrough, f.Path)
			continue
		}
		canonical = append(canonical, schema.Field{Path: resolution.Path, Value: f.Value})
	}

	second := schema.FilterProtected(canonical)
	result.Fields = second.Allowed
	result.Rejected = append(result.Rejected, second.Rejected...)
	return result
}

func passthroughKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.Join(strings.Fields(key), "_")
	return strings.ReplaceAll(key, "-", "_")
}
