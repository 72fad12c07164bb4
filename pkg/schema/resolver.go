package schema

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// fuzzyThreshold is the maximum normalized edit distance (distance divided
// by the longer key length) accepted as a confident match. 0.34 admits
// typos like "sosial icon style" -> "social icon style" while rejecting
// unrelated keys.
const fuzzyThreshold = 0.34

// Resolution is the outcome of resolving one raw field name.
type Resolution struct {
	// Path is the canonical dotted path. Empty when unresolved.
	Path string
	// Resolved is true only for a confident match (exact or within the
	// fuzzy threshold). Callers must never treat a low-confidence match
	// as resolved.
	Resolved bool
	// Raw carries the original key forward unchanged so callers may pass
	// it through verbatim with a warning instead of dropping user intent.
	Raw string
}

// Resolve maps a raw, user-supplied field name onto a canonical dotted
// path of this schema. Lookup order: exact case-insensitive synonym match,
// then best approximate match within fuzzyThreshold. Fully deterministic,
// no I/O.
func (s *Schema) Resolve(rawKey string) Resolution {
	normalized := normalizeKey(rawKey)

	if path, ok := s.synonyms[normalized]; ok {
		return Resolution{Path: path, Resolved: true, Raw: rawKey}
	}

	// A dotted key that already names a declared column is canonical.
	// Checked on the lowercased form only: separators are significant in
	// canonical paths ("card_design.radius").
	if lowered := strings.ToLower(strings.TrimSpace(rawKey)); s.KnownPath(lowered) {
		return Resolution{Path: lowered, Resolved: true, Raw: rawKey}
	}

	// Scan synonyms in sorted key order so a distance tie always breaks
	// toward the lexicographically smaller key, independent of map
	// iteration order.
	keys := make([]string, 0, len(s.synonyms))
	for key := range s.synonyms {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	bestPath := ""
	bestScore := 1.0
	for _, key := range keys {
		score := similarity(normalized, key)
		if score < bestScore {
			bestScore = score
			bestPath = s.synonyms[key]
		}
	}
	threshold := s.threshold
	if threshold == 0 {
		threshold = fuzzyThreshold
	}
	if bestPath != "" && bestScore <= threshold {
		return Resolution{Path: bestPath, Resolved: true, Raw: rawKey}
	}

	return Resolution{Raw: rawKey}
}

// similarity returns the edit distance normalized by the longer key, so
// the score is comparable across keys of different lengths.
func similarity(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

// normalizeKey lowercases and collapses separators so "Card_Design.Radius",
// "card design radius" and "card-design radius" normalize identically.
func normalizeKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, "_", " ")
	key = strings.ReplaceAll(key, "-", " ")
	return strings.Join(strings.Fields(key), " ")
}
