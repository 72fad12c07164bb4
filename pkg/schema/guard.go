package schema

import "strings"

// protectedPrefixes are identity and type paths that must never be
// altered by an update, regardless of how the user named them.
var protectedPrefixes = []string{
	"id",
	"site_id",
	"kind",
	"created_at",
	"updated_at",
}

// GuardResult separates an update into writable fields and rejected keys.
type GuardResult struct {
	Allowed  []Field
	Rejected []string
}

// FilterProtected drops every field whose path equals, or is nested
// under, a protected prefix. It runs both before and after resolution:
// resolution can map an innocuous raw key onto a protected canonical
// path, so a single pre-resolution pass is not enough.
func FilterProtected(fields []Field) GuardResult {
	result := GuardResult{}
	for _, f := range fields {
		if isProtected(f.Path) {
			result.Rejected = append(result.Rejected, f.Path)
			continue
		}
		result.Allowed = append(result.Allowed, f)
	}
	return result
}

func isProtected(path string) bool {
	lowered := strings.ToLower(strings.TrimSpace(path))
	for _, prefix := range protectedPrefixes {
		if lowered == prefix || strings.HasPrefix(lowered, prefix+".") {
			return true
		}
	}
	return false
}
