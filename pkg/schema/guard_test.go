package schema

import (
	"testing"
)

func TestFilterProtected(t *testing.T) {
	fields := []Field{
		{Path: "name", Value: "Hero"},
		{Path: "id", Value: "11111111-1111-1111-1111-111111111111"},
		{Path: "props.title", Value: "Home"},
		{Path: "site_id", Value: "22222222-2222-2222-2222-222222222222"},
		{Path: "kind", Value: "banner"},
		{Path: "card_design.radius", Value: 8},
	}

	got := FilterProtected(fields)

	wantAllowed := []string{"name", "props.title", "card_design.radius"}
	if len(got.Allowed) != len(wantAllowed) {
		t.Fatalf("Allowed = %d fields, want %d", len(got.Allowed), len(wantAllowed))
	}
	for i, path := range wantAllowed {
		if got.Allowed[i].Path != path {
			t.Errorf("Allowed[%d] = %q, want %q", i, got.Allowed[i].Path, path)
		}
	}

	wantRejected := []string{"id", "site_id", "kind"}
	if len(got.Rejected) != len(wantRejected) {
		t.Fatalf("Rejected = %v, want %v", got.Rejected, wantRejected)
	}
	for i, path := range wantRejected {
		if got.Rejected[i] != path {
			t.Errorf("Rejected[%d] = %q, want %q", i, got.Rejected[i], path)
		}
	}
}

func TestIsProtected(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"id", true},
		{"ID", true},
		{"  created_at ", true},
		{"updated_at", true},
		{"site_id.anything", true},
		{"kind", true},
		{"kindness", false},
		{"props.id_card", false},
		{"name", false},
	}

	for _, tt := range tests {
		if got := isProtected(tt.path); got != tt.want {
			t.Errorf("isProtected(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
