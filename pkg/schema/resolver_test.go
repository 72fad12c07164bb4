package schema

import (
	"testing"
)

func TestComponentResolve(t *testing.T) {
	s := ComponentSchema()

	tests := []struct {
		name         string
		rawKey       string
		wantPath     string
		wantResolved bool
	}{
		{
			name:         "exact synonym",
			rawKey:       "title",
			wantPath:     "props.title",
			wantResolved: true,
		},
		{
			name:         "case and separator insensitive",
			rawKey:       "Card_Title",
			wantPath:     "props.title",
			wantResolved: true,
		},
		{
			name:         "scalar synonym",
			rawKey:       "component name",
			wantPath:     "name",
			wantResolved: true,
		},
		{
			name:         "canonical dotted path passes through",
			rawKey:       "card_design.radius",
			wantPath:     "card_design.radius",
			wantResolved: true,
		},
		{
			name:         "typo within threshold",
			rawKey:       "descripton",
			wantPath:     "props.description",
			wantResolved: true,
		},
		{
			name:         "unknown key stays unresolved",
			rawKey:       "xyzzy",
			wantResolved: false,
		},
		{
			name:         "design vocabulary does not leak in",
			rawKey:       "footer text",
			wantResolved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(tt.rawKey)

			if got.Resolved != tt.wantResolved {
				t.Errorf("Resolved = %v, want %v", got.Resolved, tt.wantResolved)
			}
			if got.Resolved && got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Raw != tt.rawKey {
				t.Errorf("Raw = %q, want %q", got.Raw, tt.rawKey)
			}
		})
	}
}

func TestDesignResolve(t *testing.T) {
	s := DesignSchema()

	tests := []struct {
		name         string
		rawKey       string
		wantPath     string
		wantResolved bool
	}{
		{
			name:         "hyphenated document key",
			rawKey:       "social icon style",
			wantPath:     "header_design.social-icon-style",
			wantResolved: true,
		},
		{
			name:         "typo within threshold",
			rawKey:       "sosial icon style",
			wantPath:     "header_design.social-icon-style",
			wantResolved: true,
		},
		{
			name:         "scalar synonym",
			rawKey:       "typeface",
			wantPath:     "font",
			wantResolved: true,
		},
		{
			name:         "component vocabulary does not leak in",
			rawKey:       "subtitle",
			wantResolved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Resolve(tt.rawKey)

			if got.Resolved != tt.wantResolved {
				t.Errorf("Resolved = %v, want %v", got.Resolved, tt.wantResolved)
			}
			if got.Resolved && got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	s := ComponentSchema()
	// A typo exercises the fuzzy scan over the synonym map.
	first := s.Resolve("pictur")
	for i := 0; i < 50; i++ {
		got := s.Resolve("pictur")
		if got != first {
			t.Fatalf("Resolve diverged on run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestResolveBreaksDistanceTiesBySortedKey(t *testing.T) {
	// Two synonyms at the same edit distance from the input. The winner
	// must be the lexicographically smaller key on every run, not
	// whichever the map hands out first.
	s := &Schema{
		Name:            "tie",
		DocumentColumns: map[string]bool{"props": true},
		synonyms: map[string]string{
			"accent shade": "props.accent",
			"accent shape": "props.shape",
		},
	}

	for i := 0; i < 100; i++ {
		got := s.Resolve("accent shale")
		if !got.Resolved || got.Path != "props.accent" {
			t.Fatalf("run %d: got %+v, want resolved props.accent", i, got)
		}
	}
}

func TestKnownPath(t *testing.T) {
	s := ComponentSchema()

	tests := []struct {
		path string
		want bool
	}{
		{"name", true},
		{"props", true},
		{"props.title", true},
		{"card_design.radius", true},
		{"header_design.logo-size", false},
		{"bogus", false},
		{"bogus.key", false},
	}

	for _, tt := range tests {
		if got := s.KnownPath(tt.path); got != tt.want {
			t.Errorf("KnownPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
