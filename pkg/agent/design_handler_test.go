package agent

import (
	"testing"
)

func TestConfirmationWording(t *testing.T) {
	tests := []struct {
		text        string
		affirmative bool
		negative    bool
	}{
		{"yes", true, false},
		{"yes please", true, false},
		{"sure, go ahead", true, false},
		{"no", false, true},
		{"nope", false, true},
		{"no, don't apply it", true, true},
		{"dont", false, true},
		{"never mind", false, true},
		// Whole-word boundaries: "now" is not "no", "know" is not "no",
		// "applying" is not "apply".
		{"now what?", false, false},
		{"I know better", false, false},
		{"what are you applying?", false, false},
		{"hmm", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := isAffirmative(tt.text); got != tt.affirmative {
				t.Errorf("isAffirmative(%q) = %v, want %v", tt.text, got, tt.affirmative)
			}
			if got := isNegative(tt.text); got != tt.negative {
				t.Errorf("isNegative(%q) = %v, want %v", tt.text, got, tt.negative)
			}
		})
	}
}

func TestDeleteWordingNeverConfirmsNegatedTurns(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"yes, delete it", true},
		{"get rid of it", true},
		{"confirm", true},
		{"no, don't delete it", false},
		{"stop, don't remove it", false},
		{"I want that thing gone", false},
		{"undelete it", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := hasExplicitDeleteIntent(tt.text); got != tt.want {
				t.Errorf("hasExplicitDeleteIntent(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
