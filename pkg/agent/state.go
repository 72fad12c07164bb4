package agent

import (
	"regexp"
	"strconv"

	"ai-sitebuilder-be/pkg/schema"

	"github.com/google/uuid"
)

// Speaker constants for conversation turns.
const (
	SpeakerUser  = "user"
	SpeakerAgent = "agent"
)

// Turn is one utterance in the conversation history.
type Turn struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// PendingSelection is the carried disambiguation state: an unresolved
// multiple-match awaiting a numeric choice. Non-nil only while more than
// one candidate is outstanding; cleared exactly once, when a selection
// resolves or is found invalid for good.
type PendingSelection struct {
	SiteId uuid.UUID `json:"site_id"`
	// MatchedIds is the ordered candidate list the user picks from,
	// 1-based in conversation.
	MatchedIds []uuid.UUID `json:"matched_ids"`
	// Labels mirror MatchedIds for display.
	Labels []string `json:"labels"`
	// Operation is the remembered operation to replay once a candidate
	// is chosen: "get", "update" or "delete".
	Operation string `json:"operation"`
	// ProposedUpdate carries the canonical-path update remembered from
	// the turn that triggered disambiguation.
	ProposedUpdate []schema.Field `json:"proposed_update,omitempty"`
	// Rejected keys from the originating turn, reported again when the
	// remembered update finally applies.
	Rejected []string `json:"rejected,omitempty"`
	// Confirmed records whether the originating turn carried explicit
	// delete confirmation wording.
	Confirmed bool `json:"confirmed,omitempty"`
}

// PendingIntent remembers an operation that is still missing its target
// component. It bridges the turn that stated the intent ("update the
// title to Home") and a later turn that narrows down the target.
type PendingIntent struct {
	Operation      string         `json:"operation"`
	ProposedUpdate []schema.Field `json:"proposed_update,omitempty"`
	Rejected       []string       `json:"rejected,omitempty"`
	Confirmed      bool           `json:"confirmed,omitempty"`
}

// PendingDesign is a restated design change awaiting an explicit
// affirmative turn before any write is issued.
type PendingDesign struct {
	SiteId uuid.UUID      `json:"site_id"`
	Fields []schema.Field `json:"fields"`
	// Rejected keys from the originating turn, echoed on apply.
	Rejected []string `json:"rejected,omitempty"`
}

// ConversationState is the entire cross-turn session protocol. It is
// owned by the caller: the dispatcher receives it, returns an updated
// copy, and holds nothing in between, which makes it safe to invoke from
// many callers concurrently.
type ConversationState struct {
	History          []Turn            `json:"history"`
	PendingSelection *PendingSelection `json:"pending_selection,omitempty"`
	PendingIntent    *PendingIntent    `json:"pending_intent,omitempty"`
	PendingDesign    *PendingDesign    `json:"pending_design,omitempty"`
}

func (s ConversationState) clone() ConversationState {
	next := ConversationState{
		History: make([]Turn, len(s.History)),
	}
	copy(next.History, s.History)
	if s.PendingSelection != nil {
		selection := *s.PendingSelection
		next.PendingSelection = &selection
	}
	if s.PendingIntent != nil {
		intent := *s.PendingIntent
		next.PendingIntent = &intent
	}
	if s.PendingDesign != nil {
		design := *s.PendingDesign
		next.PendingDesign = &design
	}
	return next
}

var selectionIndexPattern = regexp.MustCompile(`\b(\d+)\b`)

// parseSelectionIndex extracts a 1-based selection index from a turn
// like "2", "number 2" or "the 2nd one". Returns 0 when the turn carries
// no usable number.
func parseSelectionIndex(text string) int {
	match := selectionIndexPattern.FindString(text)
	if match == "" {
		return 0
	}
	index, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return index
}
