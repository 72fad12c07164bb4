package dto

import (
	"github.com/google/uuid"
)

// ChatRequest is one conversational turn. State echoes back whatever
// the previous response returned; the backend holds no session state.
type ChatRequest struct {
	SiteId uuid.UUID             `json:"site_id" validate:"required"`
	Text   string                `json:"text" validate:"required,max=4000"`
	State  *ConversationStateDTO `json:"state,omitempty"`
}

type ChatResponse struct {
	Status         string               `json:"status"`
	Message        string               `json:"message"`
	Payload        interface{}          `json:"payload,omitempty"`
	RejectedFields []string             `json:"rejected_fields,omitempty"`
	Candidates     []CandidateDTO       `json:"candidates,omitempty"`
	State          ConversationStateDTO `json:"state"`
}

type CandidateDTO struct {
	Id    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

type TurnDTO struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type FieldDTO struct {
	Path  string      `json:"path"`
	Value interface{} `json:"value"`
}

type PendingSelectionDTO struct {
	SiteId         uuid.UUID   `json:"site_id"`
	MatchedIds     []uuid.UUID `json:"matched_ids"`
	Labels         []string    `json:"labels"`
	Operation      string      `json:"operation"`
	ProposedUpdate []FieldDTO  `json:"proposed_update,omitempty"`
	Rejected       []string    `json:"rejected,omitempty"`
	Confirmed      bool        `json:"confirmed,omitempty"`
}

type PendingIntentDTO struct {
	Operation      string     `json:"operation"`
	ProposedUpdate []FieldDTO `json:"proposed_update,omitempty"`
	Rejected       []string   `json:"rejected,omitempty"`
	Confirmed      bool       `json:"confirmed,omitempty"`
}

type PendingDesignDTO struct {
	SiteId   uuid.UUID  `json:"site_id"`
	Fields   []FieldDTO `json:"fields"`
	Rejected []string   `json:"rejected,omitempty"`
}

type ConversationStateDTO struct {
	History          []TurnDTO            `json:"history"`
	PendingSelection *PendingSelectionDTO `json:"pending_selection,omitempty"`
	PendingIntent    *PendingIntentDTO    `json:"pending_intent,omitempty"`
	PendingDesign    *PendingDesignDTO    `json:"pending_design,omitempty"`
}
