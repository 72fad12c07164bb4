package service

import (
	"testing"

	"ai-sitebuilder-be/internal/dto"
	"ai-sitebuilder-be/pkg/agent"
	"ai-sitebuilder-be/pkg/schema"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStateMappingRoundTrip(t *testing.T) {
	siteId := uuid.New()
	in := &dto.ConversationStateDTO{
		History: []dto.TurnDTO{
			{Speaker: "user", Text: "change the title"},
			{Speaker: "agent", Text: "which component?"},
		},
		PendingSelection: &dto.PendingSelectionDTO{
			SiteId:     siteId,
			MatchedIds: []uuid.UUID{uuid.New(), uuid.New()},
			Labels:     []string{"Pricing card (card)", "Promo card (card)"},
			Operation:  "update",
			ProposedUpdate: []dto.FieldDTO{
				{Path: "props.title", Value: "Home"},
			},
			Rejected: []string{"id"},
		},
		PendingDesign: &dto.PendingDesignDTO{
			SiteId: siteId,
			Fields: []dto.FieldDTO{
				{Path: "header_design.logo-size", Value: "large"},
			},
			Rejected: []string{"velocity"},
		},
	}

	state := stateFromDTO(in)
	require.Len(t, state.History, 2)
	require.NotNil(t, state.PendingSelection)
	assert.Equal(t, "update", state.PendingSelection.Operation)
	assert.Equal(t, []schema.Field{{Path: "props.title", Value: "Home"}}, state.PendingSelection.ProposedUpdate)
	assert.Equal(t, []string{"id"}, state.PendingSelection.Rejected)
	require.NotNil(t, state.PendingDesign)
	assert.Nil(t, state.PendingIntent)

	out := stateToDTO(state)
	assert.Equal(t, *in, out)
}

func TestStateFromDTOHandlesNil(t *testing.T) {
	state := stateFromDTO(nil)
	assert.Empty(t, state.History)
	assert.Nil(t, state.PendingSelection)
	assert.Nil(t, state.PendingIntent)
	assert.Nil(t, state.PendingDesign)

	out := stateToDTO(agent.ConversationState{})
	assert.Empty(t, out.History)
	assert.Nil(t, out.PendingSelection)
}
