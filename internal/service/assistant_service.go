package service

import (
	"context"

	"ai-sitebuilder-be/internal/dto"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/pkg/agent"
	"ai-sitebuilder-be/pkg/schema"
	"ai-sitebuilder-be/pkg/transcript"
)

type IAssistantService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type assistantService struct {
	dispatcher  *agent.Dispatcher
	transcripts *transcript.Store // nil when transcripts are disabled
	log         logger.ILogger
}

func NewAssistantService(
	dispatcher *agent.Dispatcher,
	transcripts *transcript.Store,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		dispatcher:  dispatcher,
		transcripts: transcripts,
		log:         log,
	}
}

func (s *assistantService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	state := stateFromDTO(req.State)

	outcome, nextState := s.dispatcher.Dispatch(ctx, req.SiteId, req.Text, state)

	if s.transcripts != nil {
		if err := s.transcripts.Append(ctx, req.SiteId, transcript.Entry{
			UserText: req.Text,
			Reply:    outcome.Message,
		}); err != nil {
			s.log.Warn("assistant_service", "transcript append failed", map[string]interface{}{
				"site_id": req.SiteId.String(),
				"error":   err.Error(),
			})
		}
	}

	return &dto.ChatResponse{
		Status:         string(outcome.Status),
		Message:        outcome.Message,
		Payload:        outcome.Payload,
		RejectedFields: outcome.RejectedFields,
		Candidates:     candidatesToDTO(outcome.Candidates),
		State:          stateToDTO(nextState),
	}, nil
}

func stateFromDTO(in *dto.ConversationStateDTO) agent.ConversationState {
	if in == nil {
		return agent.ConversationState{}
	}

	state := agent.ConversationState{
		History: make([]agent.Turn, 0, len(in.History)),
	}
	for _, turn := range in.History {
		state.History = append(state.History, agent.Turn{Speaker: turn.Speaker, Text: turn.Text})
	}
	if in.PendingSelection != nil {
		state.PendingSelection = &agent.PendingSelection{
			SiteId:         in.PendingSelection.SiteId,
			MatchedIds:     in.PendingSelection.MatchedIds,
			Labels:         in.PendingSelection.Labels,
			Operation:      in.PendingSelection.Operation,
			ProposedUpdate: fieldsFromDTO(in.PendingSelection.ProposedUpdate),
			Rejected:       in.PendingSelection.Rejected,
			Confirmed:      in.PendingSelection.Confirmed,
		}
	}
	if in.PendingIntent != nil {
		state.PendingIntent = &agent.PendingIntent{
			Operation:      in.PendingIntent.Operation,
			ProposedUpdate: fieldsFromDTO(in.PendingIntent.ProposedUpdate),
			Rejected:       in.PendingIntent.Rejected,
			Confirmed:      in.PendingIntent.Confirmed,
		}
	}
	if in.PendingDesign != nil {
		state.PendingDesign = &agent.PendingDesign{
			SiteId:   in.PendingDesign.SiteId,
			Fields:   fieldsFromDTO(in.PendingDesign.Fields),
			Rejected: in.PendingDesign.Rejected,
		}
	}
	return state
}

func stateToDTO(in agent.ConversationState) dto.ConversationStateDTO {
	out := dto.ConversationStateDTO{
		History: make([]dto.TurnDTO, 0, len(in.History)),
	}
	for _, turn := range in.History {
		out.History = append(out.History, dto.TurnDTO{Speaker: turn.Speaker, Text: turn.Text})
	}
	if in.PendingSelection != nil {
		out.PendingSelection = &dto.PendingSelectionDTO{
			SiteId:         in.PendingSelection.SiteId,
			MatchedIds:     in.PendingSelection.MatchedIds,
			Labels:         in.PendingSelection.Labels,
			Operation:      in.PendingSelection.Operation,
			ProposedUpdate: fieldsToDTO(in.PendingSelection.ProposedUpdate),
			Rejected:       in.PendingSelection.Rejected,
			Confirmed:      in.PendingSelection.Confirmed,
		}
	}
	if in.PendingIntent != nil {
		out.PendingIntent = &dto.PendingIntentDTO{
			Operation:      in.PendingIntent.Operation,
			ProposedUpdate: fieldsToDTO(in.PendingIntent.ProposedUpdate),
			Rejected:       in.PendingIntent.Rejected,
			Confirmed:      in.PendingIntent.Confirmed,
		}
	}
	if in.PendingDesign != nil {
		out.PendingDesign = &dto.PendingDesignDTO{
			SiteId:   in.PendingDesign.SiteId,
			Fields:   fieldsToDTO(in.PendingDesign.Fields),
			Rejected: in.PendingDesign.Rejected,
		}
	}
	return out
}

func fieldsFromDTO(in []dto.FieldDTO) []schema.Field {
	if len(in) == 0 {
		return nil
	}
	fields := make([]schema.Field, 0, len(in))
	for _, f := range in {
		fields = append(fields, schema.Field{Path: f.Path, Value: f.Value})
	}
	return fields
}

func fieldsToDTO(in []schema.Field) []dto.FieldDTO {
	if len(in) == 0 {
		return nil
	}
	fields := make([]dto.FieldDTO, 0, len(in))
	for _, f := range in {
		fields = append(fields, dto.FieldDTO{Path: f.Path, Value: f.Value})
	}
	return fields
}

func candidatesToDTO(in []agent.Candidate) []dto.CandidateDTO {
	if len(in) == 0 {
		return nil
	}
	candidates := make([]dto.CandidateDTO, 0, len(in))
	for _, c := range in {
		candidates = append(candidates, dto.CandidateDTO{Id: c.Id, Label: c.Label})
	}
	return candidates
}
