package agent

import (
	"context"
	"fmt"

	"ai-sitebuilder-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Dispatcher is the per-turn entry point. It owns the conversation
// protocol: pending disambiguation and pending design confirmation
// preempt fresh routing, and a remembered intent is replayed the moment
// its target resolves. The dispatcher itself is stateless; all session
// state travels in ConversationState.
type Dispatcher struct {
	classifier Classifier
	component  *ComponentHandler
	design     *DesignHandler
	clarify    *ClarifyHandler
	log        logger.ILogger
}

func NewDispatcher(
	classifier Classifier,
	component *ComponentHandler,
	design *DesignHandler,
	clarify *ClarifyHandler,
	log logger.ILogger,
) *Dispatcher {
	return &Dispatcher{
		classifier: classifier,
		component:  component,
		design:     design,
		clarify:    clarify,
		log:        log,
	}
}

// Dispatch processes one user turn and returns the outcome plus the
// next conversation state. The input state is never mutated.
func (d *Dispatcher) Dispatch(ctx context.Context, siteId uuid.UUID, text string, state ConversationState) (Outcome, ConversationState) {
	next := state.clone()
	next.History = append(next.History, Turn{Speaker: SpeakerUser, Text: text})

	outcome, next := d.dispatch(ctx, siteId, text, next)

	next.History = append(next.History, Turn{Speaker: SpeakerAgent, Text: outcome.Message})
	return outcome, next
}

func (d *Dispatcher) dispatch(ctx context.Context, siteId uuid.UUID, text string, next ConversationState) (Outcome, ConversationState) {
	// Outstanding protocol states consume the turn before any routing.
	if next.PendingSelection != nil {
		return d.resolveSelection(ctx, text, next)
	}
	if next.PendingDesign != nil {
		outcome, pending := d.design.Confirm(ctx, next.PendingDesign, text)
		next.PendingDesign = pending
		return outcome, next
	}

	route, err := d.classifier.ClassifyRoute(ctx, next.History, text)
	if err != nil {
		d.log.Error("dispatcher", "route classification failed", map[string]interface{}{"error": err.Error()})
		return errorOutcome("I couldn't understand that request. Could you rephrase it?"), next
	}
	d.log.Debug("dispatcher", "turn routed", map[string]interface{}{
		"route":   string(route),
		"site_id": siteId.String(),
	})

	switch route {
	case RouteStyle:
		outcome, pending := d.design.Propose(ctx, siteId, text, next.History)
		next.PendingDesign = pending
		return outcome, next

	case RouteClarify:
		return d.clarifyAndReplay(ctx, siteId, text, next)

	default:
		outcome := d.component.Handle(ctx, siteId, text, next.History)
		if outcome.NeedsTarget {
			// The handler knows the operation but not the target. Remember
			// the intent and run this same turn through disambiguation, in
			// case the turn already carried descriptive terms.
			next.PendingIntent = outcome.Intent
			clarified, clarifiedState := d.clarifyAndReplay(ctx, siteId, text, next)
			if clarifiedState.PendingIntent == nil {
				// The intent was consumed: either replayed against a unique
				// match or parked on a numbered selection.
				return clarified, clarifiedState
			}
			// Disambiguation got nowhere; fall back to the handler's ask
			// and keep the intent for the next turn.
			return outcome, next
		}
		return outcome, next
	}
}

// clarifyAndReplay runs the clarify handler and interprets its result
// against any remembered intent: a unique match replays the intent
// immediately, multiple matches become a pending numbered selection.
func (d *Dispatcher) clarifyAndReplay(ctx context.Context, siteId uuid.UUID, text string, next ConversationState) (Outcome, ConversationState) {
	outcome := d.clarify.Handle(ctx, siteId, text, next.History)

	switch {
	case len(outcome.Candidates) == 1:
		target := outcome.Candidates[0].Id
		if intent := next.PendingIntent; intent != nil {
			next.PendingIntent = nil
			replayed := d.component.ExecuteResolved(ctx, siteId, target, intent.Operation, intent.ProposedUpdate, intent.Rejected, intent.Confirmed)
			return replayed, next
		}
		return outcome, next

	case len(outcome.Candidates) > 1:
		selection := &PendingSelection{
			SiteId:     siteId,
			MatchedIds: make([]uuid.UUID, 0, len(outcome.Candidates)),
			Labels:     make([]string, 0, len(outcome.Candidates)),
			Operation:  OpGet,
		}
		for _, candidate := range outcome.Candidates {
			selection.MatchedIds = append(selection.MatchedIds, candidate.Id)
			selection.Labels = append(selection.Labels, candidate.Label)
		}
		if intent := next.PendingIntent; intent != nil {
			selection.Operation = intent.Operation
			selection.ProposedUpdate = intent.ProposedUpdate
			selection.Rejected = intent.Rejected
			selection.Confirmed = intent.Confirmed
			next.PendingIntent = nil
			// The candidate question supersedes the handler's ask, but the
			// rejection report must not be lost with it.
			outcome.RejectedFields = intent.Rejected
		}
		next.PendingSelection = selection
		return outcome, next

	default:
		return outcome, next
	}
}

// resolveSelection consumes the turn answering a numbered candidate
// list. An unusable answer re-prompts and leaves the selection pending;
// a valid index clears it and replays the remembered operation.
func (d *Dispatcher) resolveSelection(ctx context.Context, text string, next ConversationState) (Outcome, ConversationState) {
	selection := next.PendingSelection

	index := parseSelectionIndex(text)
	if index < 1 || index > len(selection.MatchedIds) {
		message := fmt.Sprintf("Please pick a number between 1 and %d:\n", len(selection.MatchedIds))
		for i, label := range selection.Labels {
			message += fmt.Sprintf("%d. %s\n", i+1, label)
		}
		return needsInputOutcome(message), next
	}

	target := selection.MatchedIds[index-1]
	next.PendingSelection = nil

	outcome := d.component.ExecuteResolved(ctx, selection.SiteId, target, selection.Operation, selection.ProposedUpdate, selection.Rejected, selection.Confirmed)
	return outcome, next
}
