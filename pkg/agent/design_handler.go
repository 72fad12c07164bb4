package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/internal/repository/contract"
	"ai-sitebuilder-be/internal/repository/unitofwork"
	"ai-sitebuilder-be/pkg/events"
	"ai-sitebuilder-be/pkg/schema"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
)

// DesignHandler services style-schema operations against the site's
// design settings. Unlike component updates, design changes are
// interactive: the handler restates the intended change against the
// current design and applies it only after an explicit affirmative turn.
type DesignHandler struct {
	uowFactory unitofwork.RepositoryFactory
	classifier Classifier
	schema     *schema.Schema
	publisher  events.Publisher
	log        logger.ILogger
}

func NewDesignHandler(
	uowFactory unitofwork.RepositoryFactory,
	classifier Classifier,
	publisher events.Publisher,
	log logger.ILogger,
) *DesignHandler {
	return &DesignHandler{
		uowFactory: uowFactory,
		classifier: classifier,
		schema:     schema.DesignSchema(),
		publisher:  publisher,
		log:        log,
	}
}

// Propose handles a style turn with no confirmation outstanding. For
// updates it returns the restatement plus the PendingDesign to carry;
// no write happens here.
func (h *DesignHandler) Propose(ctx context.Context, siteId uuid.UUID, text string, history []Turn) (Outcome, *PendingDesign) {
	if siteId == uuid.Nil {
		return needsInputOutcome("I need to know which site you're working on before I can change its design."), nil
	}

	action, err := h.classifier.ProposeAction(ctx, history, text, h.schema.Name)
	if err != nil {
		h.log.Error("design_handler", "action proposal failed", map[string]interface{}{"error": err.Error()})
		return errorOutcome("I couldn't work out what design change you want. Could you rephrase that?"), nil
	}
	if action == nil {
		return successOutcome("I can show or change your site's design: theme, fonts, header, cards and footer.", nil), nil
	}

	switch action.Operation {
	case OpGet:
		return h.describe(ctx, siteId), nil

	case OpUpdate:
		resolved := resolveUpdate(h.schema, action.Fields)
		if len(resolved.Fields) == 0 {
			if len(resolved.Rejected) > 0 {
				return Outcome{
					Status:         StatusError,
					Message:        "I don't recognize those design settings: " + strings.Join(resolved.Rejected, ", ") + ".",
					RejectedFields: resolved.Rejected,
				}, nil
			}
			return needsInputOutcome("What part of the design would you like to change?"), nil
		}

		design, outcome := h.fetch(ctx, siteId)
		if design == nil {
			return outcome, nil
		}

		pending := &PendingDesign{
			SiteId:   siteId,
			Fields:   resolved.Fields,
			Rejected: resolved.Rejected,
		}
		return Outcome{
			Status:         StatusNeedsInput,
			Message:        restateDesignChange(design, resolved.Fields),
			RejectedFields: resolved.Rejected,
		}, pending

	default:
		// An apply-style tool call with no restated-and-confirmed turn
		// preceding it breaks the confirmation protocol.
		return needsInputOutcome("I restate design changes and ask for your confirmation before applying anything. Tell me what you'd like to change."), nil
	}
}

// Confirm consumes the turn that answers a pending restatement. The
// returned PendingDesign is nil once the pending change is settled
// either way.
func (h *DesignHandler) Confirm(ctx context.Context, pending *PendingDesign, text string) (Outcome, *PendingDesign) {
	// Negation wins: a turn carrying both ("no, don't apply it") must
	// never write.
	switch {
	case isNegative(text):
		return successOutcome("Okay, I've left the design as it is.", nil), nil
	case isAffirmative(text):
		return h.apply(ctx, pending), nil
	default:
		return needsInputOutcome("Should I apply that design change? Please answer yes or no."), pending
	}
}

func (h *DesignHandler) apply(ctx context.Context, pending *PendingDesign) Outcome {
	instructions, err := writeplan.Compile(pending.Fields)
	if err != nil {
		if errors.Is(err, writeplan.ErrNoOp) {
			return errorOutcome("There was nothing left to change.")
		}
		return h.storeFailure("compile design update", err)
	}

	uow := h.uowFactory.NewUnitOfWork(ctx)
	updated, err := uow.SiteDesignRepository().ApplyWrite(ctx, pending.SiteId, instructions)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return errorOutcome("I couldn't find this site's design settings anymore. Nothing was changed.")
		}
		return h.storeFailure("apply design update", err)
	}

	if err := h.publisher.Publish(ctx, events.NewDesignUpdated(pending.SiteId, fieldPaths(pending.Fields))); err != nil {
		h.log.Warn("design_handler", "event publish failed", map[string]interface{}{"error": err.Error()})
	}

	message := fmt.Sprintf("Done. I've updated %s.", joinPaths(pending.Fields))
	if len(pending.Rejected) > 0 {
		message += " I couldn't change: " + strings.Join(pending.Rejected, ", ") + "."
	}
	return Outcome{
		Status:         StatusSuccess,
		Message:        message,
		Payload:        updated,
		RejectedFields: pending.Rejected,
	}
}

func (h *DesignHandler) describe(ctx context.Context, siteId uuid.UUID) Outcome {
	design, outcome := h.fetch(ctx, siteId)
	if design == nil {
		return outcome
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Your site uses the %q theme", design.Theme))
	if design.Font != "" {
		b.WriteString(fmt.Sprintf(" with the %q font", design.Font))
	}
	b.WriteString(".")
	return successOutcome(b.String(), design)
}

func (h *DesignHandler) fetch(ctx context.Context, siteId uuid.UUID) (*entity.SiteDesign, Outcome) {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	design, err := uow.SiteDesignRepository().FetchBySite(ctx, siteId)
	if err != nil {
		return nil, h.storeFailure("fetch design", err)
	}
	return design, Outcome{}
}

func (h *DesignHandler) storeFailure(operation string, err error) Outcome {
	h.log.Error("design_handler", "store failure", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
	return errorOutcome("Something went wrong talking to storage. Please try again.")
}

// restateDesignChange renders the intended change in canonical terms
// against the current values, ending with the confirmation question.
func restateDesignChange(design *entity.SiteDesign, fields []schema.Field) string {
	var b strings.Builder
	b.WriteString("Here's what I'll change:\n")
	for _, f := range fields {
		current := currentDesignValue(design, f.Path)
		if current == "" {
			current = "not set"
		}
		b.WriteString(fmt.Sprintf("- %s: %s -> %v\n", f.Path, current, f.Value))
	}
	b.WriteString("Should I apply this?")
	return b.String()
}

func currentDesignValue(design *entity.SiteDesign, path string) string {
	column, key, nested := strings.Cut(path, ".")
	if !nested {
		switch column {
		case "theme":
			return design.Theme
		case "font":
			return design.Font
		}
		return ""
	}

	var document map[string]interface{}
	switch column {
	case "header_design":
		document = design.HeaderDesign
	case "card_design":
		document = design.CardDesign
	case "footer_design":
		document = design.FooterDesign
	}
	if value, ok := document[key]; ok {
		return fmt.Sprint(value)
	}
	return ""
}

var affirmativeWords = []string{"yes", "yep", "yeah", "sure", "confirm", "go ahead", "do it", "apply"}
var negativeWords = []string{"no", "nope", "cancel", "don't", "dont", "stop", "never mind", "nevermind"}

func isAffirmative(text string) bool {
	return containsAnyWord(text, affirmativeWords)
}

func isNegative(text string) bool {
	return containsAnyWord(text, negativeWords)
}

// containsAnyWord matches words and phrases on whole-word boundaries,
// so "no" never fires inside "now" and "apply" never fires from
// "no, don't apply it" once negation has been checked first.
func containsAnyWord(text string, words []string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
	padded := " " + strings.Join(tokens, " ") + " "
	for _, word := range words {
		if strings.Contains(padded, " "+word+" ") {
			return true
		}
	}
	return false
}
