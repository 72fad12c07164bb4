package agent

import (
	"context"
	"fmt"
	"strings"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/internal/repository/unitofwork"
	"ai-sitebuilder-be/pkg/criteria"
	"ai-sitebuilder-be/pkg/schema"

	"github.com/google/uuid"
)

// ClarifyHandler narrows down which component the user means. It turns
// descriptive terms into predicates (an empty description matches every
// component under the site), runs the search, and reports exactly one
// of: nothing, one match, or an ordered candidate list.
type ClarifyHandler struct {
	uowFactory unitofwork.RepositoryFactory
	classifier Classifier
	schema     *schema.Schema
	log        logger.ILogger
}

func NewClarifyHandler(
	uowFactory unitofwork.RepositoryFactory,
	classifier Classifier,
	log logger.ILogger,
) *ClarifyHandler {
	return &ClarifyHandler{
		uowFactory: uowFactory,
		classifier: classifier,
		schema:     schema.ComponentSchema(),
		log:        log,
	}
}

func (h *ClarifyHandler) Handle(ctx context.Context, siteId uuid.UUID, text string, history []Turn) Outcome {
	if siteId == uuid.Nil {
		return needsInputOutcome("I need to know which site you're working on before I can look anything up.")
	}

	action, err := h.classifier.ProposeAction(ctx, history, text, "clarify")
	if err != nil {
		h.log.Error("clarify_handler", "criteria extraction failed", map[string]interface{}{"error": err.Error()})
		return errorOutcome("I couldn't work out which component you mean. Could you describe it differently?")
	}

	uow := h.uowFactory.NewUnitOfWork(ctx)

	var matches []*entity.Component
	if action == nil || len(action.Criteria) == 0 {
		// No descriptive terms: every component under the site is a
		// candidate.
		matches, err = uow.ComponentRepository().FetchAll(ctx, siteId)
	} else {
		translated := criteria.Translate(h.schema, action.Criteria)
		if len(translated.Predicates) == 0 {
			return needsInputOutcome("I couldn't match that description to anything searchable. Try the component's name, title or kind.")
		}
		matches, err = uow.ComponentRepository().Search(ctx, siteId, translated.Predicates)
	}
	if err != nil {
		h.log.Error("clarify_handler", "store failure", map[string]interface{}{
			"operation": "search components",
			"error":     err.Error(),
		})
		return errorOutcome("Something went wrong talking to storage. Please try again.")
	}

	switch len(matches) {
	case 0:
		return needsInputOutcome("I couldn't find a component matching that description. Want me to list all components?")
	case 1:
		match := matches[0]
		return Outcome{
			Status:     StatusSuccess,
			Message:    fmt.Sprintf("That's %q.", match.Name),
			Payload:    match,
			Candidates: []Candidate{{Id: match.Id, Label: componentLabel(match)}},
		}
	default:
		candidates := make([]Candidate, 0, len(matches))
		for _, match := range matches {
			candidates = append(candidates, Candidate{Id: match.Id, Label: componentLabel(match)})
		}
		return Outcome{
			Status:     StatusNeedsInput,
			Message:    candidateListMessage(candidates),
			Candidates: candidates,
		}
	}
}

func componentLabel(c *entity.Component) string {
	if title, ok := c.Props["title"]; ok {
		return fmt.Sprintf("%s (%s, title %q)", c.Name, c.Kind, fmt.Sprint(title))
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Kind)
}

func candidateListMessage(candidates []Candidate) string {
	var b strings.Builder
	b.WriteString("I found a few matches. Which one do you mean?\n")
	for i, candidate := range candidates {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, candidate.Label))
	}
	b.WriteString("Reply with the number.")
	return b.String()
}
