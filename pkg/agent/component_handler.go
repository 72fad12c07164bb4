package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/internal/repository/contract"
	"ai-sitebuilder-be/internal/repository/unitofwork"
	"ai-sitebuilder-be/pkg/events"
	"ai-sitebuilder-be/pkg/schema"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
)

// ComponentHandler services record-schema operations: component CRUD and
// tag attachment.
type ComponentHandler struct {
	uowFactory unitofwork.RepositoryFactory
	classifier Classifier
	schema     *schema.Schema
	publisher  events.Publisher
	log        logger.ILogger
}

func NewComponentHandler(
	uowFactory unitofwork.RepositoryFactory,
	classifier Classifier,
	publisher events.Publisher,
	log logger.ILogger,
) *ComponentHandler {
	return &ComponentHandler{
		uowFactory: uowFactory,
		classifier: classifier,
		schema:     schema.ComponentSchema(),
		publisher:  publisher,
		log:        log,
	}
}

func (h *ComponentHandler) Handle(ctx context.Context, siteId uuid.UUID, text string, history []Turn) Outcome {
	if siteId == uuid.Nil {
		return needsInputOutcome("I need to know which site you're working on before I can do that.")
	}

	action, err := h.classifier.ProposeAction(ctx, history, text, h.schema.Name)
	if err != nil {
		h.log.Error("component_handler", "action proposal failed", map[string]interface{}{"error": err.Error()})
		return errorOutcome("I couldn't work out what you want to do. Could you rephrase that?")
	}
	if action == nil {
		return successOutcome("I can show, update, delete or tag your site's components. What would you like to do?", nil)
	}

	componentId, hasTarget := parseComponentId(action.ComponentId)

	switch action.Operation {
	case OpGet:
		if !hasTarget {
			return h.listAll(ctx, siteId)
		}
		return h.get(ctx, siteId, componentId)

	case OpUpdate:
		resolved := resolveUpdate(h.schema, action.Fields)
		if len(resolved.Fields) == 0 {
			if len(resolved.Rejected) > 0 {
				return Outcome{
					Status:         StatusError,
					Message:        "None of those fields can be changed: " + strings.Join(resolved.Rejected, ", ") + ".",
					RejectedFields: resolved.Rejected,
				}
			}
			return needsInputOutcome("What would you like to change on that component?")
		}
		if !hasTarget {
			return Outcome{
				Status:         StatusNeedsInput,
				Message:        "Which component should I update? Describe it, or ask me to list all components.",
				RejectedFields: resolved.Rejected,
				NeedsTarget:    true,
				Intent: &PendingIntent{
					Operation:      OpUpdate,
					ProposedUpdate: resolved.Fields,
					Rejected:       resolved.Rejected,
				},
			}
		}
		return h.applyUpdate(ctx, siteId, componentId, resolved.Fields, resolved.Rejected)

	case OpDelete:
		if !hasExplicitDeleteIntent(text) {
			return needsInputOutcome("Deleting a component can't be undone. Please confirm by saying e.g. \"yes, delete it\".")
		}
		if !hasTarget {
			return Outcome{
				Status:      StatusNeedsInput,
				Message:     "Which component should I delete? Describe it, or ask me to list all components.",
				NeedsTarget: true,
				Intent: &PendingIntent{
					Operation: OpDelete,
					Confirmed: true,
				},
			}
		}
		return h.delete(ctx, siteId, componentId)

	case OpAttachTag, OpDetachTag:
		if !hasTarget {
			return needsInputOutcome("Which component should I tag? Please tell me the component.")
		}
		if action.TagName == "" {
			return needsInputOutcome("Which tag do you mean?")
		}
		return h.changeTag(ctx, siteId, componentId, action.TagName, action.Operation == OpAttachTag)
	}

	return needsInputOutcome("I didn't understand that. You can show, update, delete or tag components.")
}

// ExecuteResolved replays a remembered operation against a target that
// has since been disambiguated. Rejected keys remembered from the
// originating turn are reported on the final outcome.
func (h *ComponentHandler) ExecuteResolved(ctx context.Context, siteId, componentId uuid.UUID, operation string, fields []schema.Field, rejected []string, confirmed bool) Outcome {
	switch operation {
	case OpUpdate:
		if len(fields) == 0 {
			return needsInputOutcome("What would you like to change on that component?")
		}
		return h.applyUpdate(ctx, siteId, componentId, fields, rejected)
	case OpDelete:
		if !confirmed {
			return needsInputOutcome("Deleting a component can't be undone. Please confirm by saying e.g. \"yes, delete it\".")
		}
		return h.delete(ctx, siteId, componentId)
	default:
		return h.get(ctx, siteId, componentId)
	}
}

func (h *ComponentHandler) listAll(ctx context.Context, siteId uuid.UUID) Outcome {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	components, err := uow.ComponentRepository().FetchAll(ctx, siteId)
	if err != nil {
		return h.storeFailure("fetch components", err)
	}
	if len(components) == 0 {
		return successOutcome("This site has no components yet.", components)
	}
	return successOutcome(componentListMessage(components), components)
}

func (h *ComponentHandler) get(ctx context.Context, siteId, componentId uuid.UUID) Outcome {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	component, err := uow.ComponentRepository().FetchOne(ctx, siteId, componentId)
	if err != nil {
		return h.storeFailure("fetch component", err)
	}
	if component == nil {
		return errorOutcome("I couldn't find that component. It may have been deleted.")
	}
	return successOutcome(describeComponent(component), component)
}

func (h *ComponentHandler) applyUpdate(ctx context.Context, siteId, componentId uuid.UUID, fields []schema.Field, rejected []string) Outcome {
	instructions, err := writeplan.Compile(fields)
	if err != nil {
		if errors.Is(err, writeplan.ErrNoOp) {
			return Outcome{
				Status:         StatusError,
				Message:        "There was nothing left to change after filtering protected fields.",
				RejectedFields: rejected,
			}
		}
		return h.storeFailure("compile update", err)
	}

	uow := h.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ComponentRepository()

	existing, err := repo.FetchOne(ctx, siteId, componentId)
	if err != nil {
		return h.storeFailure("precheck component", err)
	}
	if existing == nil {
		return errorOutcome("I couldn't find that component. It may have been deleted.")
	}

	updated, err := repo.ApplyWrite(ctx, siteId, componentId, instructions)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return errorOutcome("That component disappeared before I could update it. Nothing was changed.")
		}
		return h.storeFailure("apply update", err)
	}

	h.publishEvent(ctx, events.NewComponentUpdated(siteId, componentId, fieldPaths(fields)))

	message := fmt.Sprintf("Done. I've updated %s on %q.", joinPaths(fields), updated.Name)
	if len(rejected) > 0 {
		message += " I couldn't change: " + strings.Join(rejected, ", ") + "."
	}
	return Outcome{
		Status:         StatusSuccess,
		Message:        message,
		Payload:        updated,
		RejectedFields: rejected,
	}
}

func (h *ComponentHandler) delete(ctx context.Context, siteId, componentId uuid.UUID) Outcome {
	uow := h.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ComponentRepository()

	existing, err := repo.FetchOne(ctx, siteId, componentId)
	if err != nil {
		return h.storeFailure("precheck component", err)
	}
	if existing == nil {
		return errorOutcome("I couldn't find that component. It may already be deleted.")
	}

	if err := repo.Remove(ctx, siteId, componentId); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return errorOutcome("That component was already deleted.")
		}
		return h.storeFailure("delete component", err)
	}

	h.publishEvent(ctx, events.NewComponentDeleted(siteId, componentId))
	return successOutcome(fmt.Sprintf("Deleted %q.", existing.Name), nil)
}

func (h *ComponentHandler) changeTag(ctx context.Context, siteId, componentId uuid.UUID, tagName string, attach bool) Outcome {
	uow := h.uowFactory.NewUnitOfWork(ctx)

	component, err := uow.ComponentRepository().FetchOne(ctx, siteId, componentId)
	if err != nil {
		return h.storeFailure("precheck component", err)
	}
	if component == nil {
		return errorOutcome("I couldn't find that component.")
	}

	tag, err := uow.TagRepository().FindByName(ctx, siteId, tagName)
	if err != nil {
		return h.storeFailure("look up tag", err)
	}
	if tag == nil {
		return errorOutcome(fmt.Sprintf("There's no tag named %q on this site.", tagName))
	}

	if attach {
		attachment, err := uow.ComponentRepository().AttachTag(ctx, componentId, tag.Id)
		if err != nil {
			return h.storeFailure("attach tag", err)
		}
		if attachment.AlreadyAttached {
			return successOutcome(fmt.Sprintf("%q already has the tag %q, so nothing changed.", component.Name, tagName), attachment)
		}
		h.publishEvent(ctx, events.NewTagChanged(events.TypeTagAttached, componentId, tag.Id, true))
		return successOutcome(fmt.Sprintf("Tagged %q with %q.", component.Name, tagName), attachment)
	}

	attachment, err := uow.ComponentRepository().DetachTag(ctx, componentId, tag.Id)
	if err != nil {
		if errors.Is(err, contract.ErrNotAttached) {
			return errorOutcome(fmt.Sprintf("%q doesn't have the tag %q.", component.Name, tagName))
		}
		return h.storeFailure("detach tag", err)
	}
	h.publishEvent(ctx, events.NewTagChanged(events.TypeTagDetached, componentId, tag.Id, attachment.StillTagged))
	return successOutcome(fmt.Sprintf("Removed the tag %q from %q.", tagName, component.Name), attachment)
}

func (h *ComponentHandler) publishEvent(ctx context.Context, event events.Event) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.log.Warn("component_handler", "event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (h *ComponentHandler) storeFailure(operation string, err error) Outcome {
	h.log.Error("component_handler", "store failure", map[string]interface{}{
		"operation": operation,
		"error":     err.Error(),
	})
	return errorOutcome("Something went wrong talking to storage. Please try again.")
}

func parseComponentId(raw string) (uuid.UUID, bool) {
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

var deleteConfirmWords = []string{"delete", "remove", "get rid of", "yes", "confirm"}

// hasExplicitDeleteIntent checks the current turn's raw text for
// confirmation wording. Deletion is never inferred from prior turns,
// and a negated turn never confirms.
func hasExplicitDeleteIntent(text string) bool {
	if isNegative(text) {
		return false
	}
	return containsAnyWord(text, deleteConfirmWords)
}

func componentListMessage(components []*entity.Component) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("This site has %d components:\n", len(components)))
	for i, c := range components {
		b.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, c.Name, c.Kind))
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeComponent(c *entity.Component) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%s)", c.Name, c.Kind))
	if title, ok := c.Props["title"]; ok {
		b.WriteString(fmt.Sprintf(", title %q", fmt.Sprint(title)))
	}
	if c.HasTags {
		b.WriteString(", tagged")
	}
	return b.String()
}

func fieldPaths(fields []schema.Field) []string {
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		paths = append(paths, f.Path)
	}
	return paths
}

func joinPaths(fields []schema.Field) string {
	return strings.Join(fieldPaths(fields), ", ")
}
