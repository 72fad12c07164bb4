package agent

import (
	"context"
	"testing"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/pkg/logger"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(store *fakeStore, classifier *fakeClassifier, publisher *recordingPublisher) *Dispatcher {
	factory := &fakeFactory{store: store}
	log := logger.NopLogger{}
	return NewDispatcher(
		classifier,
		NewComponentHandler(factory, classifier, publisher, log),
		NewDesignHandler(factory, classifier, publisher, log),
		NewClarifyHandler(factory, classifier, log),
		log,
	)
}

func seedComponents(store *fakeStore, siteId uuid.UUID) (pricing, promo *entity.Component) {
	pricing = &entity.Component{
		Id:     uuid.New(),
		SiteId: siteId,
		Kind:   "card",
		Name:   "Pricing card",
		Props:  map[string]interface{}{"title": "Plans"},
	}
	promo = &entity.Component{
		Id:     uuid.New(),
		SiteId: siteId,
		Kind:   "card",
		Name:   "Promo card",
		Props:  map[string]interface{}{"title": "Sale"},
	}
	store.addComponent(pricing)
	store.addComponent(promo)
	return pricing, promo
}

// A title update stated before the target is known must survive
// disambiguation and apply once a candidate is picked.
func TestDispatchUpdateThroughDisambiguation(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, promo := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{"card title": "Home"}},
			{Operation: OpGet, Criteria: map[string]interface{}{"name": "card"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	// Turn 1: the intent is clear, the target is not.
	outcome, state := dispatcher.Dispatch(ctx, siteId, "change the card title to Home", ConversationState{})
	require.Equal(t, StatusNeedsInput, outcome.Status)
	require.Len(t, outcome.Candidates, 2)
	require.NotNil(t, state.PendingSelection)
	assert.Equal(t, OpUpdate, state.PendingSelection.Operation)
	require.Len(t, state.PendingSelection.ProposedUpdate, 1)
	assert.Equal(t, "props.title", state.PendingSelection.ProposedUpdate[0].Path)
	assert.Nil(t, state.PendingIntent)
	assert.Empty(t, store.componentWrites)

	// Turn 2: out-of-range pick re-prompts and keeps the selection.
	outcome, state = dispatcher.Dispatch(ctx, siteId, "7", state)
	require.Equal(t, StatusNeedsInput, outcome.Status)
	require.NotNil(t, state.PendingSelection)
	assert.Empty(t, store.componentWrites)

	// Turn 3: a valid pick replays the remembered update.
	outcome, state = dispatcher.Dispatch(ctx, siteId, "the 2nd one", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingSelection)

	assert.Equal(t, "Home", promo.Props["title"])
	assert.Equal(t, "Plans", pricing.Props["title"])
	require.Len(t, store.componentWrites, 1)
	assert.Equal(t, []string{"COMPONENT_UPDATED"}, publisher.typesPublished())

	// Both sides of every turn land in history: 3 turns, 2 speakers each.
	assert.Len(t, state.History, 6)
}

// A design change is restated first and written exactly once, only
// after an affirmative turn.
func TestDispatchDesignConfirmation(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteStyle},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{"sosial icon style": "solid"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "make the sosial icon style solid", ConversationState{})
	require.Equal(t, StatusNeedsInput, outcome.Status)
	require.NotNil(t, state.PendingDesign)
	assert.Contains(t, outcome.Message, "header_design.social-icon-style")
	assert.Empty(t, store.designWrites, "no write before confirmation")

	outcome, state = dispatcher.Dispatch(ctx, siteId, "yes please", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingDesign)

	require.Len(t, store.designWrites, 1)
	require.Len(t, store.designWrites[0], 1)
	instruction := store.designWrites[0][0]
	assert.Equal(t, writeplan.SetDocumentKey, instruction.Kind)
	assert.Equal(t, "header_design", instruction.Column)
	assert.Equal(t, "social-icon-style", instruction.Key)
	assert.Equal(t, "solid", instruction.Value)
	assert.Equal(t, "solid", store.design.HeaderDesign["social-icon-style"])
	assert.Equal(t, []string{"DESIGN_UPDATED"}, publisher.typesPublished())
}

func TestDispatchDesignDeclined(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteStyle},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{"theme": "dark"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	_, state := dispatcher.Dispatch(ctx, siteId, "switch the theme to dark", ConversationState{})
	require.NotNil(t, state.PendingDesign)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "no, leave it", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingDesign)
	assert.Empty(t, store.designWrites)
	assert.Empty(t, publisher.published)
	assert.Equal(t, "light", store.design.Theme)
}

// A refusal that happens to contain an affirmative word must never
// apply the pending design change.
func TestDispatchDesignDeclinedWithAffirmativeWord(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteStyle},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{"theme": "dark"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	_, state := dispatcher.Dispatch(ctx, siteId, "switch the theme to dark", ConversationState{})
	require.NotNil(t, state.PendingDesign)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "no, don't apply it", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Message, "left the design")
	assert.Nil(t, state.PendingDesign)
	assert.Empty(t, store.designWrites)
	assert.Empty(t, publisher.published)
	assert.Equal(t, "light", store.design.Theme)
}

// Protected fields rejected on the turn that stated the update must be
// reported both while the target is still ambiguous and again on the
// final outcome after a selection.
func TestDispatchCarriesRejectionsThroughDisambiguation(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{
				"card title": "Home",
				"id":         uuid.NewString(),
			}},
			{Operation: OpGet, Criteria: map[string]interface{}{"name": "card"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "set the card title to Home and change its id", ConversationState{})
	require.Equal(t, StatusNeedsInput, outcome.Status)
	require.Len(t, outcome.Candidates, 2)
	assert.Equal(t, []string{"id"}, outcome.RejectedFields)
	require.NotNil(t, state.PendingSelection)
	assert.Equal(t, []string{"id"}, state.PendingSelection.Rejected)

	outcome, state = dispatcher.Dispatch(ctx, siteId, "1", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingSelection)
	assert.Equal(t, []string{"id"}, outcome.RejectedFields)
	assert.Contains(t, outcome.Message, "couldn't change")
	assert.Equal(t, "Home", pricing.Props["title"])
}

func TestDispatchRejectsProtectedFields(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord},
		actions: []*Action{
			{
				Operation:   OpUpdate,
				ComponentId: pricing.Id.String(),
				Fields: map[string]interface{}{
					"id":   uuid.NewString(),
					"type": "hero",
				},
			},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, _ := dispatcher.Dispatch(ctx, siteId, "change the id and type", ConversationState{})
	require.Equal(t, StatusError, outcome.Status)
	assert.ElementsMatch(t, []string{"id", "kind"}, outcome.RejectedFields)
	assert.Empty(t, store.componentWrites)
	assert.Equal(t, "card", pricing.Kind)
}

func TestDispatchDeleteNeedsExplicitWording(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord, RouteRecord, RouteRecord},
		actions: []*Action{
			{Operation: OpDelete, ComponentId: pricing.Id.String()},
			{Operation: OpDelete, ComponentId: pricing.Id.String()},
			{Operation: OpDelete, ComponentId: pricing.Id.String()},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "I want that pricing thing gone", ConversationState{})
	require.Equal(t, StatusNeedsInput, outcome.Status)
	_, exists := store.components[pricing.Id]
	assert.True(t, exists, "nothing deleted without explicit wording")

	outcome, state = dispatcher.Dispatch(ctx, siteId, "no, don't delete it", state)
	require.Equal(t, StatusNeedsInput, outcome.Status)
	_, exists = store.components[pricing.Id]
	assert.True(t, exists, "a negated turn never confirms")

	outcome, _ = dispatcher.Dispatch(ctx, siteId, "yes, delete it", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	_, exists = store.components[pricing.Id]
	assert.False(t, exists)
	assert.Equal(t, []string{"COMPONENT_DELETED"}, publisher.typesPublished())
}

func TestDispatchTagAttachIsIdempotent(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	featured := &entity.Tag{Id: uuid.New(), SiteId: siteId, Name: "featured"}
	store.addTag(featured)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord, RouteRecord},
		actions: []*Action{
			{Operation: OpAttachTag, ComponentId: pricing.Id.String(), TagName: "featured"},
			{Operation: OpAttachTag, ComponentId: pricing.Id.String(), TagName: "featured"},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "tag the pricing card as featured", ConversationState{})
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.True(t, pricing.HasTags)

	outcome, _ = dispatcher.Dispatch(ctx, siteId, "tag the pricing card as featured", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Contains(t, outcome.Message, "already")

	assert.Equal(t, []string{"TAG_ATTACHED"}, publisher.typesPublished(), "second attach publishes nothing")
}

func TestDispatchDetachMissingTag(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	featured := &entity.Tag{Id: uuid.New(), SiteId: siteId, Name: "featured"}
	store.addTag(featured)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord},
		actions: []*Action{
			{Operation: OpDetachTag, ComponentId: pricing.Id.String(), TagName: "featured"},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, _ := dispatcher.Dispatch(ctx, siteId, "remove the featured tag", ConversationState{})
	require.Equal(t, StatusError, outcome.Status)
	assert.Empty(t, publisher.published)
}

// A bare listing request offers every component as a numbered candidate,
// and a pick fetches that component.
func TestDispatchClarifyListsAll(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes:  []Route{RouteClarify},
		actions: []*Action{nil},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "show me all components", ConversationState{})
	require.Equal(t, StatusNeedsInput, outcome.Status)
	require.Len(t, outcome.Candidates, 2)
	require.NotNil(t, state.PendingSelection)
	assert.Equal(t, OpGet, state.PendingSelection.Operation)
	assert.Empty(t, state.PendingSelection.ProposedUpdate)

	outcome, state = dispatcher.Dispatch(ctx, siteId, "1", state)
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingSelection)
	assert.Contains(t, outcome.Message, pricing.Name)
}

func TestDispatchUniqueMatchReplaysImmediately(t *testing.T) {
	ctx := context.Background()
	siteId := uuid.New()
	store := newFakeStore()
	pricing, _ := seedComponents(store, siteId)
	publisher := &recordingPublisher{}

	classifier := &fakeClassifier{
		routes: []Route{RouteRecord},
		actions: []*Action{
			{Operation: OpUpdate, Fields: map[string]interface{}{"title": "Plans & Pricing"}},
			{Operation: OpGet, Criteria: map[string]interface{}{"name": "pricing"}},
		},
	}
	dispatcher := newTestDispatcher(store, classifier, publisher)

	outcome, state := dispatcher.Dispatch(ctx, siteId, "set the pricing card title to Plans & Pricing", ConversationState{})
	require.Equal(t, StatusSuccess, outcome.Status)
	assert.Nil(t, state.PendingSelection)
	assert.Nil(t, state.PendingIntent)
	assert.Equal(t, "Plans & Pricing", pricing.Props["title"])
	require.Len(t, store.componentWrites, 1)
}
