package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/repository/contract"
	"ai-sitebuilder-be/internal/repository/unitofwork"
	"ai-sitebuilder-be/pkg/criteria"
	"ai-sitebuilder-be/pkg/events"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
)

// fakeClassifier replays scripted results so dispatcher tests stay
// deterministic without a model in the loop.
type fakeClassifier struct {
	routes  []Route
	actions []*Action
	// schemaNames records the schema argument of each ProposeAction call.
	schemaNames []string
}

func (c *fakeClassifier) ClassifyRoute(ctx context.Context, history []Turn, text string) (Route, error) {
	if len(c.routes) == 0 {
		return RouteRecord, nil
	}
	route := c.routes[0]
	c.routes = c.routes[1:]
	return route, nil
}

func (c *fakeClassifier) ProposeAction(ctx context.Context, history []Turn, text string, schemaName string) (*Action, error) {
	c.schemaNames = append(c.schemaNames, schemaName)
	if len(c.actions) == 0 {
		return nil, nil
	}
	action := c.actions[0]
	c.actions = c.actions[1:]
	return action, nil
}

// recordingPublisher collects published events for assertions.
type recordingPublisher struct {
	published []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.published = append(p.published, event)
	return nil
}

func (p *recordingPublisher) typesPublished() []string {
	types := make([]string, 0, len(p.published))
	for _, e := range p.published {
		types = append(types, e.EventType())
	}
	return types
}

// fakeStore is a single in-memory backend behind all three repository
// contracts.
type fakeStore struct {
	components  map[uuid.UUID]*entity.Component
	design      *entity.SiteDesign
	tags        map[string]*entity.Tag
	attachments map[uuid.UUID]map[uuid.UUID]bool

	componentWrites [][]writeplan.Instruction
	designWrites    [][]writeplan.Instruction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		components:  map[uuid.UUID]*entity.Component{},
		tags:        map[string]*entity.Tag{},
		attachments: map[uuid.UUID]map[uuid.UUID]bool{},
	}
}

func (s *fakeStore) addComponent(c *entity.Component) {
	s.components[c.Id] = c
}

func (s *fakeStore) addTag(tag *entity.Tag) {
	s.tags[tag.Name] = tag
}

var _ contract.ComponentRepository = &fakeStore{}
var _ contract.TagRepository = &fakeStore{}
var _ contract.SiteDesignRepository = designRepoAdapter{}

func (s *fakeStore) Create(ctx context.Context, component *entity.Component) error {
	s.components[component.Id] = component
	return nil
}

func (s *fakeStore) FetchOne(ctx context.Context, siteId, componentId uuid.UUID) (*entity.Component, error) {
	component, ok := s.components[componentId]
	if !ok || component.SiteId != siteId {
		return nil, nil
	}
	return component, nil
}

func (s *fakeStore) FetchAll(ctx context.Context, siteId uuid.UUID) ([]*entity.Component, error) {
	var all []*entity.Component
	for _, component := range s.components {
		if component.SiteId == siteId {
			all = append(all, component)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}

func (s *fakeStore) Search(ctx context.Context, siteId uuid.UUID, predicates []criteria.Predicate) ([]*entity.Component, error) {
	all, _ := s.FetchAll(ctx, siteId)
	var matches []*entity.Component
	for _, component := range all {
		if componentMatches(component, predicates) {
			matches = append(matches, component)
		}
	}
	return matches, nil
}

func componentMatches(c *entity.Component, predicates []criteria.Predicate) bool {
	for _, p := range predicates {
		var actual interface{}
		switch {
		case p.JSONKey != "" && p.Column == "props":
			actual = c.Props[p.JSONKey]
		case p.JSONKey != "" && p.Column == "card_design":
			actual = c.CardDesign[p.JSONKey]
		case p.Column == "name":
			actual = c.Name
		case p.Column == "kind":
			actual = c.Kind
		}
		if actual == nil {
			return false
		}
		if p.Comparator == criteria.Equals {
			if fmt.Sprint(actual) != fmt.Sprint(p.Value) {
				return false
			}
			continue
		}
		if !strings.Contains(strings.ToLower(fmt.Sprint(actual)), strings.ToLower(fmt.Sprint(p.Value))) {
			return false
		}
	}
	return true
}

func (s *fakeStore) ApplyWrite(ctx context.Context, siteId, componentId uuid.UUID, instructions []writeplan.Instruction) (*entity.Component, error) {
	component, _ := s.FetchOne(ctx, siteId, componentId)
	if component == nil {
		return nil, contract.ErrNotFound
	}
	s.componentWrites = append(s.componentWrites, instructions)
	for _, instruction := range instructions {
		if err := applyComponentFake(component, instruction); err != nil {
			return nil, err
		}
	}
	return component, nil
}

func applyComponentFake(c *entity.Component, instruction writeplan.Instruction) error {
	document := func(column string) map[string]interface{} {
		switch column {
		case "props":
			if c.Props == nil {
				c.Props = map[string]interface{}{}
			}
			return c.Props
		case "card_design":
			if c.CardDesign == nil {
				c.CardDesign = map[string]interface{}{}
			}
			return c.CardDesign
		}
		return nil
	}

	switch instruction.Kind {
	case writeplan.SetScalar:
		if instruction.Column != "name" {
			return fmt.Errorf("unknown scalar column %q", instruction.Column)
		}
		c.Name = fmt.Sprint(instruction.Value)
	case writeplan.SetDocumentKey:
		doc := document(instruction.Column)
		if doc == nil {
			return fmt.Errorf("unknown document column %q", instruction.Column)
		}
		doc[instruction.Key] = instruction.Value
	case writeplan.MergeDocument:
		doc := document(instruction.Column)
		if doc == nil {
			return fmt.Errorf("unknown document column %q", instruction.Column)
		}
		for k, v := range instruction.Patch {
			doc[k] = v
		}
	}
	return nil
}

func (s *fakeStore) Remove(ctx context.Context, siteId, componentId uuid.UUID) error {
	component, _ := s.FetchOne(ctx, siteId, componentId)
	if component == nil {
		return contract.ErrNotFound
	}
	delete(s.components, componentId)
	return nil
}

func (s *fakeStore) AttachTag(ctx context.Context, componentId, tagId uuid.UUID) (*contract.TagAttachment, error) {
	if s.attachments[componentId] == nil {
		s.attachments[componentId] = map[uuid.UUID]bool{}
	}
	if s.attachments[componentId][tagId] {
		return &contract.TagAttachment{AlreadyAttached: true, StillTagged: true}, nil
	}
	s.attachments[componentId][tagId] = true
	if component, ok := s.components[componentId]; ok {
		component.HasTags = true
	}
	return &contract.TagAttachment{StillTagged: true}, nil
}

func (s *fakeStore) DetachTag(ctx context.Context, componentId, tagId uuid.UUID) (*contract.TagAttachment, error) {
	if !s.attachments[componentId][tagId] {
		return nil, contract.ErrNotAttached
	}
	delete(s.attachments[componentId], tagId)
	still := len(s.attachments[componentId]) > 0
	if component, ok := s.components[componentId]; ok {
		component.HasTags = still
	}
	return &contract.TagAttachment{StillTagged: still}, nil
}

func (s *fakeStore) FetchBySite(ctx context.Context, siteId uuid.UUID) (*entity.SiteDesign, error) {
	if s.design == nil {
		s.design = &entity.SiteDesign{Id: uuid.New(), SiteId: siteId, Theme: "light"}
	}
	return s.design, nil
}

func (s *fakeStore) applyDesignWrite(instructions []writeplan.Instruction) error {
	document := func(column string) map[string]interface{} {
		switch column {
		case "header_design":
			if s.design.HeaderDesign == nil {
				s.design.HeaderDesign = map[string]interface{}{}
			}
			return s.design.HeaderDesign
		case "card_design":
			if s.design.CardDesign == nil {
				s.design.CardDesign = map[string]interface{}{}
			}
			return s.design.CardDesign
		case "footer_design":
			if s.design.FooterDesign == nil {
				s.design.FooterDesign = map[string]interface{}{}
			}
			return s.design.FooterDesign
		}
		return nil
	}

	for _, instruction := range instructions {
		switch instruction.Kind {
		case writeplan.SetScalar:
			switch instruction.Column {
			case "theme":
				s.design.Theme = fmt.Sprint(instruction.Value)
			case "font":
				s.design.Font = fmt.Sprint(instruction.Value)
			default:
				return fmt.Errorf("unknown scalar column %q", instruction.Column)
			}
		case writeplan.SetDocumentKey:
			doc := document(instruction.Column)
			if doc == nil {
				return fmt.Errorf("unknown document column %q", instruction.Column)
			}
			doc[instruction.Key] = instruction.Value
		case writeplan.MergeDocument:
			doc := document(instruction.Column)
			if doc == nil {
				return fmt.Errorf("unknown document column %q", instruction.Column)
			}
			for k, v := range instruction.Patch {
				doc[k] = v
			}
		}
	}
	return nil
}

func (s *fakeStore) applyDesignWriteCtx(ctx context.Context, siteId uuid.UUID, instructions []writeplan.Instruction) (*entity.SiteDesign, error) {
	if _, err := s.FetchBySite(ctx, siteId); err != nil {
		return nil, err
	}
	s.designWrites = append(s.designWrites, instructions)
	if err := s.applyDesignWrite(instructions); err != nil {
		return nil, err
	}
	return s.design, nil
}

func (s *fakeStore) FindByName(ctx context.Context, siteId uuid.UUID, name string) (*entity.Tag, error) {
	tag, ok := s.tags[name]
	if !ok || tag.SiteId != siteId {
		return nil, nil
	}
	return tag, nil
}

// fakeFactory serves the shared fakeStore behind every unit of work.
type fakeFactory struct {
	store *fakeStore
}

var _ unitofwork.RepositoryFactory = &fakeFactory{}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUnitOfWork{store: f.store}
}

type fakeUnitOfWork struct {
	store *fakeStore
}

func (u *fakeUnitOfWork) ComponentRepository() contract.ComponentRepository {
	return u.store
}

func (u *fakeUnitOfWork) SiteDesignRepository() contract.SiteDesignRepository {
	return designRepoAdapter{store: u.store}
}

func (u *fakeUnitOfWork) TagRepository() contract.TagRepository {
	return u.store
}

// designRepoAdapter routes the design ApplyWrite signature onto the
// shared store; the component ApplyWrite signature already occupies the
// method name on fakeStore.
type designRepoAdapter struct {
	store *fakeStore
}

func (a designRepoAdapter) FetchBySite(ctx context.Context, siteId uuid.UUID) (*entity.SiteDesign, error) {
	return a.store.FetchBySite(ctx, siteId)
}

func (a designRepoAdapter) ApplyWrite(ctx context.Context, siteId uuid.UUID, instructions []writeplan.Instruction) (*entity.SiteDesign, error) {
	return a.store.applyDesignWriteCtx(ctx, siteId, instructions)
}
