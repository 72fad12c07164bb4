package mapper

import (
	"time"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/model"

	"gorm.io/datatypes"
)

type ComponentMapper struct{}

func NewComponentMapper() *ComponentMapper {
	return &ComponentMapper{}
}

func (m *ComponentMapper) ToEntity(c *model.Component) *entity.Component {
	if c == nil {
		return nil
	}
	return &entity.Component{
		Id:         c.Id,
		SiteId:     c.SiteId,
		Kind:       c.Kind,
		Name:       c.Name,
		Props:      map[string]interface{}(c.Props),
		CardDesign: map[string]interface{}(c.CardDesign),
		HasTags:    c.HasTags,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  updatedAtPtr(c.UpdatedAt),
	}
}

func (m *ComponentMapper) ToEntities(models []*model.Component) []*entity.Component {
	entities := make([]*entity.Component, 0, len(models))
	for _, c := range models {
		entities = append(entities, m.ToEntity(c))
	}
	return entities
}

func (m *ComponentMapper) ToModel(c *entity.Component) *model.Component {
	if c == nil {
		return nil
	}
	return &model.Component{
		Id:         c.Id,
		SiteId:     c.SiteId,
		Kind:       c.Kind,
		Name:       c.Name,
		Props:      datatypes.JSONMap(c.Props),
		CardDesign: datatypes.JSONMap(c.CardDesign),
		HasTags:    c.HasTags,
		CreatedAt:  c.CreatedAt,
	}
}

func updatedAtPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
