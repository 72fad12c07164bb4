package mapper

import (
	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/model"
)

type TagMapper struct{}

func NewTagMapper() *TagMapper {
	return &TagMapper{}
}

func (m *TagMapper) ToEntity(t *model.Tag) *entity.Tag {
	if t == nil {
		return nil
	}
	return &entity.Tag{
		Id:        t.Id,
		SiteId:    t.SiteId,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}
