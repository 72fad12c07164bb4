package mapper

import (
	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/model"

	"gorm.io/datatypes"
)

type SiteDesignMapper struct{}

func NewSiteDesignMapper() *SiteDesignMapper {
	return &SiteDesignMapper{}
}

func (m *SiteDesignMapper) ToEntity(d *model.SiteDesign) *entity.SiteDesign {
	if d == nil {
		return nil
	}
	return &entity.SiteDesign{
		Id:           d.Id,
		SiteId:       d.SiteId,
		Theme:        d.Theme,
		Font:         d.Font,
		HeaderDesign: map[string]interface{}(d.HeaderDesign),
		CardDesign:   map[string]interface{}(d.CardDesign),
		FooterDesign: map[string]interface{}(d.FooterDesign),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    updatedAtPtr(d.UpdatedAt),
	}
}

func (m *SiteDesignMapper) ToModel(d *entity.SiteDesign) *model.SiteDesign {
	if d == nil {
		return nil
	}
	return &model.SiteDesign{
		Id:           d.Id,
		SiteId:       d.SiteId,
		Theme:        d.Theme,
		Font:         d.Font,
		HeaderDesign: datatypes.JSONMap(d.HeaderDesign),
		CardDesign:   datatypes.JSONMap(d.CardDesign),
		FooterDesign: datatypes.JSONMap(d.FooterDesign),
		CreatedAt:    d.CreatedAt,
	}
}
