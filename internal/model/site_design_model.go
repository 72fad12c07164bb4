package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SiteDesign struct {
	Id           uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SiteId       uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	Theme        string            `gorm:"type:varchar(50);not null;default:'light'"`
	Font         string            `gorm:"type:varchar(100)"`
	HeaderDesign datatypes.JSONMap `gorm:"type:jsonb;column:header_design"`
	CardDesign   datatypes.JSONMap `gorm:"type:jsonb;column:card_design"`
	FooterDesign datatypes.JSONMap `gorm:"type:jsonb;column:footer_design"`
	CreatedAt    time.Time         `gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt    `gorm:"index"`
}

func (SiteDesign) TableName() string {
	return "site_designs"
}
