package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Component struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SiteId     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Kind       string            `gorm:"type:varchar(50);not null;index"`
	Name       string            `gorm:"type:varchar(255);not null"`
	Props      datatypes.JSONMap `gorm:"type:jsonb"`
	CardDesign datatypes.JSONMap `gorm:"type:jsonb;column:card_design"`
	HasTags    bool              `gorm:"default:false"`
	CreatedAt  time.Time         `gorm:"autoCreateTime"`
	UpdatedAt  time.Time         `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt    `gorm:"index"`
}

func (Component) TableName() string {
	return "components"
}
