package model

import (
	"time"

	"github.com/google/uuid"
)

type Tag struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SiteId    uuid.UUID `gorm:"type:uuid;not null;index:idx_tags_site_name,unique"`
	Name      string    `gorm:"type:varchar(100);not null;index:idx_tags_site_name,unique"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Tag) TableName() string {
	return "tags"
}

// ComponentTag is the attachment join row. The composite primary key
// makes attachment naturally idempotent at the storage layer.
type ComponentTag struct {
	ComponentId uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagId       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (ComponentTag) TableName() string {
	return "component_tags"
}
