package entity

import (
	"time"

	"github.com/google/uuid"
)

type Component struct {
	Id         uuid.UUID
	SiteId     uuid.UUID
	Kind       string
	Name       string
	Props      map[string]interface{}
	CardDesign map[string]interface{}
	HasTags    bool
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

type Tag struct {
	Id        uuid.UUID
	SiteId    uuid.UUID
	Name      string
	CreatedAt time.Time
}
