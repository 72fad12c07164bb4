package entity

import (
	"time"

	"github.com/google/uuid"
)

type SiteDesign struct {
	Id           uuid.UUID
	SiteId       uuid.UUID
	Theme        string
	Font         string
	HeaderDesign map[string]interface{}
	CardDesign   map[string]interface{}
	FooterDesign map[string]interface{}
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
