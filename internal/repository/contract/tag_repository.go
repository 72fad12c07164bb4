package contract

import (
	"context"

	"ai-sitebuilder-be/internal/entity"

	"github.com/google/uuid"
)

type TagRepository interface {
	// FindByName looks a tag up by name scoped to one site. Returns nil
	// without error when absent.
	FindByName(ctx context.Context, siteId uuid.UUID, name string) (*entity.Tag, error)
}
