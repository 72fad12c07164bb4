package contract

import (
	"context"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
)

type SiteDesignRepository interface {
	// FetchBySite returns the design row for a site, creating the
	// default row on first access.
	FetchBySite(ctx context.Context, siteId uuid.UUID) (*entity.SiteDesign, error)
	ApplyWrite(ctx context.Context, siteId uuid.UUID, instructions []writeplan.Instruction) (*entity.SiteDesign, error)
}
