package unitofwork

import (
	"ai-sitebuilder-be/internal/repository/contract"
)

type UnitOfWork interface {
	ComponentRepository() contract.ComponentRepository
	SiteDesignRepository() contract.SiteDesignRepository
	TagRepository() contract.TagRepository
}
