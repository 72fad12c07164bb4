package unitofwork

import (
	"context"

	"ai-sitebuilder-be/internal/repository/contract"
	"ai-sitebuilder-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type RepositoryFactoryImpl struct {
	db *gorm.DB

	// Tag repository carries a lookup cache, so it is shared across
	// units of work instead of rebuilt per request.
	tags contract.TagRepository
}

func NewRepositoryFactory(db *gorm.DB) RepositoryFactory {
	return &RepositoryFactoryImpl{
		db:   db,
		tags: implementation.NewTagRepository(db),
	}
}

func (f *RepositoryFactoryImpl) NewUnitOfWork(ctx context.Context) UnitOfWork {
	return &UnitOfWorkImpl{db: f.db, tags: f.tags}
}

type UnitOfWorkImpl struct {
	db   *gorm.DB
	tags contract.TagRepository
}

func (u *UnitOfWorkImpl) ComponentRepository() contract.ComponentRepository {
	return implementation.NewComponentRepository(u.db)
}

func (u *UnitOfWorkImpl) SiteDesignRepository() contract.SiteDesignRepository {
	return implementation.NewSiteDesignRepository(u.db)
}

func (u *UnitOfWorkImpl) TagRepository() contract.TagRepository {
	return u.tags
}
