package implementation

import (
	"context"
	"errors"
	"time"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/mapper"
	"ai-sitebuilder-be/internal/model"
	"ai-sitebuilder-be/internal/repository/contract"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// Tag names are stable once created, so lookups sit behind a short TTL
// cache to keep repeated attach/detach turns off the database.
const (
	tagCacheTTL     = 5 * time.Minute
	tagCacheCleanup = 10 * time.Minute
)

type TagRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TagMapper
	cache  *gocache.Cache
}

func NewTagRepository(db *gorm.DB) contract.TagRepository {
	return &TagRepositoryImpl{
		db:     db,
		mapper: mapper.NewTagMapper(),
		cache:  gocache.New(tagCacheTTL, tagCacheCleanup),
	}
}

func (r *TagRepositoryImpl) FindByName(ctx context.Context, siteId uuid.UUID, name string) (*entity.Tag, error) {
	cacheKey := siteId.String() + "/" + name
	if cached, found := r.cache.Get(cacheKey); found {
		return cached.(*entity.Tag), nil
	}

	var m model.Tag
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND name = ?", siteId, name).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	tag := r.mapper.ToEntity(&m)
	r.cache.Set(cacheKey, tag, gocache.DefaultExpiration)
	return tag, nil
}
