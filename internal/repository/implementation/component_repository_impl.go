package implementation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-sitebuilder-be/internal/entity"
	"ai-sitebuilder-be/internal/mapper"
	"ai-sitebuilder-be/internal/model"
	"ai-sitebuilder-be/internal/repository/contract"
	"ai-sitebuilder-be/internal/repository/specification"
	"ai-sitebuilder-be/pkg/criteria"
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column whitelists. Instruction columns are interpolated into jsonb
// expressions, so anything outside the declared schema is refused before
// it reaches SQL.
var (
	componentScalarColumns = map[string]bool{
		"name": true,
	}
	componentDocumentColumns = map[string]bool{
		"props":       true,
		"card_design": true,
	}
)

type ComponentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ComponentMapper
}

func NewComponentRepository(db *gorm.DB) contract.ComponentRepository {
	return &ComponentRepositoryImpl{
		db:     db,
		mapper: mapper.NewComponentMapper(),
	}
}

func (r *ComponentRepositoryImpl) Create(ctx context.Context, component *entity.Component) error {
	m := r.mapper.ToModel(component)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*component = *r.mapper.ToEntity(m)
	return nil
}

func (r *ComponentRepositoryImpl) FetchOne(ctx context.Context, siteId, componentId uuid.UUID) (*entity.Component, error) {
	var m model.Component
	err := r.db.WithContext(ctx).
		Where("id = ? AND site_id = ?", componentId, siteId).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ComponentRepositoryImpl) FetchAll(ctx context.Context, siteId uuid.UUID) ([]*entity.Component, error) {
	var models []*model.Component
	query := specification.BySiteID{SiteID: siteId}.Apply(r.db.WithContext(ctx))
	query = specification.OrderBy{Field: "created_at"}.Apply(query)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ComponentRepositoryImpl) Search(ctx context.Context, siteId uuid.UUID, predicates []criteria.Predicate) ([]*entity.Component, error) {
	query := specification.BySiteID{SiteID: siteId}.Apply(r.db.WithContext(ctx))
	for _, p := range predicates {
		if !componentScalarColumns[p.Column] && !componentDocumentColumns[p.Column] && p.Column != "kind" {
			return nil, fmt.Errorf("column %q is not searchable", p.Column)
		}
		query = specification.FromPredicate(p).Apply(query)
	}
	query = specification.OrderBy{Field: "created_at"}.Apply(query)

	var models []*model.Component
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// ApplyWrite executes the compiled plan inside one transaction: existence
// precheck, instructions in order (last-applied-wins on a shared column),
// then a read-back of the post-update row.
func (r *ComponentRepositoryImpl) ApplyWrite(ctx context.Context, siteId, componentId uuid.UUID, instructions []writeplan.Instruction) (*entity.Component, error) {
	var updated model.Component

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Component
		err := tx.Where("id = ? AND site_id = ?", componentId, siteId).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		if err != nil {
			return err
		}

		for _, in := range instructions {
			if err := applyComponentInstruction(tx, siteId, componentId, in); err != nil {
				return err
			}
		}

		return tx.Where("id = ? AND site_id = ?", componentId, siteId).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&updated), nil
}

func applyComponentInstruction(tx *gorm.DB, siteId, componentId uuid.UUID, in writeplan.Instruction) error {
	target := tx.Model(&model.Component{}).
		Where("id = ? AND site_id = ?", componentId, siteId)

	switch in.Kind {
	case writeplan.SetScalar:
		if !componentScalarColumns[in.Column] {
			return fmt.Errorf("column %q is not writable", in.Column)
		}
		return applyResult(target.Update(in.Column, in.Value))

	case writeplan.SetDocumentKey:
		if !componentDocumentColumns[in.Column] {
			return fmt.Errorf("column %q is not a document column", in.Column)
		}
		value, err := json.Marshal(in.Value)
		if err != nil {
			return fmt.Errorf("marshal document value: %w", err)
		}
		expr := gorm.Expr(
			"jsonb_set(COALESCE("+in.Column+", '{}'::jsonb), ?::text[], ?::jsonb, true)",
			"{"+in.Key+"}", string(value),
		)
		return applyResult(target.Update(in.Column, expr))

	case writeplan.MergeDocument:
		if !componentDocumentColumns[in.Column] {
			return fmt.Errorf("column %q is not a document column", in.Column)
		}
		patch, err := json.Marshal(in.Patch)
		if err != nil {
			return fmt.Errorf("marshal document patch: %w", err)
		}
		expr := gorm.Expr("COALESCE("+in.Column+", '{}'::jsonb) || ?::jsonb", string(patch))
		return applyResult(target.Update(in.Column, expr))
	}
	return fmt.Errorf("unknown instruction kind %v", in.Kind)
}

// applyResult converts a zero-row update into ErrNotFound: the subject
// vanished between precheck and write.
func applyResult(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

func (r *ComponentRepositoryImpl) Remove(ctx context.Context, siteId, componentId uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND site_id = ?", componentId, siteId).
		Delete(&model.Component{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return contract.ErrNotFound
	}
	return nil
}

// AttachTag is idempotent: attaching an already-attached tag reports
// AlreadyAttached instead of silently succeeding with no change.
func (r *ComponentRepositoryImpl) AttachTag(ctx context.Context, componentId, tagId uuid.UUID) (*contract.TagAttachment, error) {
	attachment := &contract.TagAttachment{StillTagged: true}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ComponentTag
		err := tx.Where("component_id = ? AND tag_id = ?", componentId, tagId).First(&existing).Error
		if err == nil {
			attachment.AlreadyAttached = true
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&model.ComponentTag{ComponentId: componentId, TagId: tagId}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Component{}).
			Where("id = ?", componentId).
			Update("has_tags", true).Error
	})
	if err != nil {
		return nil, err
	}
	return attachment, nil
}

// DetachTag removes the attachment and recomputes the derived has_tags
// flag from the remaining attachments in the same transaction.
func (r *ComponentRepositoryImpl) DetachTag(ctx context.Context, componentId, tagId uuid.UUID) (*contract.TagAttachment, error) {
	attachment := &contract.TagAttachment{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("component_id = ? AND tag_id = ?", componentId, tagId).
			Delete(&model.ComponentTag{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return contract.ErrNotAttached
		}

		var remaining int64
		if err := tx.Model(&model.ComponentTag{}).
			Where("component_id = ?", componentId).
			Count(&remaining).Error; err != nil {
			return err
		}
		attachment.StillTagged = remaining > 0

		return tx.Model(&model.Component{}).
			Where("id = ?", componentId).
			Update("has_tags", attachment.StillTagged).Error
	})
	if err != nil {
		return nil, err
	}
	return attachment, nil
}
