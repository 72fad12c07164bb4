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
	"ai-sitebuilder-be/pkg/writeplan"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	designScalarColumns = map[string]bool{
		"theme": true,
		"font":  true,
	}
	designDocumentColumns = map[string]bool{
		"header_design": true,
		"card_design":   true,
		"footer_design": true,
	}
)

type SiteDesignRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SiteDesignMapper
}

func NewSiteDesignRepository(db *gorm.DB) contract.SiteDesignRepository {
	return &SiteDesignRepositoryImpl{
		db:     db,
		mapper: mapper.NewSiteDesignMapper(),
	}
}

// FetchBySite returns the design row, creating the default one on first
// access so every site always has design state to restate and update.
func (r *SiteDesignRepositoryImpl) FetchBySite(ctx context.Context, siteId uuid.UUID) (*entity.SiteDesign, error) {
	var m model.SiteDesign
	err := r.db.WithContext(ctx).
		Where(model.SiteDesign{SiteId: siteId}).
		Attrs(model.SiteDesign{Id: uuid.New(), Theme: "light"}).
		FirstOrCreate(&m).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SiteDesignRepositoryImpl) ApplyWrite(ctx context.Context, siteId uuid.UUID, instructions []writeplan.Instruction) (*entity.SiteDesign, error) {
	var updated model.SiteDesign

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.SiteDesign
		err := tx.Where("site_id = ?", siteId).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return contract.ErrNotFound
		}
		if err != nil {
			return err
		}

		for _, in := range instructions {
			if err := applyDesignInstruction(tx, siteId, in); err != nil {
				return err
			}
		}

		return tx.Where("site_id = ?", siteId).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&updated), nil
}

func applyDesignInstruction(tx *gorm.DB, siteId uuid.UUID, in writeplan.Instruction) error {
	target := tx.Model(&model.SiteDesign{}).Where("site_id = ?", siteId)

	switch in.Kind {
	case writeplan.SetScalar:
		if !designScalarColumns[in.Column] {
			return fmt.Errorf("column %q is not writable", in.Column)
		}
		return applyResult(target.Update(in.Column, in.Value))

	case writeplan.SetDocumentKey:
		if !designDocumentColumns[in.Column] {
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
		if !designDocumentColumns[in.Column] {
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
