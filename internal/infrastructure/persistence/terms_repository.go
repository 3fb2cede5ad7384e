package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var termsSort = newSortSpec("display_order ASC, title ASC", "title", "display_order", "category_type")

// GormTermsTemplateRepository implements TermsTemplateRepository using GORM
type GormTermsTemplateRepository struct {
	db *gorm.DB
}

// NewGormTermsTemplateRepository creates a new GormTermsTemplateRepository
func NewGormTermsTemplateRepository(db *gorm.DB) *GormTermsTemplateRepository {
	return &GormTermsTemplateRepository{db: db}
}

// FindByIDForAccount finds a template by ID within an account
func (r *GormTermsTemplateRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.TermsTemplate, error) {
	var t quotation.TermsTemplate
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

// FindAllForAccount finds templates matching the filter
func (r *GormTermsTemplateRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.TermsTemplate, error) {
	var templates []quotation.TermsTemplate
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.TermsTemplate{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, termsSort).Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// CountForAccount counts templates matching the filter
func (r *GormTermsTemplateRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.TermsTemplate{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveByCategory returns active templates of a category, the default first
func (r *GormTermsTemplateRepository) FindActiveByCategory(ctx context.Context, accountID uuid.UUID, category quotation.TermsCategory) ([]quotation.TermsTemplate, error) {
	var templates []quotation.TermsTemplate
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND category_type = ? AND is_active = ?", accountID, category, true).
		Order("is_default DESC, display_order ASC, title ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// FindByIDs loads the given templates
func (r *GormTermsTemplateRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]quotation.TermsTemplate, error) {
	if len(ids) == 0 {
		return []quotation.TermsTemplate{}, nil
	}
	var templates []quotation.TermsTemplate
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Order("display_order ASC, title ASC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Save creates or updates a template
func (r *GormTermsTemplateRepository) Save(ctx context.Context, template *quotation.TermsTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// SaveAsDefault clears the previous default of the category and saves
// template as the new default
func (r *GormTermsTemplateRepository) SaveAsDefault(ctx context.Context, template *quotation.TermsTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&quotation.TermsTemplate{}).
			Where("account_id = ? AND category_type = ? AND is_default = ? AND id <> ?",
				template.AccountID, template.Category, true, template.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Save(template).Error
	})
}

// DeleteForAccount deletes a template within an account
func (r *GormTermsTemplateRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&quotation.TermsTemplate{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormTermsTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "title")

	for key, value := range filter.Filters {
		switch key {
		case "category_type":
			if v, ok := filterString(value); ok {
				query = query.Where("category_type = ?", v)
			}
		case "is_active":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_active = ?", v)
			}
		}
	}

	return query
}

// Ensure GormTermsTemplateRepository implements TermsTemplateRepository
var _ quotation.TermsTemplateRepository = (*GormTermsTemplateRepository)(nil)
