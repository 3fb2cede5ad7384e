package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormInvoiceTemplateRepository implements InvoiceTemplateRepository using GORM
type GormInvoiceTemplateRepository struct {
	db *gorm.DB
}

// NewGormInvoiceTemplateRepository creates a new GormInvoiceTemplateRepository
func NewGormInvoiceTemplateRepository(db *gorm.DB) *GormInvoiceTemplateRepository {
	return &GormInvoiceTemplateRepository{db: db}
}

// FindByIDForAccount finds a template by ID within an account
func (r *GormInvoiceTemplateRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.InvoiceTemplate, error) {
	var t billing.InvoiceTemplate
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

// FindAllForAccount lists templates, default first and then by name. The
// order is fixed regardless of the filter's sort fields.
func (r *GormInvoiceTemplateRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.InvoiceTemplate, error) {
	var templates []billing.InvoiceTemplate
	f := filter.Normalize()
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.InvoiceTemplate{}).Where("account_id = ?", accountID), f)
	if err := query.
		Order("is_default DESC, name ASC").
		Offset(f.Offset()).
		Limit(f.PageSize).
		Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// CountForAccount counts templates matching the filter
func (r *GormInvoiceTemplateRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.InvoiceTemplate{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDefault returns the active default template that covers
// templateType, preferring an exact type match over "both"
func (r *GormInvoiceTemplateRepository) FindDefault(ctx context.Context, accountID uuid.UUID, templateType billing.TemplateType) (*billing.InvoiceTemplate, error) {
	var templates []billing.InvoiceTemplate
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND is_active = ? AND is_default = ? AND template_type IN ?",
			accountID, true, true, []billing.TemplateType{templateType, billing.TemplateTypeBoth}).
		Order("updated_at DESC").
		Find(&templates).Error; err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, shared.ErrNotFound
	}
	for i := range templates {
		if templates[i].Type == templateType {
			return &templates[i], nil
		}
	}
	return &templates[0], nil
}

// Save creates or updates a template
func (r *GormInvoiceTemplateRepository) Save(ctx context.Context, template *billing.InvoiceTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// SaveAsDefault clears other defaults of the same type and saves template
func (r *GormInvoiceTemplateRepository) SaveAsDefault(ctx context.Context, template *billing.InvoiceTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&billing.InvoiceTemplate{}).
			Where("account_id = ? AND template_type = ? AND is_default = ? AND id <> ?",
				template.AccountID, template.Type, true, template.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Save(template).Error
	})
}

// DeleteForAccount deletes a template within an account
func (r *GormInvoiceTemplateRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&billing.InvoiceTemplate{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormInvoiceTemplateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "name")

	for key, value := range filter.Filters {
		switch key {
		case "template_type", "type":
			if v, ok := filterString(value); ok {
				query = query.Where("template_type IN ?", []string{v, string(billing.TemplateTypeBoth)})
			}
		case "is_active":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_active = ?", v)
			}
		}
	}

	return query
}

// Ensure GormInvoiceTemplateRepository implements InvoiceTemplateRepository
var _ billing.InvoiceTemplateRepository = (*GormInvoiceTemplateRepository)(nil)
