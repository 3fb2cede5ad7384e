package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var quotationSort = newSortSpec("created_at DESC", "quotation_number", "status", "valid_until", "total_amount")

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	})
}

// FindByIDForAccount finds a quotation with its items
func (r *GormQuotationRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&q).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &q, nil
}

// FindAllForAccount finds quotations matching the filter. Items are not loaded.
func (r *GormQuotationRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.Quotation, error) {
	var quotations []quotation.Quotation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, quotationSort).Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// CountForAccount counts quotations matching the filter
func (r *GormQuotationRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the quotation header and replaces its item set
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(q).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&quotation.Item{}).Error; err != nil {
			return err
		}
		if len(q.Items) == 0 {
			return nil
		}
		for i := range q.Items {
			q.Items[i].QuotationID = q.ID
		}
		return tx.Create(&q.Items).Error
	})
	return mapDuplicate(err)
}

// DeleteForAccount deletes a quotation and its items
func (r *GormQuotationRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&quotation.Quotation{}, "account_id = ? AND id = ?", accountID, id)
		if err := deleteResult(result); err != nil {
			return err
		}
		return tx.Where("quotation_id = ?", id).Delete(&quotation.Item{}).Error
	})
}

// FindExpirable returns draft or sent quotations whose validity has passed
func (r *GormQuotationRepository) FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]quotation.Quotation, error) {
	var quotations []quotation.Quotation
	if err := preloadItems(r.db.WithContext(ctx)).
		Where("account_id = ? AND status IN ? AND valid_until IS NOT NULL AND valid_until < ?",
			accountID, []quotation.Status{quotation.StatusDraft, quotation.StatusSent}, asOf).
		Order("valid_until ASC").
		Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// applyFilter applies search and filter options without pagination
func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "quotation_number", "notes")
	query = dateRange(query, filter.Filters, "created_at")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			if v, ok := filterString(value); ok {
				query = query.Where("status = ?", v)
			}
		case "customer_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("customer_id = ?", id)
			}
		}
	}

	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ quotation.QuotationRepository = (*GormQuotationRepository)(nil)
