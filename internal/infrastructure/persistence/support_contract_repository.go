package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var contractSort = newSortSpec("expiry_date ASC", "contract_number", "start_date", "expiry_date", "status")

// GormSupportContractRepository implements SupportContractRepository using GORM
type GormSupportContractRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSupportContractRepository creates a new GormSupportContractRepository
func NewGormSupportContractRepository(db *gorm.DB) *GormSupportContractRepository {
	return &GormSupportContractRepository{db: db, now: time.Now}
}

// FindByIDForAccount finds a contract by ID within an account
func (r *GormSupportContractRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.SupportContract, error) {
	var c quotation.SupportContract
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&c).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &c, nil
}

// FindAllForAccount finds contracts matching the filter
func (r *GormSupportContractRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.SupportContract, error) {
	var contracts []quotation.SupportContract
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.SupportContract{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, contractSort).Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// CountForAccount counts contracts matching the filter
func (r *GormSupportContractRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.SupportContract{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a contract number is taken, ignoring excludeID
func (r *GormSupportContractRepository) ExistsByNumber(ctx context.Context, accountID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&quotation.SupportContract{}).
		Where("account_id = ? AND contract_number = ?", accountID, number)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindDueForExpiry returns active contracts whose expiry date is before asOf
func (r *GormSupportContractRepository) FindDueForExpiry(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]quotation.SupportContract, error) {
	var contracts []quotation.SupportContract
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND status = ? AND expiry_date < ?", accountID, quotation.ContractStatusActive, asOf).
		Order("expiry_date ASC").
		Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// Save creates or updates a contract
func (r *GormSupportContractRepository) Save(ctx context.Context, contract *quotation.SupportContract) error {
	return mapDuplicate(r.db.WithContext(ctx).Save(contract).Error)
}

// DeleteForAccount deletes a contract within an account
func (r *GormSupportContractRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&quotation.SupportContract{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormSupportContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "contract_number", "contract_type", "notes")

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
		case "expiring":
			if v, ok := filterBool(value); ok && v {
				now := r.now()
				today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
				query = query.Where("status = ? AND expiry_date >= ? AND expiry_date <= ?",
					quotation.ContractStatusActive, today, today.AddDate(0, 0, quotation.ExpiringSoonDays))
			}
		}
	}

	return query
}

// Ensure GormSupportContractRepository implements SupportContractRepository
var _ quotation.SupportContractRepository = (*GormSupportContractRepository)(nil)
