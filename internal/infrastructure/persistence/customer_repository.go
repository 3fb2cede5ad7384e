package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var customerSort = newSortSpec("resort_name ASC", "resort_name", "resort_code", "country")

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByIDForAccount finds a customer by ID within an account
func (r *GormCustomerRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.Customer, error) {
	var customer quotation.Customer
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&customer).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &customer, nil
}

// FindAllForAccount finds customers matching the filter
func (r *GormCustomerRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.Customer, error) {
	var customers []quotation.Customer
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.Customer{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, customerSort).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// CountForAccount counts customers matching the filter
func (r *GormCustomerRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.Customer{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByResortCode checks whether a resort code is already assigned
func (r *GormCustomerRepository) ExistsByResortCode(ctx context.Context, accountID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&quotation.Customer{}).
		Where("account_id = ? AND resort_code = ?", accountID, strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountReferences counts quotations and support contracts of the customer
func (r *GormCustomerRepository) CountReferences(ctx context.Context, accountID, id uuid.UUID) (int64, error) {
	var quotations, contracts int64
	if err := r.db.WithContext(ctx).
		Model(&quotation.Quotation{}).
		Where("account_id = ? AND customer_id = ?", accountID, id).
		Count(&quotations).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&quotation.SupportContract{}).
		Where("account_id = ? AND customer_id = ?", accountID, id).
		Count(&contracts).Error; err != nil {
		return 0, err
	}
	return quotations + contracts, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *quotation.Customer) error {
	return mapDuplicate(r.db.WithContext(ctx).Save(customer).Error)
}

// DeleteForAccount deletes a customer within an account
func (r *GormCustomerRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&quotation.Customer{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "resort_name", "resort_code", "holding_company")

	for key, value := range filter.Filters {
		switch key {
		case "country":
			if v, ok := filterString(value); ok {
				query = query.Where("country = ?", v)
			}
		}
	}

	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ quotation.CustomerRepository = (*GormCustomerRepository)(nil)
