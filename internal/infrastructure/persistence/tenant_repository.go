package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var tenantSort = newSortSpec("full_name ASC", "full_name", "email", "status")

// GormTenantRepository implements TenantRepository using GORM. Tenants here
// are renters, not the accounts that own the data.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByIDForAccount finds a tenant by ID within an account
func (r *GormTenantRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Tenant, error) {
	var t property.Tenant
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&t).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &t, nil
}

// FindAllForAccount finds tenants matching the filter
func (r *GormTenantRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Tenant, error) {
	var tenants []property.Tenant
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Tenant{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, tenantSort).Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

// CountForAccount counts tenants matching the filter
func (r *GormTenantRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Tenant{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *property.Tenant) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// DeleteForAccount deletes a tenant within an account
func (r *GormTenantRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&property.Tenant{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormTenantRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "full_name", "email", "phone", "id_proof_number")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			if v, ok := filterString(value); ok {
				query = query.Where("status = ?", v)
			}
		case "nationality":
			if v, ok := filterString(value); ok {
				query = query.Where("nationality = ?", v)
			}
		}
	}

	return query
}

// Ensure GormTenantRepository implements TenantRepository
var _ property.TenantRepository = (*GormTenantRepository)(nil)
