package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var leaseSort = newSortSpec("lease_start DESC", "lease_start", "lease_end", "monthly_rent", "status")

// GormLeaseRepository implements LeaseRepository using GORM
type GormLeaseRepository struct {
	db *gorm.DB
}

// NewGormLeaseRepository creates a new GormLeaseRepository
func NewGormLeaseRepository(db *gorm.DB) *GormLeaseRepository {
	return &GormLeaseRepository{db: db}
}

// FindByIDForAccount finds a lease by ID within an account
func (r *GormLeaseRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Lease, error) {
	var l property.Lease
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&l).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &l, nil
}

// FindAllForAccount finds leases matching the filter
func (r *GormLeaseRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Lease, error) {
	var leases []property.Lease
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Lease{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, leaseSort).Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// CountForAccount counts leases matching the filter
func (r *GormLeaseRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Lease{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByUnit counts active leases on a unit, ignoring excludeID
func (r *GormLeaseRepository) CountActiveByUnit(ctx context.Context, unitID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&property.Lease{}).
		Where("unit_id = ? AND status = ?", unitID, property.LeaseStatusActive)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActiveByTenant counts the active leases of a tenant
func (r *GormLeaseRepository) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&property.Lease{}).
		Where("tenant_id = ? AND status = ?", tenantID, property.LeaseStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByUnit counts every lease ever recorded on a unit
func (r *GormLeaseRepository) CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&property.Lease{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindActiveForMonth returns active leases that overlap the calendar month
// containing month
func (r *GormLeaseRepository) FindActiveForMonth(ctx context.Context, accountID uuid.UUID, month time.Time) ([]property.Lease, error) {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := start.AddDate(0, 1, 0)

	var leases []property.Lease
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND status = ? AND lease_start < ? AND (lease_end IS NULL OR lease_end >= ?)",
			accountID, property.LeaseStatusActive, next, start).
		Order("lease_start ASC").
		Find(&leases).Error; err != nil {
		return nil, err
	}
	return leases, nil
}

// Save creates or updates a lease
func (r *GormLeaseRepository) Save(ctx context.Context, l *property.Lease) error {
	return r.db.WithContext(ctx).Save(l).Error
}

// applyFilter applies filter options without pagination
func (r *GormLeaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "notes")

	for key, value := range filter.Filters {
		switch key {
		case "tenant_id", "unit_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where(key+" = ?", id)
			}
		case "property_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("unit_id IN (SELECT id FROM units WHERE property_id = ?)", id)
			}
		case "status":
			if v, ok := filterString(value); ok {
				query = query.Where("status = ?", v)
			}
		}
	}

	return query
}

// GormOccupancyRepository implements OccupancyRepository using GORM
type GormOccupancyRepository struct {
	db *gorm.DB
}

// NewGormOccupancyRepository creates a new GormOccupancyRepository
func NewGormOccupancyRepository(db *gorm.DB) *GormOccupancyRepository {
	return &GormOccupancyRepository{db: db}
}

// Append records an occupancy change
func (r *GormOccupancyRepository) Append(ctx context.Context, entry *property.OccupancyHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByUnit returns the occupancy history of a unit, newest first
func (r *GormOccupancyRepository) FindByUnit(ctx context.Context, accountID, unitID uuid.UUID) ([]property.OccupancyHistory, error) {
	var history []property.OccupancyHistory
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND unit_id = ?", accountID, unitID).
		Order("action_date DESC, created_at DESC").
		Find(&history).Error; err != nil {
		return nil, err
	}
	return history, nil
}

var (
	_ property.LeaseRepository     = (*GormLeaseRepository)(nil)
	_ property.OccupancyRepository = (*GormOccupancyRepository)(nil)
)
