package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	propertySort = newSortSpec("name ASC", "name", "island", "status")
	unitSort     = newSortSpec("unit_number ASC", "unit_number", "floor", "rent_amount", "status")
)

// GormPropertyRepository implements PropertyRepository using GORM
type GormPropertyRepository struct {
	db *gorm.DB
}

// NewGormPropertyRepository creates a new GormPropertyRepository
func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

// FindByIDForAccount finds a property by ID within an account
func (r *GormPropertyRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Property, error) {
	var p property.Property
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&p).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// FindAllForAccount finds properties matching the filter
func (r *GormPropertyRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	var properties []property.Property
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Property{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, propertySort).Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// CountForAccount counts properties matching the filter
func (r *GormPropertyRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Property{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// OccupancyStats returns unit counts keyed by property ID. Properties
// without units are absent from the map.
func (r *GormPropertyRepository) OccupancyStats(ctx context.Context, accountID uuid.UUID, propertyIDs []uuid.UUID) (map[uuid.UUID]property.OccupancyStats, error) {
	stats := make(map[uuid.UUID]property.OccupancyStats, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		PropertyID    uuid.UUID
		TotalUnits    int64
		OccupiedUnits int64
	}
	if err := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Select("property_id, COUNT(*) AS total_units, COALESCE(SUM(CASE WHEN is_occupied THEN 1 ELSE 0 END), 0) AS occupied_units").
		Where("account_id = ? AND property_id IN ?", accountID, propertyIDs).
		Group("property_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		stats[row.PropertyID] = property.OccupancyStats{TotalUnits: row.TotalUnits, OccupiedUnits: row.OccupiedUnits}
	}
	return stats, nil
}

// Save creates or updates a property
func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// DeleteForAccount deletes a property within an account
func (r *GormPropertyRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&property.Property{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormPropertyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "name", "address", "street", "island")

	for key, value := range filter.Filters {
		switch key {
		case "status", "property_type", "island":
			if v, ok := filterString(value); ok {
				query = query.Where(key+" = ?", v)
			}
		}
	}

	return query
}

// GormUnitRepository implements UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByIDForAccount finds a unit by ID within an account
func (r *GormUnitRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Unit, error) {
	var u property.Unit
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&u).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &u, nil
}

// FindAllForAccount finds units matching the filter
func (r *GormUnitRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Unit, error) {
	var units []property.Unit
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Unit{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, unitSort).Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// CountForAccount counts units matching the filter
func (r *GormUnitRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&property.Unit{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProperty counts the units of a property
func (r *GormUnitRepository) CountByProperty(ctx context.Context, accountID, propertyID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("account_id = ? AND property_id = ?", accountID, propertyID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByNumber checks whether a unit number is taken within a property
func (r *GormUnitRepository) ExistsByNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&property.Unit{}).
		Where("property_id = ? AND unit_number = ?", propertyID, unitNumber)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a unit
func (r *GormUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	return mapDuplicate(r.db.WithContext(ctx).Save(u).Error)
}

// DeleteForAccount deletes a unit within an account
func (r *GormUnitRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&property.Unit{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormUnitRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "unit_number", "unit_type")

	for key, value := range filter.Filters {
		switch key {
		case "property_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("property_id = ?", id)
			}
		case "status":
			if v, ok := filterString(value); ok {
				query = query.Where("status = ?", v)
			}
		case "is_occupied":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_occupied = ?", v)
			}
		}
	}

	return query
}

var (
	_ property.PropertyRepository = (*GormPropertyRepository)(nil)
	_ property.UnitRepository     = (*GormUnitRepository)(nil)
)
