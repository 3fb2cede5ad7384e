package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var productSort = newSortSpec("name ASC", "name", "sku", "unit_price")

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForAccount finds a product by ID within an account
func (r *GormProductRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&product).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &product, nil
}

// FindAllForAccount finds products matching the filter
func (r *GormProductRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, productSort).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForAccount counts products matching the filter
func (r *GormProductRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistsBySKU checks whether a SKU is taken, ignoring excludeID
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, accountID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("account_id = ? AND sku = ?", accountID, strings.ToUpper(strings.TrimSpace(sku)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product. A concurrent insert of the same SKU
// surfaces as catalog.ErrDuplicateSKU.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return catalog.ErrDuplicateSKU
		}
		return err
	}
	return nil
}

// DeleteForAccount deletes a product within an account
func (r *GormProductRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&catalog.Product{}, "account_id = ? AND id = ?", accountID, id))
}

// Stats aggregates counts and the average unit price
func (r *GormProductRepository) Stats(ctx context.Context, accountID uuid.UUID) (*catalog.ProductStats, error) {
	var row struct {
		Total        int64
		Active       int64
		ManDayBased  int64
		AveragePrice decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN is_active THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN is_man_day_based THEN 1 ELSE 0 END), 0) AS man_day_based,
			AVG(unit_price) AS average_price`).
		Where("account_id = ?", accountID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	stats := &catalog.ProductStats{
		Total:        row.Total,
		Active:       row.Active,
		ManDayBased:  row.ManDayBased,
		AveragePrice: decimal.Zero,
	}
	if row.AveragePrice.Valid {
		stats.AveragePrice = shared.RoundMoney(row.AveragePrice.Decimal)
	}
	return stats, nil
}

// applyFilter applies search and filter options without pagination
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "name", "sku", "brand", "model", "part_number")

	for key, value := range filter.Filters {
		switch key {
		case "category_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("category_id = ?", id)
			}
		case "is_active":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_active = ?", v)
			}
		case "is_man_day_based":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_man_day_based = ?", v)
			}
		case "min_price":
			query = query.Where("unit_price >= ?", value)
		case "max_price":
			query = query.Where("unit_price <= ?", value)
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
