package persistence

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var categorySort = newSortSpec("sort_order ASC, name ASC", "name", "sort_order", "level")

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForAccount finds a category by ID within an account
func (r *GormCategoryRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&category).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

// FindAllForAccount finds categories matching the filter
func (r *GormCategoryRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, categorySort).Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CountForAccount counts categories matching the filter
func (r *GormCategoryRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindAllUnpaged loads every category of the account
func (r *GormCategoryRepository) FindAllUnpaged(ctx context.Context, accountID uuid.UUID, activeOnly bool) ([]catalog.Category, error) {
	var categories []catalog.Category
	query := r.db.WithContext(ctx).Where("account_id = ?", accountID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("level ASC, sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindRoot finds the fixed parent category of a type
func (r *GormCategoryRepository) FindRoot(ctx context.Context, accountID uuid.UUID, categoryType catalog.CategoryType) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND category_type = ? AND parent_id IS NULL", accountID, categoryType).
		First(&category).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &category, nil
}

// FindByIDs loads the given categories
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id IN ?", accountID, ids).
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// DeleteForAccount deletes a category within an account
func (r *GormCategoryRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&catalog.Category{}, "account_id = ? AND id = ?", accountID, id))
}

// CountChildren counts the direct children of a category
func (r *GormCategoryRepository) CountChildren(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("account_id = ? AND parent_id = ?", accountID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts counts products assigned to the category
func (r *GormCategoryRepository) CountProducts(ctx context.Context, accountID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("account_id = ? AND category_id = ?", accountID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeepestDescendantLevel returns the highest level under path, or 0
func (r *GormCategoryRepository) DeepestDescendantLevel(ctx context.Context, accountID uuid.UUID, path string) (int, error) {
	var deepest int
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Select("COALESCE(MAX(level), 0)").
		Where("account_id = ? AND path LIKE ? ESCAPE '\\'", accountID, escapeLike(path)+"/%").
		Scan(&deepest).Error; err != nil {
		return 0, err
	}
	return deepest, nil
}

// ReplacePathPrefix rewrites the materialized path of every descendant of
// oldPrefix. The moved category itself is saved by the caller.
func (r *GormCategoryRepository) ReplacePathPrefix(ctx context.Context, accountID uuid.UUID, oldPrefix, newPrefix string, levelDelta int, categoryType catalog.CategoryType) error {
	// SUBSTR is 1-based and portable across PostgreSQL and SQLite
	return r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Where("account_id = ? AND path LIKE ? ESCAPE '\\'", accountID, escapeLike(oldPrefix)+"/%").
		Updates(map[string]any{
			"path":          gorm.Expr("? || SUBSTR(path, "+strconv.Itoa(len(oldPrefix)+1)+")", newPrefix),
			"level":         gorm.Expr("level + ?", levelDelta),
			"category_type": categoryType,
		}).Error
}

// applyFilter applies search and filter options without pagination
func (r *GormCategoryRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "name", "description")

	for key, value := range filter.Filters {
		switch key {
		case "category_type":
			if v, ok := filterString(value); ok {
				query = query.Where("category_type = ?", v)
			}
		case "parent_id":
			if value == nil {
				query = query.Where("parent_id IS NULL")
			} else if id, ok := filterUUID(value); ok {
				query = query.Where("parent_id = ?", id)
			}
		case "is_active":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_active = ?", v)
			}
		case "level":
			query = query.Where("level = ?", value)
		}
	}

	return query
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
