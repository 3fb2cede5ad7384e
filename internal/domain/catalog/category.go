package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// MaxCategoryDepth is the maximum depth of category hierarchy
const MaxCategoryDepth = 5

// CategoryType classifies a category tree. Each type has exactly one root.
type CategoryType string

const (
	CategoryTypeServices   CategoryType = "services"
	CategoryTypeHardware   CategoryType = "hardware"
	CategoryTypeSoftware   CategoryType = "software"
	CategoryTypeSpareParts CategoryType = "spare_parts"
)

// AllCategoryTypes returns the four fixed parent types in display order
func AllCategoryTypes() []CategoryType {
	return []CategoryType{
		CategoryTypeServices,
		CategoryTypeHardware,
		CategoryTypeSoftware,
		CategoryTypeSpareParts,
	}
}

// IsValid reports whether t is one of the fixed parent types
func (t CategoryType) IsValid() bool {
	switch t {
	case CategoryTypeServices, CategoryTypeHardware, CategoryTypeSoftware, CategoryTypeSpareParts:
		return true
	}
	return false
}

// DisplayName returns the label used for the root category of the type
func (t CategoryType) DisplayName() string {
	switch t {
	case CategoryTypeServices:
		return "Services"
	case CategoryTypeHardware:
		return "Hardware"
	case CategoryTypeSoftware:
		return "Software"
	case CategoryTypeSpareParts:
		return "Spare Parts"
	}
	return string(t)
}

// Category represents a product category in the quotation catalog.
// Categories form one tree per CategoryType; the path column stores the
// chain of ancestor IDs so subtree queries need a single LIKE.
type Category struct {
	shared.AccountAggregateRoot
	Name         string       `gorm:"type:varchar(100);not null"`
	Description  string       `gorm:"type:text"`
	CategoryType CategoryType `gorm:"type:varchar(20);not null;index"`
	ParentID     *uuid.UUID   `gorm:"type:uuid;index"`
	Path         string       `gorm:"type:varchar(500);not null;index"`
	Level        int          `gorm:"not null;default:0"`
	SortOrder    int          `gorm:"not null;default:0"`
	IsActive     bool         `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "product_categories"
}

// NewRootCategory creates the fixed parent category of a type
func NewRootCategory(accountID uuid.UUID, categoryType CategoryType) (*Category, error) {
	if !categoryType.IsValid() {
		return nil, ErrInvalidCategoryType
	}

	category := &Category{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Name:                 categoryType.DisplayName(),
		CategoryType:         categoryType,
		IsActive:             true,
	}
	category.Path = category.ID.String()
	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// NewCategory creates a category under parent. The parent must be one of the
// fixed roots or one of their descendants; the type is inherited from it.
func NewCategory(accountID uuid.UUID, name string, parent *Category) (*Category, error) {
	if parent == nil {
		return nil, ErrParentRequired
	}
	if parent.Level >= MaxCategoryDepth-1 {
		return nil, ErrMaxDepthExceeded
	}
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &Category{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Name:                 strings.TrimSpace(name),
		CategoryType:         parent.CategoryType,
		ParentID:             &parent.ID,
		Level:                parent.Level + 1,
		IsActive:             true,
	}
	category.Path = parent.Path + "/" + category.ID.String()
	category.AddDomainEvent(NewCategoryCreatedEvent(category))

	return category, nil
}

// Update updates the category's basic information
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.touch()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return nil
}

// MoveTo re-parents the category. subtreeDepth is how many levels of
// descendants hang below it; the deepest of them must still fit within
// MaxCategoryDepth after the move. It returns the old path so the caller
// can rewrite descendant paths.
func (c *Category) MoveTo(parent *Category, subtreeDepth int) (string, error) {
	if c.IsRoot() {
		return "", ErrRootCategoryImmutable
	}
	if parent == nil {
		return "", ErrParentRequired
	}
	if parent.ID == c.ID || c.IsAncestorOf(parent) {
		return "", ErrCategoryCycle
	}
	if parent.Level+1+subtreeDepth > MaxCategoryDepth-1 {
		return "", ErrMaxDepthExceeded
	}

	oldPath := c.Path
	c.ParentID = &parent.ID
	c.CategoryType = parent.CategoryType
	c.Level = parent.Level + 1
	c.Path = parent.Path + "/" + c.ID.String()
	c.touch()
	c.AddDomainEvent(NewCategoryUpdatedEvent(c))

	return oldPath, nil
}

// SetSortOrder sets the display order of the category
func (c *Category) SetSortOrder(order int) {
	c.SortOrder = order
	c.touch()
}

// SetActive toggles the active flag
func (c *Category) SetActive(active bool) {
	if c.IsActive == active {
		return
	}
	c.IsActive = active
	c.touch()
}

// IsRoot returns true for the fixed parent categories
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// GetAncestorIDs returns the IDs of all ancestor categories, root first
func (c *Category) GetAncestorIDs() []uuid.UUID {
	parts := strings.Split(c.Path, "/")
	if len(parts) <= 1 {
		return nil
	}

	ancestors := make([]uuid.UUID, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		if id, err := uuid.Parse(part); err == nil {
			ancestors = append(ancestors, id)
		}
	}
	return ancestors
}

// IsAncestorOf returns true if this category is an ancestor of other
func (c *Category) IsAncestorOf(other *Category) bool {
	if other == nil || other.Path == "" {
		return false
	}
	return strings.HasPrefix(other.Path, c.Path+"/")
}

// CanDelete checks the delete guards against the current usage counts
func (c *Category) CanDelete(childCount, productCount int64) error {
	if c.IsRoot() {
		return ErrRootCategoryImmutable
	}
	if productCount > 0 {
		return ErrCategoryHasProducts
	}
	if childCount > 0 {
		return ErrCategoryHasChildren
	}
	return nil
}

func (c *Category) touch() {
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
