package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category. Either
// parent_id or category_type must be given; with only a type the category
// is placed under that type's fixed parent.
type CreateCategoryRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=100"`
	Description  string     `json:"description" binding:"max=2000"`
	ParentID     *uuid.UUID `json:"parent_id"`
	CategoryType string     `json:"category_type" binding:"omitempty,oneof=services hardware software spare_parts"`
	SortOrder    *int       `json:"sort_order"`
	CreatedBy    *uuid.UUID `json:"-"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
	IsActive    *bool      `json:"is_active"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	CategoryType string     `json:"category_type"`
	ParentID     *uuid.UUID `json:"parent_id"`
	Level        int        `json:"level"`
	SortOrder    int        `json:"sort_order"`
	IsActive     bool       `json:"is_active"`
	IsRoot       bool       `json:"is_root"`
	FullPath     string     `json:"full_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CategoryTreeNode is a category with its nested children
type CategoryTreeNode struct {
	CategoryResponse
	Children []CategoryTreeNode `json:"children"`
}

// CategoryOption is a flat select entry labelled with the full path
type CategoryOption struct {
	ID           uuid.UUID `json:"id"`
	Label        string    `json:"label"`
	CategoryType string    `json:"category_type"`
	Level        int       `json:"level"`
}

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	Search       string     `form:"search"`
	CategoryType string     `form:"category_type" binding:"omitempty,oneof=services hardware software spare_parts"`
	ParentID     *uuid.UUID `form:"parent_id"`
	IsActive     *bool      `form:"is_active"`
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage      int        `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by" binding:"omitempty,oneof=name sort_order level created_at updated_at"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the filter for the repository
func (f CategoryListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
	if f.CategoryType != "" {
		filter.Filters["category_type"] = f.CategoryType
	}
	if f.ParentID != nil {
		filter.Filters["parent_id"] = *f.ParentID
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter.Normalize()
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name           string           `json:"name" binding:"required,min=1,max=200"`
	SKU            string           `json:"sku" binding:"required,min=1,max=64"`
	Description    string           `json:"description" binding:"max=5000"`
	CategoryID     uuid.UUID        `json:"category_id" binding:"required"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	LandedCost     *decimal.Decimal `json:"landed_cost"`
	Currency       string           `json:"currency" binding:"omitempty,len=3"`
	IsManDayBased  bool             `json:"is_man_day_based"`
	TotalManDays   *decimal.Decimal `json:"total_man_days"`
	HasAMCOption   bool             `json:"has_amc_option"`
	AMCUnitPrice   *decimal.Decimal `json:"amc_unit_price"`
	AMCDescription string           `json:"amc_description"`
	Brand          string           `json:"brand" binding:"max=100"`
	Model          string           `json:"model" binding:"max=100"`
	PartNumber     string           `json:"part_number" binding:"max=100"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	IsDiscountable *bool            `json:"is_discountable"`
	IsRefurbished  bool             `json:"is_refurbished"`
	CreatedBy      *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=200"`
	SKU            *string          `json:"sku" binding:"omitempty,min=1,max=64"`
	Description    *string          `json:"description" binding:"omitempty,max=5000"`
	CategoryID     *uuid.UUID       `json:"category_id"`
	UnitPrice      *decimal.Decimal `json:"unit_price"`
	LandedCost     *decimal.Decimal `json:"landed_cost"`
	Currency       *string          `json:"currency" binding:"omitempty,len=3"`
	IsManDayBased  *bool            `json:"is_man_day_based"`
	TotalManDays   *decimal.Decimal `json:"total_man_days"`
	HasAMCOption   *bool            `json:"has_amc_option"`
	AMCUnitPrice   *decimal.Decimal `json:"amc_unit_price"`
	AMCDescription *string          `json:"amc_description"`
	Brand          *string          `json:"brand" binding:"omitempty,max=100"`
	Model          *string          `json:"model" binding:"omitempty,max=100"`
	PartNumber     *string          `json:"part_number" binding:"omitempty,max=100"`
	TaxRate        *decimal.Decimal `json:"tax_rate"`
	IsDiscountable *bool            `json:"is_discountable"`
	IsRefurbished  *bool            `json:"is_refurbished"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Description    string          `json:"description"`
	CategoryID     uuid.UUID       `json:"category_id"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LandedCost     decimal.Decimal `json:"landed_cost"`
	Currency       string          `json:"currency"`
	IsManDayBased  bool            `json:"is_man_day_based"`
	TotalManDays   decimal.Decimal `json:"total_man_days"`
	ManDayRate     decimal.Decimal `json:"man_day_rate"`
	TotalLotPrice  decimal.Decimal `json:"total_lot_price"`
	HasAMCOption   bool            `json:"has_amc_option"`
	AMCUnitPrice   decimal.Decimal `json:"amc_unit_price"`
	AMCDescription string          `json:"amc_description"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	PartNumber     string          `json:"part_number"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	Margin         decimal.Decimal `json:"margin"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	IsActive       bool            `json:"is_active"`
	IsDiscountable bool            `json:"is_discountable"`
	IsRefurbished  bool            `json:"is_refurbished"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search        string     `form:"search"`
	CategoryID    *uuid.UUID `form:"category_id"`
	IsActive      *bool      `form:"is_active"`
	IsManDayBased *bool      `form:"is_man_day_based"`
	MinPrice      *float64   `form:"min_price"`
	MaxPrice      *float64   `form:"max_price"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage       int        `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by" binding:"omitempty,oneof=name sku unit_price created_at updated_at"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the filter for the repository
func (f ProductListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
	if f.CategoryID != nil {
		filter.Filters["category_id"] = *f.CategoryID
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	if f.IsManDayBased != nil {
		filter.Filters["is_man_day_based"] = *f.IsManDayBased
	}
	if f.MinPrice != nil {
		filter.Filters["min_price"] = decimal.NewFromFloat(*f.MinPrice)
	}
	if f.MaxPrice != nil {
		filter.Filters["max_price"] = decimal.NewFromFloat(*f.MaxPrice)
	}
	return filter.Normalize()
}

// ProductStatsResponse summarizes the catalog
type ProductStatsResponse struct {
	Total        int64           `json:"total"`
	Active       int64           `json:"active"`
	Inactive     int64           `json:"inactive"`
	ManDayBased  int64           `json:"man_day_based"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		CategoryType: string(c.CategoryType),
		ParentID:     c.ParentID,
		Level:        c.Level,
		SortOrder:    c.SortOrder,
		IsActive:     c.IsActive,
		IsRoot:       c.IsRoot(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		SKU:            p.SKU,
		Description:    p.Description,
		CategoryID:     p.CategoryID,
		UnitPrice:      p.UnitPrice,
		LandedCost:     p.LandedCost,
		Currency:       p.Currency,
		IsManDayBased:  p.IsManDayBased,
		TotalManDays:   p.TotalManDays,
		ManDayRate:     p.ManDayRate(),
		TotalLotPrice:  p.TotalLotPrice(),
		HasAMCOption:   p.HasAMCOption,
		AMCUnitPrice:   p.AMCUnitPrice,
		AMCDescription: p.AMCDescription,
		Brand:          p.Brand,
		Model:          p.Model,
		PartNumber:     p.PartNumber,
		TaxRate:        p.TaxRate,
		Margin:         p.Margin(),
		MarginPercent:  p.MarginPercent(),
		IsActive:       p.IsActive,
		IsDiscountable: p.IsDiscountable,
		IsRefurbished:  p.IsRefurbished,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// pageSize prefers page_size and falls back to the per_page alias
func pageSize(size, perPage int) int {
	if size > 0 {
		return size
	}
	return perPage
}
