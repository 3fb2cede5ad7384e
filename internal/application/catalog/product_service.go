package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, categoryRepo catalog.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, accountID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureCategory(ctx, accountID, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(accountID, req.CategoryID, req.Name, req.SKU, req.UnitPrice)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueSKU(ctx, accountID, product.SKU, nil); err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Brand, req.Model, req.PartNumber); err != nil {
		return nil, err
	}
	if err := product.SetPricing(req.UnitPrice, valueOr(req.LandedCost), req.Currency, valueOr(req.TaxRate)); err != nil {
		return nil, err
	}
	if err := product.SetManDayBilling(req.IsManDayBased, valueOr(req.TotalManDays)); err != nil {
		return nil, err
	}
	if err := product.SetAMCOption(req.HasAMCOption, valueOr(req.AMCUnitPrice), req.AMCDescription); err != nil {
		return nil, err
	}
	discountable := true
	if req.IsDiscountable != nil {
		discountable = *req.IsDiscountable
	}
	product.SetFlags(discountable, req.IsRefurbished)
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, accountID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := filter.ToDomain()

	products, err := s.productRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update applies the provided fields to a product
func (s *ProductService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil || req.Brand != nil || req.Model != nil || req.PartNumber != nil {
		err := product.Update(
			stringOr(req.Name, product.Name),
			stringOr(req.Description, product.Description),
			stringOr(req.Brand, product.Brand),
			stringOr(req.Model, product.Model),
			stringOr(req.PartNumber, product.PartNumber),
		)
		if err != nil {
			return nil, err
		}
	}

	if req.SKU != nil {
		if err := product.ChangeSKU(*req.SKU); err != nil {
			return nil, err
		}
		if err := s.ensureUniqueSKU(ctx, accountID, product.SKU, &product.ID); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.ensureCategory(ctx, accountID, *req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(*req.CategoryID)
	}

	if req.UnitPrice != nil || req.LandedCost != nil || req.Currency != nil || req.TaxRate != nil {
		err := product.SetPricing(
			decimalOr(req.UnitPrice, product.UnitPrice),
			decimalOr(req.LandedCost, product.LandedCost),
			stringOr(req.Currency, product.Currency),
			decimalOr(req.TaxRate, product.TaxRate),
		)
		if err != nil {
			return nil, err
		}
	}

	if req.IsManDayBased != nil || req.TotalManDays != nil {
		enabled := product.IsManDayBased
		if req.IsManDayBased != nil {
			enabled = *req.IsManDayBased
		}
		if err := product.SetManDayBilling(enabled, decimalOr(req.TotalManDays, product.TotalManDays)); err != nil {
			return nil, err
		}
	}

	if req.HasAMCOption != nil || req.AMCUnitPrice != nil || req.AMCDescription != nil {
		enabled := product.HasAMCOption
		if req.HasAMCOption != nil {
			enabled = *req.HasAMCOption
		}
		err := product.SetAMCOption(enabled, decimalOr(req.AMCUnitPrice, product.AMCUnitPrice), stringOr(req.AMCDescription, product.AMCDescription))
		if err != nil {
			return nil, err
		}
	}

	if req.IsDiscountable != nil || req.IsRefurbished != nil {
		discountable, refurbished := product.IsDiscountable, product.IsRefurbished
		if req.IsDiscountable != nil {
			discountable = *req.IsDiscountable
		}
		if req.IsRefurbished != nil {
			refurbished = *req.IsRefurbished
		}
		product.SetFlags(discountable, refurbished)
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete deletes a product
func (s *ProductService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.productRepo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return err
	}
	return s.productRepo.DeleteForAccount(ctx, accountID, id)
}

// Activate makes a product quotable again
func (s *ProductService) Activate(ctx context.Context, accountID, id uuid.UUID) (*ProductResponse, error) {
	return s.toggle(ctx, accountID, id, (*catalog.Product).Activate)
}

// Deactivate hides a product from new quotations
func (s *ProductService) Deactivate(ctx context.Context, accountID, id uuid.UUID) (*ProductResponse, error) {
	return s.toggle(ctx, accountID, id, (*catalog.Product).Deactivate)
}

// Stats returns catalog counts and the average price
func (s *ProductService) Stats(ctx context.Context, accountID uuid.UUID) (*ProductStatsResponse, error) {
	stats, err := s.productRepo.Stats(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return &ProductStatsResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		Inactive:     stats.Total - stats.Active,
		ManDayBased:  stats.ManDayBased,
		AveragePrice: stats.AveragePrice,
	}, nil
}

func (s *ProductService) toggle(ctx context.Context, accountID, id uuid.UUID, apply func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(product); err != nil {
		return nil, err
	}
	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return catalog.ErrDuplicateSKU
		}
		return err
	}
	return shared.PublishPending(ctx, s.eventPublisher, product)
}

func (s *ProductService) ensureUniqueSKU(ctx context.Context, accountID uuid.UUID, sku string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsBySKU(ctx, accountID, sku, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return catalog.ErrDuplicateSKU
	}
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, accountID, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByIDForAccount(ctx, accountID, categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func valueOr(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func decimalOr(d *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if d == nil {
		return fallback
	}
	return *d
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
