package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStats summarizes the catalog of an account
type ProductStats struct {
	Total        int64
	Active       int64
	ManDayBased  int64
	AveragePrice decimal.Decimal
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByIDForAccount finds a product by ID within an account
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Product, error)

	// FindAllForAccount finds products matching the filter
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForAccount counts products matching the filter
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// ExistsBySKU checks whether a SKU is taken, ignoring excludeID
	ExistsBySKU(ctx context.Context, accountID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// DeleteForAccount deletes a product within an account
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// Stats aggregates counts and the average unit price
	Stats(ctx context.Context, accountID uuid.UUID) (*ProductStats, error)
}
