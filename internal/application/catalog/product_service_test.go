package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/catalog"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, accountID uuid.UUID, sku string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, sku, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockProductRepository) Stats(ctx context.Context, accountID uuid.UUID) (*catalog.ProductStats, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductStats), args.Error(1)
}

func newProductService() (*ProductService, *MockProductRepository, *MockCategoryRepository) {
	productRepo := new(MockProductRepository)
	categoryRepo := new(MockCategoryRepository)
	return NewProductService(productRepo, categoryRepo), productRepo, categoryRepo
}

func mustProduct(t *testing.T, accountID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(accountID, uuid.New(), "Dell R750", "SRV-001", decimal.NewFromInt(9000))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	categoryID := uuid.New()
	category := &catalog.Category{}

	t.Run("man-day service", func(t *testing.T) {
		svc, productRepo, categoryRepo := newProductService()
		categoryRepo.On("FindByIDForAccount", ctx, accountID, categoryID).Return(category, nil)
		productRepo.On("ExistsBySKU", ctx, accountID, "SVC-IMPL", (*uuid.UUID)(nil)).Return(false, nil)
		productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		manDays := decimal.NewFromInt(10)
		resp, err := svc.Create(ctx, accountID, CreateProductRequest{
			CategoryID:    categoryID,
			Name:          "Implementation",
			SKU:           "svc-impl",
			UnitPrice:     decimal.NewFromInt(5000),
			IsManDayBased: true,
			TotalManDays:  &manDays,
		})

		require.NoError(t, err)
		assert.Equal(t, "SVC-IMPL", resp.SKU)
		assert.True(t, resp.IsDiscountable)
		assert.True(t, decimal.NewFromInt(5000).Equal(resp.ManDayRate), resp.ManDayRate.String())
		assert.True(t, decimal.NewFromInt(50000).Equal(resp.TotalLotPrice), resp.TotalLotPrice.String())
		productRepo.AssertExpectations(t)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		svc, productRepo, categoryRepo := newProductService()
		categoryRepo.On("FindByIDForAccount", ctx, accountID, categoryID).Return(category, nil)
		productRepo.On("ExistsBySKU", ctx, accountID, "SRV-001", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, accountID, CreateProductRequest{
			CategoryID: categoryID,
			Name:       "Server",
			SKU:        "SRV-001",
			UnitPrice:  decimal.NewFromInt(100),
		})

		assert.ErrorIs(t, err, catalog.ErrDuplicateSKU)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, _, categoryRepo := newProductService()
		categoryRepo.On("FindByIDForAccount", ctx, accountID, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, accountID, CreateProductRequest{
			CategoryID: categoryID,
			Name:       "Server",
			SKU:        "SRV-002",
			UnitPrice:  decimal.NewFromInt(100),
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CATEGORY", domainErr.Code)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("partial pricing update keeps other fields", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		product := mustProduct(t, accountID)
		productRepo.On("FindByIDForAccount", ctx, accountID, product.ID).Return(product, nil)
		productRepo.On("Save", ctx, product).Return(nil)

		cost := decimal.NewFromInt(7000)
		resp, err := svc.Update(ctx, accountID, product.ID, UpdateProductRequest{LandedCost: &cost})

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(9000).Equal(resp.UnitPrice))
		assert.True(t, decimal.NewFromInt(2000).Equal(resp.Margin), resp.Margin.String())
		assert.Equal(t, "Dell R750", resp.Name)
	})

	t.Run("sku change is checked against other products", func(t *testing.T) {
		svc, productRepo, _ := newProductService()
		product := mustProduct(t, accountID)
		productRepo.On("FindByIDForAccount", ctx, accountID, product.ID).Return(product, nil)
		productRepo.On("ExistsBySKU", ctx, accountID, "SRV-009", &product.ID).Return(true, nil)

		sku := "srv-009"
		_, err := svc.Update(ctx, accountID, product.ID, UpdateProductRequest{SKU: &sku})

		assert.ErrorIs(t, err, catalog.ErrDuplicateSKU)
		productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_ActivateDeactivate(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	svc, productRepo, _ := newProductService()
	product := mustProduct(t, accountID)
	productRepo.On("FindByIDForAccount", ctx, accountID, product.ID).Return(product, nil)
	productRepo.On("Save", ctx, product).Return(nil)

	resp, err := svc.Deactivate(ctx, accountID, product.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	_, err = svc.Deactivate(ctx, accountID, product.ID)
	assert.Error(t, err)

	resp, err = svc.Activate(ctx, accountID, product.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestProductService_Stats(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	svc, productRepo, _ := newProductService()
	productRepo.On("Stats", ctx, accountID).Return(&catalog.ProductStats{
		Total:        10,
		Active:       7,
		ManDayBased:  3,
		AveragePrice: decimal.NewFromInt(250),
	}, nil)

	stats, err := svc.Stats(ctx, accountID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Inactive)
	assert.Equal(t, int64(3), stats.ManDayBased)
}
