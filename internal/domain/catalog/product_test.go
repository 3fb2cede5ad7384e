package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), uuid.New(), "Dell PowerEdge R750", "pe-r750", decimal.NewFromInt(5000))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("normalizes sku and applies defaults", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "PE-R750", p.SKU)
		assert.Equal(t, DefaultProductCurrency, p.Currency)
		assert.True(t, p.IsActive)
		assert.True(t, p.IsDiscountable)
		require.Len(t, p.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductCreated, p.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid sku characters", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), uuid.New(), "X", "AB CD", decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKU can only contain")
	})

	t.Run("requires category", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), uuid.Nil, "X", "X1", decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewProduct(uuid.New(), uuid.New(), "X", "X1", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})
}

func TestProduct_SetPricing(t *testing.T) {
	p := newTestProduct(t)
	p.ClearDomainEvents()

	err := p.SetPricing(decimal.NewFromInt(6000), decimal.NewFromInt(4500), "mvr", decimal.NewFromInt(8))
	require.NoError(t, err)
	assert.Equal(t, "MVR", p.Currency)
	assert.True(t, p.Margin().Equal(decimal.NewFromInt(1500)))
	assert.True(t, p.MarginPercent().Equal(decimal.NewFromInt(25)))
	require.Len(t, p.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeProductPriceChanged, p.GetDomainEvents()[0].EventType())

	assert.ErrorIs(t, p.SetPricing(decimal.NewFromInt(1), decimal.Zero, "USD", decimal.NewFromInt(101)), ErrInvalidTaxRate)
	assert.ErrorIs(t, p.SetPricing(decimal.NewFromInt(1), decimal.Zero, "US", decimal.Zero), shared.ErrInvalidCurrency)
}

func TestProduct_ManDayPricing(t *testing.T) {
	p := newTestProduct(t)

	assert.True(t, p.ManDayRate().IsZero())
	assert.True(t, p.TotalLotPrice().Equal(p.UnitPrice))

	require.NoError(t, p.SetManDayBilling(true, decimal.RequireFromString("2.5")))
	assert.True(t, p.ManDayRate().Equal(decimal.NewFromInt(5000)))
	assert.True(t, p.TotalLotPrice().Equal(decimal.NewFromInt(12500)))

	assert.Error(t, p.SetManDayBilling(true, decimal.Zero))

	require.NoError(t, p.SetManDayBilling(false, decimal.Zero))
	assert.False(t, p.IsManDayBased)
	assert.True(t, p.TotalManDays.IsZero())
}

func TestProduct_MarginPercentWithZeroPrice(t *testing.T) {
	p, err := NewProduct(uuid.New(), uuid.New(), "Free item", "FREE", decimal.Zero)
	require.NoError(t, err)
	assert.True(t, p.MarginPercent().IsZero())
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	p := newTestProduct(t)
	assert.Error(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsActive)
	assert.Error(t, p.Deactivate())
	require.NoError(t, p.Activate())
}
