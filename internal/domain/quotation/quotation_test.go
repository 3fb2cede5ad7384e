package quotation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft(t *testing.T) *Quotation {
	t.Helper()
	q, err := NewQuotation(uuid.New(), uuid.New(), "Q-2025-001-SIR", "")
	require.NoError(t, err)
	return q
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "Q-2025-007-SIR", FormatNumber("Q", 2025, 7, "sir"))
	assert.Equal(t, "Q-2025-1234-KXX", FormatNumber("", 2025, 1234, "KXX"))
	assert.Equal(t, "HTQ-2024-001-UNK", FormatNumber("HTQ", 2024, 1, ""))
}

func TestNewQuotation(t *testing.T) {
	q := newDraft(t)
	assert.Equal(t, StatusDraft, q.Status)
	assert.Equal(t, "USD", q.Currency)
	assert.True(t, q.ExchangeRate.Equal(decimal.NewFromInt(1)))
	require.Len(t, q.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeQuotationCreated, q.GetDomainEvents()[0].EventType())

	_, err := NewQuotation(uuid.New(), uuid.Nil, "Q-1", "USD")
	assert.Error(t, err)
	_, err = NewQuotation(uuid.New(), uuid.New(), "Q-1", "dollars")
	assert.ErrorIs(t, err, shared.ErrInvalidCurrency)
}

func TestQuotation_Totals(t *testing.T) {
	q := newDraft(t)

	router := NewItem(ItemTypeProduct, "Router", dec("2"), dec("500"))
	router.TaxRate = dec("8")
	_, err := q.AddItem(router)
	require.NoError(t, err)

	install := NewItem(ItemTypeService, "Installation", dec("1"), dec("200"))
	install.DiscountPercentage = dec("10")
	_, err = q.AddItem(install)
	require.NoError(t, err)

	require.NoError(t, q.UpdateHeader(nil, dec("1"), dec("5"), "", nil))

	// subtotal 1000 + 180, discount 5% of 1180, tax 8% of 1000
	assert.True(t, q.Subtotal.Equal(dec("1180")), q.Subtotal.String())
	assert.True(t, q.DiscountAmount.Equal(dec("59")), q.DiscountAmount.String())
	assert.True(t, q.TaxAmount.Equal(dec("80")), q.TaxAmount.String())
	assert.True(t, q.TotalAmount.Equal(dec("1201")), q.TotalAmount.String())
}

func TestQuotation_ItemValidation(t *testing.T) {
	q := newDraft(t)

	_, err := q.AddItem(NewItem(ItemTypeProduct, "Router", decimal.Zero, dec("10")))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = q.AddItem(NewItem("gadget", "Router", dec("1"), dec("10")))
	assert.Error(t, err)

	orphan := NewItem(ItemTypeAMC, "AMC", dec("1"), dec("10"))
	orphan.IsAMCLine = true
	_, err = q.AddItem(orphan)
	assert.Error(t, err)

	missing := uuid.New()
	orphan.ParentItemID = &missing
	_, err = q.AddItem(orphan)
	assert.Error(t, err)
}

func TestQuotation_RemoveItemCascadesAMC(t *testing.T) {
	q := newDraft(t)
	product, err := q.AddItem(NewItem(ItemTypeProduct, "Firewall", dec("1"), dec("1000")))
	require.NoError(t, err)
	productID := product.ID

	amc := NewItem(ItemTypeAMC, "Firewall AMC", dec("1"), dec("150"))
	amc.IsAMCLine = true
	amc.ParentItemID = &productID
	_, err = q.AddItem(amc)
	require.NoError(t, err)
	_, err = q.AddItem(NewItem(ItemTypeService, "Setup", dec("1"), dec("100")))
	require.NoError(t, err)

	removed, err := q.RemoveItem(productID)
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	require.Len(t, q.Items, 1)
	assert.Equal(t, "Setup", q.Items[0].Description)
	assert.Equal(t, 0, q.Items[0].SortOrder)
	assert.True(t, q.TotalAmount.Equal(dec("100")))

	_, err = q.RemoveItem(uuid.New())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestQuotation_UpdateItem(t *testing.T) {
	q := newDraft(t)
	item, err := q.AddItem(NewItem(ItemTypeProduct, "Switch", dec("1"), dec("300")))
	require.NoError(t, err)

	changes := NewItem(ItemTypeProduct, "Switch 48p", dec("3"), dec("300"))
	updated, err := q.UpdateItem(item.ID, changes)
	require.NoError(t, err)
	assert.Equal(t, "Switch 48p", updated.Description)
	assert.True(t, q.Subtotal.Equal(dec("900")))
}

func TestQuotation_StatusTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("empty quotation cannot be sent", func(t *testing.T) {
		q := newDraft(t)
		assert.Error(t, q.ChangeStatus(StatusSent, now))
	})

	t.Run("draft to sent to accepted", func(t *testing.T) {
		q := newDraft(t)
		_, err := q.AddItem(NewItem(ItemTypeProduct, "Router", dec("1"), dec("10")))
		require.NoError(t, err)

		require.NoError(t, q.ChangeStatus(StatusSent, now))
		require.NotNil(t, q.SentDate)
		require.NoError(t, q.ChangeStatus(StatusAccepted, now))
		require.NotNil(t, q.AcceptedDate)
		assert.True(t, q.Status.IsTerminal())

		assert.ErrorIs(t, q.ChangeStatus(StatusRejected, now), ErrInvalidTransition)
		_, err = q.AddItem(NewItem(ItemTypeProduct, "Extra", dec("1"), dec("10")))
		assert.ErrorIs(t, err, ErrQuotationLocked)
		assert.Error(t, q.CanDelete())
	})

	t.Run("draft cannot be accepted directly", func(t *testing.T) {
		q := newDraft(t)
		assert.ErrorIs(t, q.ChangeStatus(StatusAccepted, now), ErrInvalidTransition)
		assert.NoError(t, q.ChangeStatus(StatusExpired, now))
	})
}

func TestQuotation_Duplicate(t *testing.T) {
	q := newDraft(t)
	product, err := q.AddItem(NewItem(ItemTypeProduct, "Firewall", dec("1"), dec("1000")))
	require.NoError(t, err)
	productID := product.ID
	amc := NewItem(ItemTypeAMC, "AMC", dec("1"), dec("100"))
	amc.IsAMCLine = true
	amc.ParentItemID = &productID
	_, err = q.AddItem(amc)
	require.NoError(t, err)

	dup, err := q.Duplicate("Q-2025-002-SIR")
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, dup.ID)
	assert.Equal(t, StatusDraft, dup.Status)
	require.Len(t, dup.Items, 2)
	assert.NotEqual(t, q.Items[0].ID, dup.Items[0].ID)
	assert.Equal(t, dup.ID, dup.Items[1].QuotationID)
	require.NotNil(t, dup.Items[1].ParentItemID)
	assert.Equal(t, dup.Items[0].ID, *dup.Items[1].ParentItemID)
	assert.True(t, dup.TotalAmount.Equal(q.TotalAmount))
}

func TestQuotation_IsExpiredAt(t *testing.T) {
	q := newDraft(t)
	now := time.Now()
	assert.False(t, q.IsExpiredAt(now))
	past := now.AddDate(0, 0, -1)
	q.ValidUntil = &past
	assert.True(t, q.IsExpiredAt(now))
}
