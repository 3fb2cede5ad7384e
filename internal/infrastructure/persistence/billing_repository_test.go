package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestInvoice(t *testing.T, accountID, unitID uuid.UUID, number string, on time.Time) *billing.RentInvoice {
	t.Helper()
	inv, err := billing.NewRentInvoice(accountID, number, billing.LeaseBilling{
		LeaseID:     uuid.New(),
		TenantID:    uuid.New(),
		UnitID:      unitID,
		PropertyID:  uuid.New(),
		MonthlyRent: decimal.NewFromInt(15000),
		Currency:    "MVR",
	}, on, 7)
	require.NoError(t, err)
	return inv
}

func TestGormRentInvoiceRepository_ExistsForUnitMonth(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormRentInvoiceRepository(db)
	ctx := context.Background()
	accountID := uuid.New()
	unitID := uuid.New()

	inv := newTestInvoice(t, accountID, unitID, "RINV-202503-001", date(2025, 3, 1))
	require.NoError(t, repo.Save(ctx, inv))

	t.Run("same month", func(t *testing.T) {
		exists, err := repo.ExistsForUnitMonth(ctx, accountID, unitID, date(2025, 3, 20))
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("other month", func(t *testing.T) {
		exists, err := repo.ExistsForUnitMonth(ctx, accountID, unitID, date(2025, 4, 1))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("other account", func(t *testing.T) {
		exists, err := repo.ExistsForUnitMonth(ctx, uuid.New(), unitID, date(2025, 3, 1))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("cancelled invoices are ignored", func(t *testing.T) {
		require.NoError(t, inv.Cancel())
		require.NoError(t, repo.Save(ctx, inv))

		exists, err := repo.ExistsForUnitMonth(ctx, accountID, unitID, date(2025, 3, 1))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormRentInvoiceRepository_FindAllForAccount(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormRentInvoiceRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestInvoice(t, accountID, uuid.New(), "RINV-202502-001", date(2025, 2, 1))))
	require.NoError(t, repo.Save(ctx, newTestInvoice(t, accountID, uuid.New(), "RINV-202503-001", date(2025, 3, 1))))
	require.NoError(t, repo.Save(ctx, newTestInvoice(t, accountID, uuid.New(), "RINV-202503-002", date(2025, 3, 1))))

	filter := shared.Filter{Page: 1, PageSize: 10, Filters: map[string]any{"month": "2025-03"}}
	invoices, err := repo.FindAllForAccount(ctx, accountID, filter)
	require.NoError(t, err)
	require.Len(t, invoices, 2)
	assert.Equal(t, "RINV-202503-002", invoices[0].InvoiceNumber)

	count, err := repo.CountForAccount(ctx, accountID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestGormRentInvoiceRepository_FindOverdueCandidates(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormRentInvoiceRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	due := newTestInvoice(t, accountID, uuid.New(), "RINV-202501-001", date(2025, 1, 1))
	notYet := newTestInvoice(t, accountID, uuid.New(), "RINV-202502-001", date(2025, 2, 1))
	require.NoError(t, repo.Save(ctx, due))
	require.NoError(t, repo.Save(ctx, notYet))

	found, err := repo.FindOverdueCandidates(ctx, accountID, date(2025, 2, 3))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, due.ID, found[0].ID)
}

func TestGormLedgerRepository_FindByTenantAndUpdateBalances(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	accountID := uuid.New()
	tenantID := uuid.New()

	credit, err := billing.NewCredit(accountID, tenantID, nil, date(2025, 3, 5), billing.LedgerRent, decimal.NewFromInt(4000), "Payment", "RCPT-1", "cash")
	require.NoError(t, err)
	debit, err := billing.NewDebit(accountID, tenantID, nil, date(2025, 3, 1), billing.LedgerRent, decimal.NewFromInt(10000), "March rent", "RINV-202503-001")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, credit))
	require.NoError(t, repo.Save(ctx, debit))

	entries, err := repo.FindByTenant(ctx, accountID, tenantID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, debit.ID, entries[0].ID)

	billing.RecalculateBalances(entries)
	require.NoError(t, repo.UpdateBalances(ctx, entries))

	stored, err := repo.FindByIDForAccount(ctx, accountID, credit.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(6000).Equal(stored.Balance))

	positive, err := repo.CountForAccount(ctx, accountID, shared.Filter{Filters: map[string]any{"balance_status": "positive"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), positive)

	ids, err := repo.FindTenantIDs(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tenantID}, ids)
}

func TestGormLedgerRepository_DeleteForAccount(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	entry, err := billing.NewDebit(accountID, uuid.New(), nil, date(2025, 3, 1), billing.LedgerFee, decimal.NewFromInt(100), "Late fee", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, entry))

	assert.ErrorIs(t, repo.DeleteForAccount(ctx, uuid.New(), entry.ID), shared.ErrNotFound)
	assert.NoError(t, repo.DeleteForAccount(ctx, accountID, entry.ID))
	_, err = repo.FindByIDForAccount(ctx, accountID, entry.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPaymentRepository_Summary(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	accountID := uuid.New()
	tenantID := uuid.New()
	leaseID := uuid.New()
	on := date(2025, 3, 10)

	newPayment := func(pt billing.PaymentType, amount int64, status billing.PaymentStatus) {
		p, err := billing.NewPayment(accountID, billing.PaymentInput{
			PaymentType:     pt,
			TenantID:        &tenantID,
			LeaseID:         &leaseID,
			Amount:          decimal.NewFromInt(amount),
			TransactionDate: &on,
		})
		require.NoError(t, err)
		if status == billing.PaymentStatusCompleted {
			require.NoError(t, p.Capture(status, "RCPT-"+uuid.NewString()[:8], on, "cash"))
		}
		require.NoError(t, repo.Save(ctx, p))
	}
	newPayment(billing.PaymentRent, 10000, billing.PaymentStatusCompleted)
	newPayment(billing.PaymentFee, 500, billing.PaymentStatusCompleted)
	newPayment(billing.PaymentMaintenanceExpense, 2500, billing.PaymentStatusCompleted)
	newPayment(billing.PaymentRent, 7000, billing.PaymentStatusPending)

	summary, err := repo.Summary(ctx, accountID, nil, nil)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10500).Equal(summary.TotalIncome), summary.TotalIncome.String())
	assert.True(t, decimal.NewFromInt(2500).Equal(summary.TotalOutgoing))
	assert.True(t, decimal.NewFromInt(8000).Equal(summary.Net))
	assert.Equal(t, int64(1), summary.PendingCount)

	from := date(2025, 4, 1)
	later, err := repo.Summary(ctx, accountID, &from, nil)
	require.NoError(t, err)
	assert.True(t, later.TotalIncome.IsZero())

	outgoing, err := repo.CountForAccount(ctx, accountID, shared.Filter{Filters: map[string]any{"direction": "outgoing"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), outgoing)
}

func TestGormNumberRegistry(t *testing.T) {
	db := newSQLiteDB(t)
	registry := NewGormNumberRegistry(db)
	ctx := context.Background()
	accountID := uuid.New()

	require.NoError(t, registry.Reserve(ctx, accountID, billing.DocRentInvoice, "RINV-202503-001"))
	require.NoError(t, registry.Reserve(ctx, accountID, billing.DocRentInvoice, "RINV-202503-007"))
	require.NoError(t, registry.Reserve(ctx, accountID, billing.DocRentInvoice, "RINV-202502-042"))

	t.Run("max sequence within period", func(t *testing.T) {
		seq, err := registry.MaxSequence(ctx, accountID, billing.DocRentInvoice, "RINV-202503-")
		require.NoError(t, err)
		assert.Equal(t, 7, seq)
	})

	t.Run("empty period", func(t *testing.T) {
		seq, err := registry.MaxSequence(ctx, accountID, billing.DocReceipt, "RCPT-202503-")
		require.NoError(t, err)
		assert.Equal(t, 0, seq)
	})

	t.Run("duplicate reservation", func(t *testing.T) {
		err := registry.Reserve(ctx, accountID, billing.DocRentInvoice, "RINV-202503-001")
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("exists", func(t *testing.T) {
		ok, err := registry.Exists(ctx, accountID, billing.DocRentInvoice, "RINV-202503-007")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = registry.Exists(ctx, uuid.New(), billing.DocRentInvoice, "RINV-202503-007")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("generator skips issued numbers", func(t *testing.T) {
		gen := billing.NewNumberGenerator(registry, billing.DefaultNumberingPolicy()).
			WithClock(func() time.Time { return date(2025, 3, 15) })
		number, err := gen.Next(ctx, accountID, billing.DocRentInvoice)
		require.NoError(t, err)
		assert.Equal(t, "RINV-202503-008", number)
	})
}

func TestGormInvoiceTemplateRepository_FindDefault(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormInvoiceTemplateRepository(db)
	ctx := context.Background()
	accountID := uuid.New()

	both, err := billing.NewInvoiceTemplate(accountID, "Generic", billing.TemplateTypeBoth, "<p>{{invoice_number}}</p>")
	require.NoError(t, err)
	both.MarkDefault()
	require.NoError(t, repo.SaveAsDefault(ctx, both))

	found, err := repo.FindDefault(ctx, accountID, billing.TemplateTypeRent)
	require.NoError(t, err)
	assert.Equal(t, both.ID, found.ID)

	rent, err := billing.NewInvoiceTemplate(accountID, "Rent", billing.TemplateTypeRent, "<p>Rent</p>")
	require.NoError(t, err)
	rent.MarkDefault()
	require.NoError(t, repo.SaveAsDefault(ctx, rent))

	found, err = repo.FindDefault(ctx, accountID, billing.TemplateTypeRent)
	require.NoError(t, err)
	assert.Equal(t, rent.ID, found.ID)

	_, err = repo.FindDefault(ctx, uuid.New(), billing.TemplateTypeRent)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
