package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func mustEntry(t *testing.T, tenantID uuid.UUID, date time.Time, debit, credit int64) LedgerEntry {
	t.Helper()
	e, err := NewLedgerEntry(uuid.New(), tenantID, LedgerInput{
		TransactionDate: date,
		PaymentType:     LedgerRent,
		DebitAmount:     d(debit),
		CreditAmount:    d(credit),
	})
	require.NoError(t, err)
	return *e
}

func TestNewLedgerEntry_OneSide(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewLedgerEntry(uuid.New(), tenantID, LedgerInput{TransactionDate: date, PaymentType: LedgerRent, DebitAmount: d(10), CreditAmount: d(10)})
	assert.ErrorIs(t, err, ErrLedgerOneSide)

	_, err = NewLedgerEntry(uuid.New(), tenantID, LedgerInput{TransactionDate: date, PaymentType: LedgerRent})
	assert.ErrorIs(t, err, ErrLedgerOneSide)

	_, err = NewLedgerEntry(uuid.New(), tenantID, LedgerInput{TransactionDate: date, PaymentType: LedgerRent, DebitAmount: d(-5)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = NewLedgerEntry(uuid.New(), tenantID, LedgerInput{TransactionDate: date, PaymentType: "gift", DebitAmount: d(5)})
	assert.Error(t, err)

	e := mustEntry(t, tenantID, date, 0, 500)
	assert.Equal(t, TransactionCredit, e.TransactionType)
	assert.True(t, e.Net().Equal(d(-500)))
}

func TestRecalculateBalances(t *testing.T) {
	tenantID := uuid.New()
	jan := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	mid := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	entries := []LedgerEntry{
		mustEntry(t, tenantID, feb, 10000, 0),
		mustEntry(t, tenantID, jan, 10000, 0),
		mustEntry(t, tenantID, mid, 0, 8000),
	}

	changed := RecalculateBalances(entries)
	assert.Len(t, changed, 3)
	assert.Equal(t, jan, entries[0].TransactionDate)
	assert.True(t, entries[0].Balance.Equal(d(10000)))
	assert.True(t, entries[1].Balance.Equal(d(2000)))
	assert.True(t, entries[2].Balance.Equal(d(12000)))

	assert.Empty(t, RecalculateBalances(entries), "stable balances report no changes")

	// a late-recorded payment dated mid January shifts every later balance
	late := mustEntry(t, tenantID, mid, 0, 2000)
	late.CreatedAt = entries[1].CreatedAt.Add(time.Second)
	entries = append(entries, late)
	changed = RecalculateBalances(entries)
	assert.Equal(t, []int{2, 3}, changed)
	assert.True(t, entries[2].Balance.Equal(d(0)))
	assert.True(t, entries[3].Balance.Equal(d(10000)))
}

func TestSortLedger_TieBreakers(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := mustEntry(t, tenantID, date, 1, 0)
	b := mustEntry(t, tenantID, date, 2, 0)
	a.CreatedAt = date.Add(2 * time.Hour)
	b.CreatedAt = date.Add(time.Hour)

	entries := []LedgerEntry{a, b}
	SortLedger(entries)
	assert.Equal(t, b.ID, entries[0].ID)
}

func TestSummarize(t *testing.T) {
	tenantID := uuid.New()
	date := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := Summarize(tenantID, []LedgerEntry{
		mustEntry(t, tenantID, date, 15000, 0),
		mustEntry(t, tenantID, date, 0, 12000),
		mustEntry(t, tenantID, date, 500, 0),
	})
	assert.True(t, s.TotalDebit.Equal(d(15500)))
	assert.True(t, s.TotalCredit.Equal(d(12000)))
	assert.True(t, s.CurrentBalance.Equal(d(3500)))
	assert.Equal(t, int64(3), s.EntryCount)
}
