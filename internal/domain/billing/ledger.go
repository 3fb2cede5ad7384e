package billing

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType is the side of a ledger entry
type TransactionType string

const (
	TransactionDebit  TransactionType = "debit"
	TransactionCredit TransactionType = "credit"
)

// LedgerPaymentType classifies what a ledger entry is for
type LedgerPaymentType string

const (
	LedgerRent        LedgerPaymentType = "rent"
	LedgerDeposit     LedgerPaymentType = "deposit"
	LedgerFee         LedgerPaymentType = "fee"
	LedgerMaintenance LedgerPaymentType = "maintenance"
	LedgerRefund      LedgerPaymentType = "refund"
	LedgerOther       LedgerPaymentType = "other"
)

// IsValid reports whether t is a known ledger payment type
func (t LedgerPaymentType) IsValid() bool {
	switch t {
	case LedgerRent, LedgerDeposit, LedgerFee, LedgerMaintenance, LedgerRefund, LedgerOther:
		return true
	}
	return false
}

// LedgerEntry is one line of a tenant's running account. Exactly one of
// DebitAmount and CreditAmount is positive.
type LedgerEntry struct {
	shared.AccountAggregateRoot
	TenantID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_ledger_tenant_order,priority:1"`
	LeaseID         *uuid.UUID        `gorm:"column:tenant_unit_id;type:uuid;index"`
	TransactionDate time.Time         `gorm:"type:date;not null;index:idx_ledger_tenant_order,priority:2"`
	TransactionType TransactionType   `gorm:"type:varchar(10);not null"`
	PaymentType     LedgerPaymentType `gorm:"type:varchar(20);not null;index"`
	Description     string            `gorm:"type:text"`
	ReferenceNo     string            `gorm:"type:varchar(100);index"`
	DebitAmount     decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	CreditAmount    decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Balance         decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	PaymentMethod   string            `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "tenant_ledgers"
}

// LedgerInput is the editable content of a ledger entry
type LedgerInput struct {
	LeaseID         *uuid.UUID
	TransactionDate time.Time
	PaymentType     LedgerPaymentType
	Description     string
	ReferenceNo     string
	DebitAmount     decimal.Decimal
	CreditAmount    decimal.Decimal
	PaymentMethod   string
}

// NewLedgerEntry creates an entry for a tenant. Balance is filled in by
// RecalculateBalances.
func NewLedgerEntry(accountID, tenantID uuid.UUID, in LedgerInput) (*LedgerEntry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant is required")
	}
	e := &LedgerEntry{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		TenantID:             tenantID,
		Balance:              decimal.Zero,
	}
	if err := e.Apply(in); err != nil {
		return nil, err
	}
	return e, nil
}

// NewDebit is shorthand for a charge against the tenant
func NewDebit(accountID, tenantID uuid.UUID, leaseID *uuid.UUID, date time.Time, pt LedgerPaymentType, amount decimal.Decimal, desc, ref string) (*LedgerEntry, error) {
	return NewLedgerEntry(accountID, tenantID, LedgerInput{
		LeaseID: leaseID, TransactionDate: date, PaymentType: pt,
		Description: desc, ReferenceNo: ref, DebitAmount: amount, CreditAmount: decimal.Zero,
	})
}

// NewCredit is shorthand for money received from the tenant
func NewCredit(accountID, tenantID uuid.UUID, leaseID *uuid.UUID, date time.Time, pt LedgerPaymentType, amount decimal.Decimal, desc, ref, method string) (*LedgerEntry, error) {
	return NewLedgerEntry(accountID, tenantID, LedgerInput{
		LeaseID: leaseID, TransactionDate: date, PaymentType: pt,
		Description: desc, ReferenceNo: ref, DebitAmount: decimal.Zero, CreditAmount: amount, PaymentMethod: method,
	})
}

// Apply validates and sets the entry content
func (e *LedgerEntry) Apply(in LedgerInput) error {
	if in.TransactionDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Transaction date is required")
	}
	if !in.PaymentType.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_TYPE", "Unknown ledger payment type")
	}
	if in.DebitAmount.IsNegative() || in.CreditAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if in.DebitAmount.IsPositive() == in.CreditAmount.IsPositive() {
		return ErrLedgerOneSide
	}

	e.LeaseID = in.LeaseID
	e.TransactionDate = in.TransactionDate
	e.PaymentType = in.PaymentType
	e.Description = strings.TrimSpace(in.Description)
	e.ReferenceNo = strings.TrimSpace(in.ReferenceNo)
	e.DebitAmount = shared.RoundMoney(in.DebitAmount)
	e.CreditAmount = shared.RoundMoney(in.CreditAmount)
	e.PaymentMethod = in.PaymentMethod
	if e.DebitAmount.IsPositive() {
		e.TransactionType = TransactionDebit
	} else {
		e.TransactionType = TransactionCredit
	}
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}

// Net is debit minus credit
func (e *LedgerEntry) Net() decimal.Decimal {
	return e.DebitAmount.Sub(e.CreditAmount)
}

// SortLedger orders entries by transaction date, creation time and ID
func SortLedger(entries []LedgerEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		ea, eb := entries[a], entries[b]
		if !ea.TransactionDate.Equal(eb.TransactionDate) {
			return ea.TransactionDate.Before(eb.TransactionDate)
		}
		if !ea.CreatedAt.Equal(eb.CreatedAt) {
			return ea.CreatedAt.Before(eb.CreatedAt)
		}
		return ea.ID.String() < eb.ID.String()
	})
}

// RecalculateBalances sorts a tenant's entries and rewrites the running
// balance of each. It returns the indices whose balance changed.
func RecalculateBalances(entries []LedgerEntry) []int {
	SortLedger(entries)
	changed := make([]int, 0)
	running := decimal.Zero
	for i := range entries {
		running = running.Add(entries[i].Net())
		if !entries[i].Balance.Equal(running) {
			entries[i].Balance = running
			changed = append(changed, i)
		}
	}
	return changed
}

// LedgerSummary totals a tenant's ledger
type LedgerSummary struct {
	TenantID       uuid.UUID       `json:"tenant_id"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	EntryCount     int64           `json:"entry_count"`
}

// Summarize totals a set of entries
func Summarize(tenantID uuid.UUID, entries []LedgerEntry) LedgerSummary {
	s := LedgerSummary{TenantID: tenantID, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, CurrentBalance: decimal.Zero}
	for i := range entries {
		s.TotalDebit = s.TotalDebit.Add(entries[i].DebitAmount)
		s.TotalCredit = s.TotalCredit.Add(entries[i].CreditAmount)
	}
	s.CurrentBalance = s.TotalDebit.Sub(s.TotalCredit)
	s.EntryCount = int64(len(entries))
	return s
}
