package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultDueDateOffsetDays is the gap between invoice and due date
const DefaultDueDateOffsetDays = 7

// InvoiceStatus is the lifecycle state of a rent invoice
type InvoiceStatus string

const (
	InvoiceStatusGenerated InvoiceStatus = "generated"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid reports whether s is a known invoice status
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusGenerated, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusPartial,
		InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// IsOpen reports whether the invoice still expects money
func (s InvoiceStatus) IsOpen() bool {
	return s == InvoiceStatusGenerated || s == InvoiceStatusSent || s == InvoiceStatusPartial || s == InvoiceStatusOverdue
}

// RentInvoice is the monthly rent bill of a lease
type RentInvoice struct {
	shared.AccountAggregateRoot
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_rent_invoice_account_number"`
	LeaseID       uuid.UUID       `gorm:"column:tenant_unit_id;type:uuid;not null;index"`
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PropertyID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceDate   time.Time       `gorm:"type:date;not null;index"`
	DueDate       time.Time       `gorm:"type:date;not null"`
	RentAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	LateFee       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:'MVR'"`
	Status        InvoiceStatus   `gorm:"type:varchar(20);not null;default:'generated';index"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PaidDate      *time.Time      `gorm:"type:date"`
	PDFPath       string          `gorm:"type:varchar(500)"`
	Notes         string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RentInvoice) TableName() string {
	return "rent_invoices"
}

// LeaseBilling carries the lease data an invoice is created from
type LeaseBilling struct {
	LeaseID     uuid.UUID
	TenantID    uuid.UUID
	UnitID      uuid.UUID
	PropertyID  uuid.UUID
	MonthlyRent decimal.Decimal
	Currency    string
}

// NewRentInvoice creates a generated invoice for one month of rent
func NewRentInvoice(accountID uuid.UUID, number string, lease LeaseBilling, invoiceDate time.Time, dueOffsetDays int) (*RentInvoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number is required")
	}
	if !lease.MonthlyRent.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if dueOffsetDays < 0 {
		dueOffsetDays = DefaultDueDateOffsetDays
	}
	cur, err := shared.NormalizeCurrency(lease.Currency, "MVR")
	if err != nil {
		return nil, err
	}

	inv := &RentInvoice{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		InvoiceNumber:        number,
		LeaseID:              lease.LeaseID,
		TenantID:             lease.TenantID,
		UnitID:               lease.UnitID,
		PropertyID:           lease.PropertyID,
		InvoiceDate:          invoiceDate,
		DueDate:              invoiceDate.AddDate(0, 0, dueOffsetDays),
		RentAmount:           lease.MonthlyRent,
		LateFee:              decimal.Zero,
		TotalAmount:          lease.MonthlyRent,
		Currency:             cur,
		Status:               InvoiceStatusGenerated,
		PaidAmount:           decimal.Zero,
	}
	inv.AddDomainEvent(NewRentInvoiceGeneratedEvent(inv))
	return inv, nil
}

// ApplyLateFee adds a fee to an open invoice
func (i *RentInvoice) ApplyLateFee(fee decimal.Decimal) error {
	if !i.Status.IsOpen() {
		return ErrInvoiceClosed
	}
	if fee.IsNegative() {
		return ErrInvalidAmount
	}
	i.LateFee = shared.RoundMoney(fee)
	i.TotalAmount = i.RentAmount.Add(i.LateFee)
	i.touch()
	return nil
}

// MarkSent records that the invoice was delivered to the tenant
func (i *RentInvoice) MarkSent() error {
	if i.Status != InvoiceStatusGenerated {
		return ErrInvoiceClosed
	}
	i.Status = InvoiceStatusSent
	i.touch()
	return nil
}

// RecordPayment sets the paid amount. The invoice is partial while the
// amount is below the total and paid otherwise.
func (i *RentInvoice) RecordPayment(amount decimal.Decimal, paidOn time.Time) error {
	if i.Status == InvoiceStatusCancelled || i.Status == InvoiceStatusPaid {
		return ErrInvoiceClosed
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	i.PaidAmount = shared.RoundMoney(amount)
	i.PaidDate = &paidOn
	if i.PaidAmount.LessThan(i.TotalAmount) {
		i.Status = InvoiceStatusPartial
	} else {
		i.Status = InvoiceStatusPaid
	}
	i.touch()
	i.AddDomainEvent(NewRentInvoicePaidEvent(i))
	return nil
}

// MarkOverdueIfDue flips generated or sent invoices past their due date.
// It reports whether the status changed.
func (i *RentInvoice) MarkOverdueIfDue(today time.Time) bool {
	if i.Status != InvoiceStatusGenerated && i.Status != InvoiceStatusSent {
		return false
	}
	if !dateOnly(i.DueDate).Before(dateOnly(today)) {
		return false
	}
	i.Status = InvoiceStatusOverdue
	i.touch()
	return true
}

// Cancel voids an unpaid invoice
func (i *RentInvoice) Cancel() error {
	if i.Status == InvoiceStatusPaid || i.Status == InvoiceStatusPartial || i.Status == InvoiceStatusCancelled {
		return ErrInvoiceClosed
	}
	i.Status = InvoiceStatusCancelled
	i.touch()
	return nil
}

// Balance is the amount still owed
func (i *RentInvoice) Balance() decimal.Decimal {
	b := i.TotalAmount.Sub(i.PaidAmount)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// SetPDFPath records the object key of the rendered PDF
func (i *RentInvoice) SetPDFPath(key string) {
	i.PDFPath = key
	i.UpdatedAt = time.Now()
}

func (i *RentInvoice) touch() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// BillingDate returns the invoice date for a month: the configured day,
// clamped to the month's last day.
func BillingDate(month time.Time, day int) time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	if day < 1 {
		day = 1
	}
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// MonthKey renders the month as YYYY-MM
func MonthKey(month time.Time) string {
	return month.Format("2006-01")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerationResult summarizes a monthly generation run
type GenerationResult struct {
	Month     string       `json:"month"`
	Generated int          `json:"generated"`
	Skipped   int          `json:"skipped"`
	Invoices  []string     `json:"invoices"`
	Reasons   []SkipReason `json:"reasons,omitempty"`
}

// SkipReason explains why a lease was not invoiced
type SkipReason struct {
	LeaseID uuid.UUID `json:"lease_id"`
	Reason  string    `json:"reason"`
}
