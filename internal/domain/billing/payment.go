package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultPaymentCurrency is used when a payment is recorded without one
const DefaultPaymentCurrency = "USD"

// Direction says whether money comes in or goes out
type Direction string

const (
	DirectionIncome   Direction = "income"
	DirectionOutgoing Direction = "outgoing"
)

// PaymentType classifies a unified payment
type PaymentType string

const (
	PaymentRent               PaymentType = "rent"
	PaymentMaintenanceExpense PaymentType = "maintenance_expense"
	PaymentSecurityRefund     PaymentType = "security_refund"
	PaymentFee                PaymentType = "fee"
	PaymentOtherIncome        PaymentType = "other_income"
	PaymentOtherOutgoing      PaymentType = "other_outgoing"
)

var paymentDirections = map[PaymentType]Direction{
	PaymentRent:               DirectionIncome,
	PaymentMaintenanceExpense: DirectionOutgoing,
	PaymentSecurityRefund:     DirectionOutgoing,
	PaymentFee:                DirectionIncome,
	PaymentOtherIncome:        DirectionIncome,
	PaymentOtherOutgoing:      DirectionOutgoing,
}

// IsValid reports whether t is a known payment type
func (t PaymentType) IsValid() bool {
	_, ok := paymentDirections[t]
	return ok
}

// Direction returns the flow direction of the payment type
func (t PaymentType) Direction() Direction {
	return paymentDirections[t]
}

// RequiresLease reports whether a payment of type t must reference a lease
func (t PaymentType) RequiresLease() bool {
	return t != PaymentOtherIncome && t != PaymentOtherOutgoing
}

// LedgerType maps the payment type onto the tenant ledger classification
func (t PaymentType) LedgerType() LedgerPaymentType {
	switch t {
	case PaymentRent:
		return LedgerRent
	case PaymentFee:
		return LedgerFee
	case PaymentSecurityRefund:
		return LedgerRefund
	case PaymentMaintenanceExpense:
		return LedgerMaintenance
	}
	return LedgerOther
}

// PaymentStatus is the lifecycle state of a payment
type PaymentStatus string

const (
	PaymentStatusDraft     PaymentStatus = "draft"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPartial   PaymentStatus = "partial"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// IsValid reports whether s is a known payment status
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusDraft, PaymentStatusPending, PaymentStatusScheduled, PaymentStatusCompleted,
		PaymentStatusPartial, PaymentStatusCancelled, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Payment is a unified record of money moving in or out of the account
type Payment struct {
	shared.AccountAggregateRoot
	PaymentType     PaymentType     `gorm:"type:varchar(30);not null;index"`
	Direction       Direction       `gorm:"column:flow_direction;type:varchar(10);not null;index"`
	TenantID        *uuid.UUID      `gorm:"type:uuid;index"`
	LeaseID         *uuid.UUID      `gorm:"column:tenant_unit_id;type:uuid;index"`
	RentInvoiceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Status          PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod   string          `gorm:"type:varchar(50)"`
	ReferenceNumber string          `gorm:"type:varchar(100)"`
	ReceiptNumber   string          `gorm:"type:varchar(50);index"`
	TransactionDate *time.Time      `gorm:"type:date;index"`
	DueDate         *time.Time      `gorm:"type:date"`
	Description     string          `gorm:"type:text"`
	VoidReason      string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "unified_payments"
}

// PaymentInput is the content of a new payment
type PaymentInput struct {
	PaymentType     PaymentType
	TenantID        *uuid.UUID
	LeaseID         *uuid.UUID
	RentInvoiceID   *uuid.UUID
	Amount          decimal.Decimal
	Currency        string
	Status          PaymentStatus
	PaymentMethod   string
	ReferenceNumber string
	TransactionDate *time.Time
	DueDate         *time.Time
	Description     string
}

// NewPayment validates and creates a payment. Status defaults to pending.
// A payment created as completed or partial goes through Capture so the
// receipt and events are produced.
func NewPayment(accountID uuid.UUID, in PaymentInput) (*Payment, error) {
	if !in.PaymentType.IsValid() {
		return nil, ErrInvalidPaymentType
	}
	if in.PaymentType.RequiresLease() && in.LeaseID == nil {
		return nil, ErrLeaseRequired
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	cur, err := shared.NormalizeCurrency(in.Currency, DefaultPaymentCurrency)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, ErrInvalidPaymentStatus
	}

	p := &Payment{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		PaymentType:          in.PaymentType,
		Direction:            in.PaymentType.Direction(),
		TenantID:             in.TenantID,
		LeaseID:              in.LeaseID,
		RentInvoiceID:        in.RentInvoiceID,
		Amount:               shared.RoundMoney(in.Amount),
		Currency:             cur,
		Status:               PaymentStatusPending,
		PaymentMethod:        in.PaymentMethod,
		ReferenceNumber:      strings.TrimSpace(in.ReferenceNumber),
		TransactionDate:      in.TransactionDate,
		DueDate:              in.DueDate,
		Description:          in.Description,
	}
	switch status {
	case PaymentStatusCompleted, PaymentStatusPartial:
		// captured by the caller once a receipt number is issued
	case PaymentStatusCancelled, PaymentStatusFailed, PaymentStatusRefunded:
		return nil, ErrInvalidPaymentStatus
	default:
		p.Status = status
	}
	return p, nil
}

// CanCapture reports whether Capture would be accepted
func (p *Payment) CanCapture() error {
	switch p.Status {
	case PaymentStatusCancelled, PaymentStatusFailed, PaymentStatusRefunded:
		return ErrPaymentClosed
	case PaymentStatusCompleted:
		return ErrPaymentAlreadyCaptured
	}
	return nil
}

// Capture completes the payment. status must be completed or partial.
func (p *Payment) Capture(status PaymentStatus, receiptNumber string, on time.Time, method string) error {
	if status != PaymentStatusCompleted && status != PaymentStatusPartial {
		return ErrInvalidPaymentStatus
	}
	if err := p.CanCapture(); err != nil {
		return err
	}
	p.Status = status
	if p.ReceiptNumber == "" {
		p.ReceiptNumber = receiptNumber
	}
	switch {
	case !on.IsZero():
		p.TransactionDate = &on
	case p.TransactionDate == nil:
		now := time.Now()
		p.TransactionDate = &now
	}
	if method != "" {
		p.PaymentMethod = method
	}
	p.touch()
	p.AddDomainEvent(NewPaymentCompletedEvent(p))
	return nil
}

// Void cancels the payment
func (p *Payment) Void(reason string) error {
	if p.Status == PaymentStatusCompleted || p.Status == PaymentStatusRefunded {
		return ErrPaymentNotVoidable
	}
	if p.Status == PaymentStatusCancelled {
		return ErrPaymentClosed
	}
	p.Status = PaymentStatusCancelled
	p.VoidReason = strings.TrimSpace(reason)
	p.touch()
	return nil
}

// PostsToLedger reports whether capture should credit the tenant ledger
func (p *Payment) PostsToLedger() bool {
	return p.Direction == DirectionIncome && p.TenantID != nil
}

func (p *Payment) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// PaymentSummary totals income against outgoing payments
type PaymentSummary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalOutgoing decimal.Decimal `json:"total_outgoing"`
	Net           decimal.Decimal `json:"net"`
	PendingCount  int64           `json:"pending_count"`
}
