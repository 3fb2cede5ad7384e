package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeRentInvoice = "RentInvoice"
	AggregateTypePayment     = "Payment"
)

// Event type constants
const (
	EventTypeRentInvoiceGenerated = "RentInvoiceGenerated"
	EventTypeRentInvoicePaid      = "RentInvoicePaid"
	EventTypePaymentCompleted     = "PaymentCompleted"
)

// RentInvoiceGeneratedEvent is published for every new rent invoice
type RentInvoiceGeneratedEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	LeaseID       uuid.UUID       `json:"lease_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}

// NewRentInvoiceGeneratedEvent creates a new RentInvoiceGeneratedEvent
func NewRentInvoiceGeneratedEvent(i *RentInvoice) *RentInvoiceGeneratedEvent {
	return &RentInvoiceGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRentInvoiceGenerated, AggregateTypeRentInvoice, i.ID, i.AccountID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		LeaseID:         i.LeaseID,
		TenantID:        i.TenantID,
		InvoiceDate:     i.InvoiceDate,
		DueDate:         i.DueDate,
		Amount:          i.TotalAmount,
		Currency:        i.Currency,
	}
}

// RentInvoicePaidEvent is published when a payment is recorded on an invoice
type RentInvoicePaidEvent struct {
	shared.BaseDomainEvent
	InvoiceID     uuid.UUID       `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Status        InvoiceStatus   `json:"status"`
}

// NewRentInvoicePaidEvent creates a new RentInvoicePaidEvent
func NewRentInvoicePaidEvent(i *RentInvoice) *RentInvoicePaidEvent {
	return &RentInvoicePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRentInvoicePaid, AggregateTypeRentInvoice, i.ID, i.AccountID),
		InvoiceID:       i.ID,
		InvoiceNumber:   i.InvoiceNumber,
		TenantID:        i.TenantID,
		PaidAmount:      i.PaidAmount,
		Status:          i.Status,
	}
}

// PaymentCompletedEvent is published when a payment is captured
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID       uuid.UUID       `json:"payment_id"`
	PaymentType     PaymentType     `json:"payment_type"`
	Direction       Direction       `json:"direction"`
	TenantID        *uuid.UUID      `json:"tenant_id,omitempty"`
	LeaseID         *uuid.UUID      `json:"lease_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	ReceiptNumber   string          `json:"receipt_number"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// NewPaymentCompletedEvent creates a new PaymentCompletedEvent
func NewPaymentCompletedEvent(p *Payment) *PaymentCompletedEvent {
	var txDate time.Time
	if p.TransactionDate != nil {
		txDate = *p.TransactionDate
	}
	return &PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypePayment, p.ID, p.AccountID),
		PaymentID:       p.ID,
		PaymentType:     p.PaymentType,
		Direction:       p.Direction,
		TenantID:        p.TenantID,
		LeaseID:         p.LeaseID,
		Amount:          p.Amount,
		ReceiptNumber:   p.ReceiptNumber,
		PaymentMethod:   p.PaymentMethod,
		TransactionDate: txDate,
	}
}
