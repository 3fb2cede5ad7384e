package quotation

import (
	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeQuotation       = "Quotation"
	AggregateTypeSupportContract = "SupportContract"
)

// Event type constants
const (
	EventTypeQuotationCreated       = "QuotationCreated"
	EventTypeQuotationStatusChanged = "QuotationStatusChanged"
	EventTypeContractExpired        = "SupportContractExpired"
)

// QuotationCreatedEvent is published when a quotation number is issued
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID `json:"quotation_id"`
	QuotationNumber string    `json:"quotation_number"`
	CustomerID      uuid.UUID `json:"customer_id"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID, q.AccountID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		CustomerID:      q.CustomerID,
	}
}

// QuotationStatusChangedEvent is published on every status transition
type QuotationStatusChangedEvent struct {
	shared.BaseDomainEvent
	QuotationID     uuid.UUID       `json:"quotation_id"`
	QuotationNumber string          `json:"quotation_number"`
	OldStatus       Status          `json:"old_status"`
	NewStatus       Status          `json:"new_status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
}

// NewQuotationStatusChangedEvent creates a new QuotationStatusChangedEvent
func NewQuotationStatusChangedEvent(q *Quotation, old Status) *QuotationStatusChangedEvent {
	return &QuotationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationStatusChanged, AggregateTypeQuotation, q.ID, q.AccountID),
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		OldStatus:       old,
		NewStatus:       q.Status,
		TotalAmount:     q.TotalAmount,
	}
}

// ContractExpiredEvent is published when a support contract lapses
type ContractExpiredEvent struct {
	shared.BaseDomainEvent
	ContractID     uuid.UUID `json:"contract_id"`
	ContractNumber string    `json:"contract_number"`
	CustomerID     uuid.UUID `json:"customer_id"`
}

// NewContractExpiredEvent creates a new ContractExpiredEvent
func NewContractExpiredEvent(c *SupportContract) *ContractExpiredEvent {
	return &ContractExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractExpired, AggregateTypeSupportContract, c.ID, c.AccountID),
		ContractID:      c.ID,
		ContractNumber:  c.ContractNumber,
		CustomerID:      c.CustomerID,
	}
}
