package quotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultQuotationCurrency is used when a quotation is created without one
const DefaultQuotationCurrency = "USD"

// Status is the lifecycle state of a quotation
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed
func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusExpired
}

var allowedTransitions = map[Status][]Status{
	StatusDraft: {StatusSent, StatusExpired},
	StatusSent:  {StatusAccepted, StatusRejected, StatusExpired},
}

// CanTransitionTo reports whether s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Quotation is a priced offer to a customer
type Quotation struct {
	shared.AccountAggregateRoot
	QuotationNumber    string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_quotation_account_number"`
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status             Status          `gorm:"type:varchar(20);not null;default:'draft';index"`
	ValidUntil         *time.Time      `gorm:"type:date"`
	Currency           string          `gorm:"type:varchar(3);not null;default:'USD'"`
	ExchangeRate       decimal.Decimal `gorm:"type:decimal(12,4);not null;default:1"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes              string          `gorm:"type:text"`
	TermsTemplateIDs   shared.UUIDList `gorm:"type:text"`
	SentDate           *time.Time      `gorm:"type:date"`
	AcceptedDate       *time.Time      `gorm:"type:date"`
	RejectedDate       *time.Time      `gorm:"type:date"`
	Items              []Item          `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Quotation) TableName() string {
	return "quotations"
}

// NewQuotation creates a draft quotation with an assigned number
func NewQuotation(accountID, customerID uuid.UUID, number, currency string) (*Quotation, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Quotation number is required")
	}
	cur, err := shared.NormalizeCurrency(currency, DefaultQuotationCurrency)
	if err != nil {
		return nil, err
	}

	q := &Quotation{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		QuotationNumber:      number,
		CustomerID:           customerID,
		Status:               StatusDraft,
		Currency:             cur,
		ExchangeRate:         decimal.NewFromInt(1),
		Subtotal:             decimal.Zero,
		DiscountPercentage:   decimal.Zero,
		DiscountAmount:       decimal.Zero,
		TaxAmount:            decimal.Zero,
		TotalAmount:          decimal.Zero,
		Items:                make([]Item, 0),
	}
	q.AddDomainEvent(NewQuotationCreatedEvent(q))
	return q, nil
}

// UpdateHeader updates the commercial terms of a draft
func (q *Quotation) UpdateHeader(validUntil *time.Time, exchangeRate, discountPct decimal.Decimal, notes string, termsIDs []uuid.UUID) error {
	if err := q.ensureEditable(); err != nil {
		return err
	}
	if !exchangeRate.IsPositive() {
		return shared.NewDomainError("INVALID_EXCHANGE_RATE", "Exchange rate must be greater than zero")
	}
	if !shared.ValidPercentage(discountPct) {
		return ErrInvalidDiscount
	}

	q.ValidUntil = validUntil
	q.ExchangeRate = exchangeRate
	q.DiscountPercentage = discountPct
	q.Notes = notes
	q.TermsTemplateIDs = shared.UUIDList(termsIDs)
	q.RecalculateTotals()
	q.touch()
	return nil
}

// AddItem appends a line. AMC lines must reference a product line of the
// same quotation through ParentItemID.
func (q *Quotation) AddItem(item Item) (*Item, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	if item.ParentItemID != nil && q.findItem(*item.ParentItemID) == nil {
		return nil, shared.NewDomainError("INVALID_PARENT_ITEM", "Parent item does not belong to this quotation")
	}

	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	item.QuotationID = q.ID
	item.SortOrder = len(q.Items)
	item.Recalculate()
	q.Items = append(q.Items, item)
	q.RecalculateTotals()
	q.touch()
	return &q.Items[len(q.Items)-1], nil
}

// UpdateItem replaces the editable fields of an existing line
func (q *Quotation) UpdateItem(itemID uuid.UUID, changes Item) (*Item, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	item := q.findItem(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if err := changes.Validate(); err != nil {
		return nil, err
	}

	item.ProductID = changes.ProductID
	item.ItemType = changes.ItemType
	item.Description = changes.Description
	item.Quantity = changes.Quantity
	item.UnitPrice = changes.UnitPrice
	item.TaxRate = changes.TaxRate
	item.DiscountPercentage = changes.DiscountPercentage
	item.IsAMCLine = changes.IsAMCLine
	item.Recalculate()
	q.RecalculateTotals()
	q.touch()
	return item, nil
}

// RemoveItem deletes a line and any AMC lines hanging under it. It returns
// the IDs removed.
func (q *Quotation) RemoveItem(itemID uuid.UUID) ([]uuid.UUID, error) {
	if err := q.ensureEditable(); err != nil {
		return nil, err
	}
	if q.findItem(itemID) == nil {
		return nil, ErrItemNotFound
	}

	removed := make([]uuid.UUID, 0, 2)
	kept := make([]Item, 0, len(q.Items))
	for _, it := range q.Items {
		if it.ID == itemID || (it.ParentItemID != nil && *it.ParentItemID == itemID) {
			removed = append(removed, it.ID)
			continue
		}
		kept = append(kept, it)
	}
	for i := range kept {
		kept[i].SortOrder = i
	}
	q.Items = kept
	q.RecalculateTotals()
	q.touch()
	return removed, nil
}

// RecalculateTotals derives subtotal, discount, tax and total from the lines.
// The header discount applies to the subtotal; tax is charged per line on
// the line total.
func (q *Quotation) RecalculateTotals() {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for i := range q.Items {
		subtotal = subtotal.Add(q.Items[i].ItemTotal)
		tax = tax.Add(shared.Percent(q.Items[i].ItemTotal, q.Items[i].TaxRate))
	}

	discount := shared.Percent(subtotal, q.DiscountPercentage)
	q.Subtotal = shared.RoundMoney(subtotal)
	q.DiscountAmount = shared.RoundMoney(discount)
	q.TaxAmount = shared.RoundMoney(tax)
	q.TotalAmount = shared.RoundMoney(subtotal.Sub(discount).Add(tax))
}

// ChangeStatus moves the quotation through its lifecycle and stamps the
// matching date.
func (q *Quotation) ChangeStatus(next Status, at time.Time) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown quotation status")
	}
	if !q.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	if next == StatusSent && len(q.Items) == 0 {
		return shared.NewDomainError("EMPTY_QUOTATION", "A quotation needs at least one item before it is sent")
	}

	old := q.Status
	q.Status = next
	day := at
	switch next {
	case StatusSent:
		q.SentDate = &day
	case StatusAccepted:
		q.AcceptedDate = &day
	case StatusRejected:
		q.RejectedDate = &day
	}
	q.touch()
	q.AddDomainEvent(NewQuotationStatusChangedEvent(q, old))
	return nil
}

// IsExpiredAt reports whether the validity date has passed
func (q *Quotation) IsExpiredAt(now time.Time) bool {
	return q.ValidUntil != nil && q.ValidUntil.Before(now)
}

// CanDelete reports whether the quotation may be deleted
func (q *Quotation) CanDelete() error {
	if q.Status != StatusDraft {
		return shared.NewDomainError("QUOTATION_NOT_DRAFT", "Only draft quotations can be deleted")
	}
	return nil
}

// Duplicate copies the lines and commercial terms into a new draft
func (q *Quotation) Duplicate(number string) (*Quotation, error) {
	dup, err := NewQuotation(q.AccountID, q.CustomerID, number, q.Currency)
	if err != nil {
		return nil, err
	}
	dup.ExchangeRate = q.ExchangeRate
	dup.DiscountPercentage = q.DiscountPercentage
	dup.Notes = q.Notes
	dup.TermsTemplateIDs = append(shared.UUIDList(nil), q.TermsTemplateIDs...)

	idMap := make(map[uuid.UUID]uuid.UUID, len(q.Items))
	for _, it := range q.Items {
		idMap[it.ID] = uuid.New()
	}
	for _, it := range q.Items {
		copied := it
		copied.ID = idMap[it.ID]
		copied.QuotationID = dup.ID
		if it.ParentItemID != nil {
			parent := idMap[*it.ParentItemID]
			copied.ParentItemID = &parent
		}
		dup.Items = append(dup.Items, copied)
	}
	dup.RecalculateTotals()
	return dup, nil
}

func (q *Quotation) findItem(id uuid.UUID) *Item {
	for i := range q.Items {
		if q.Items[i].ID == id {
			return &q.Items[i]
		}
	}
	return nil
}

func (q *Quotation) ensureEditable() error {
	if q.Status != StatusDraft {
		return ErrQuotationLocked
	}
	return nil
}

func (q *Quotation) touch() {
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}
