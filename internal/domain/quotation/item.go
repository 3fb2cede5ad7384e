package quotation

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemType classifies a quotation line
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeService ItemType = "service"
	ItemTypeAMC     ItemType = "amc"
)

// IsValid reports whether t is a known item type
func (t ItemType) IsValid() bool {
	return t == ItemTypeProduct || t == ItemTypeService || t == ItemTypeAMC
}

// Item is a single priced line of a quotation
type Item struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	QuotationID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          *uuid.UUID      `gorm:"type:uuid;index"`
	ItemType           ItemType        `gorm:"type:varchar(20);not null;default:'product'"`
	Description        string          `gorm:"type:text;not null"`
	Quantity           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TaxRate            decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	ItemTotal          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ParentItemID       *uuid.UUID      `gorm:"type:uuid"`
	IsAMCLine          bool            `gorm:"not null;default:false"`
	SortOrder          int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "quotation_items"
}

// NewItem builds a line with zero tax and discount
func NewItem(itemType ItemType, description string, quantity, unitPrice decimal.Decimal) Item {
	return Item{
		ItemType:           itemType,
		Description:        description,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		TaxRate:            decimal.Zero,
		DiscountPercentage: decimal.Zero,
		ItemTotal:          decimal.Zero,
	}
}

// Validate checks the line invariants
func (i *Item) Validate() error {
	if !i.ItemType.IsValid() {
		return shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be product, service or amc")
	}
	if strings.TrimSpace(i.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Item description cannot be empty")
	}
	if !i.Quantity.IsPositive() {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if !shared.ValidPercentage(i.TaxRate) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	if !shared.ValidPercentage(i.DiscountPercentage) {
		return ErrInvalidDiscount
	}
	if i.IsAMCLine && i.ParentItemID == nil {
		return shared.NewDomainError("INVALID_PARENT_ITEM", "AMC lines must reference a product line")
	}
	return nil
}

// Recalculate sets ItemTotal = quantity × unit price × (1 − discount%)
func (i *Item) Recalculate() {
	gross := i.Quantity.Mul(i.UnitPrice)
	i.ItemTotal = shared.RoundMoney(gross.Sub(shared.Percent(gross, i.DiscountPercentage)))
}

// TaxAmount returns the tax charged on this line
func (i *Item) TaxAmount() decimal.Decimal {
	return shared.RoundMoney(shared.Percent(i.ItemTotal, i.TaxRate))
}
