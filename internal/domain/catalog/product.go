package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultProductCurrency is used when a product is created without a currency
const DefaultProductCurrency = "USD"

// Product is a quotable item: hardware, a software licence, a spare part or
// a service sold by man-day.
type Product struct {
	shared.AccountAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	SKU            string          `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_product_account_sku,priority:2"`
	Description    string          `gorm:"type:text"`
	CategoryID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LandedCost     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'USD'"`
	IsManDayBased  bool            `gorm:"not null;default:false"`
	TotalManDays   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	HasAMCOption   bool            `gorm:"column:has_amc_option;not null;default:false"`
	AMCUnitPrice   decimal.Decimal `gorm:"column:amc_unit_price;type:decimal(18,2);not null;default:0"`
	AMCDescription string          `gorm:"column:amc_description;type:text"`
	Brand          string          `gorm:"type:varchar(100)"`
	Model          string          `gorm:"type:varchar(100)"`
	PartNumber     string          `gorm:"type:varchar(100);index"`
	TaxRate        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	IsActive       bool            `gorm:"not null;default:true"`
	IsDiscountable bool            `gorm:"not null;default:true"`
	IsRefurbished  bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in a category
func NewProduct(accountID, categoryID uuid.UUID, name, sku string, unitPrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	sku, err := normalizeSKU(sku)
	if err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category is required")
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	product := &Product{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Name:                 strings.TrimSpace(name),
		SKU:                  sku,
		CategoryID:           categoryID,
		UnitPrice:            unitPrice,
		LandedCost:           decimal.Zero,
		Currency:             DefaultProductCurrency,
		TotalManDays:         decimal.Zero,
		AMCUnitPrice:         decimal.Zero,
		TaxRate:              decimal.Zero,
		IsActive:             true,
		IsDiscountable:       true,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the descriptive fields of the product
func (p *Product) Update(name, description, brand, model, partNumber string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Brand = brand
	p.Model = model
	p.PartNumber = partNumber
	p.touch()

	return nil
}

// ChangeSKU replaces the SKU. Uniqueness is checked by the caller.
func (p *Product) ChangeSKU(sku string) error {
	normalized, err := normalizeSKU(sku)
	if err != nil {
		return err
	}
	p.SKU = normalized
	p.touch()
	return nil
}

// SetCategory moves the product to another category
func (p *Product) SetCategory(categoryID uuid.UUID) {
	p.CategoryID = categoryID
	p.touch()
}

// SetPricing updates price, landed cost, currency and tax rate together
func (p *Product) SetPricing(unitPrice, landedCost decimal.Decimal, currency string, taxRate decimal.Decimal) error {
	if unitPrice.IsNegative() || landedCost.IsNegative() {
		return ErrInvalidPrice
	}
	if !shared.ValidPercentage(taxRate) {
		return ErrInvalidTaxRate
	}
	cur, err := shared.NormalizeCurrency(currency, DefaultProductCurrency)
	if err != nil {
		return err
	}

	oldPrice := p.UnitPrice
	p.UnitPrice = unitPrice
	p.LandedCost = landedCost
	p.Currency = cur
	p.TaxRate = taxRate
	p.touch()

	if !oldPrice.Equal(unitPrice) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, oldPrice))
	}
	return nil
}

// SetManDayBilling switches man-day billing on or off
func (p *Product) SetManDayBilling(enabled bool, totalManDays decimal.Decimal) error {
	if !enabled {
		p.IsManDayBased = false
		p.TotalManDays = decimal.Zero
		p.touch()
		return nil
	}
	if !totalManDays.IsPositive() {
		return shared.NewDomainError("INVALID_MAN_DAYS", "Total man-days must be greater than zero")
	}
	p.IsManDayBased = true
	p.TotalManDays = totalManDays
	p.touch()
	return nil
}

// SetAMCOption configures the annual maintenance contract add-on
func (p *Product) SetAMCOption(enabled bool, unitPrice decimal.Decimal, description string) error {
	if !enabled {
		p.HasAMCOption = false
		p.AMCUnitPrice = decimal.Zero
		p.AMCDescription = ""
		p.touch()
		return nil
	}
	if unitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	p.HasAMCOption = true
	p.AMCUnitPrice = unitPrice
	p.AMCDescription = description
	p.touch()
	return nil
}

// SetFlags updates the discountable and refurbished flags
func (p *Product) SetFlags(discountable, refurbished bool) {
	p.IsDiscountable = discountable
	p.IsRefurbished = refurbished
	p.touch()
}

// Activate makes the product quotable
func (p *Product) Activate() error {
	if p.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}
	p.IsActive = true
	p.touch()
	return nil
}

// Deactivate hides the product from new quotations
func (p *Product) Deactivate() error {
	if !p.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}
	p.IsActive = false
	p.touch()
	return nil
}

// ManDayRate is the price of one man-day for man-day products, zero otherwise
func (p *Product) ManDayRate() decimal.Decimal {
	if !p.IsManDayBased {
		return decimal.Zero
	}
	return p.UnitPrice
}

// TotalLotPrice is the price of the whole engagement for man-day products
// and the unit price for everything else
func (p *Product) TotalLotPrice() decimal.Decimal {
	if !p.IsManDayBased {
		return p.UnitPrice
	}
	return shared.RoundMoney(p.UnitPrice.Mul(p.TotalManDays))
}

// Margin returns unit price minus landed cost
func (p *Product) Margin() decimal.Decimal {
	return p.UnitPrice.Sub(p.LandedCost)
}

// MarginPercent returns the margin as a percentage of the unit price
func (p *Product) MarginPercent() decimal.Decimal {
	return shared.Ratio(p.Margin(), p.UnitPrice)
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func normalizeSKU(sku string) (string, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return "", shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 64 {
		return "", shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return "", shared.NewDomainError("INVALID_SKU", "SKU can only contain letters, numbers, dots, underscores, and hyphens")
		}
	}
	return sku, nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
