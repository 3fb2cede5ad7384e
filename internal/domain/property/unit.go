package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultRentCurrency is the currency of rents unless a unit says otherwise
const DefaultRentCurrency = "MVR"

// UnitStatus is the availability of a unit
type UnitStatus string

const (
	UnitStatusAvailable   UnitStatus = "available"
	UnitStatusOccupied    UnitStatus = "occupied"
	UnitStatusMaintenance UnitStatus = "maintenance"
)

// IsValid reports whether s is a known unit status
func (s UnitStatus) IsValid() bool {
	return s == UnitStatusAvailable || s == UnitStatusOccupied || s == UnitStatusMaintenance
}

// Unit is a rentable space within a property
type Unit struct {
	shared.AccountAggregateRoot
	PropertyID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_unit_property_number"`
	UnitNumber      string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_unit_property_number"`
	UnitType        string          `gorm:"type:varchar(50)"`
	Floor           int             `gorm:"not null;default:0"`
	RentAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SecurityDeposit decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'MVR'"`
	IsOccupied      bool            `gorm:"not null;default:false;index"`
	Status          UnitStatus      `gorm:"type:varchar(20);not null;default:'available'"`
}

// TableName returns the table name for GORM
func (Unit) TableName() string {
	return "units"
}

// NewUnit creates an available unit
func NewUnit(accountID, propertyID uuid.UUID, unitNumber string, rent decimal.Decimal) (*Unit, error) {
	if propertyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROPERTY", "Property is required")
	}
	u := &Unit{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		PropertyID:           propertyID,
		Status:               UnitStatusAvailable,
		SecurityDeposit:      decimal.Zero,
	}
	if err := u.Update(unitNumber, "", 0, rent, decimal.Zero, ""); err != nil {
		return nil, err
	}
	return u, nil
}

// Update replaces the descriptive and pricing fields of the unit
func (u *Unit) Update(unitNumber, unitType string, floor int, rent, deposit decimal.Decimal, currency string) error {
	unitNumber = strings.TrimSpace(unitNumber)
	if unitNumber == "" {
		return shared.NewDomainError("INVALID_UNIT_NUMBER", "Unit number cannot be empty")
	}
	if rent.IsNegative() || deposit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Rent and deposit cannot be negative")
	}
	cur, err := shared.NormalizeCurrency(currency, DefaultRentCurrency)
	if err != nil {
		return err
	}
	u.UnitNumber = unitNumber
	u.UnitType = unitType
	u.Floor = floor
	u.RentAmount = rent
	u.SecurityDeposit = deposit
	u.Currency = cur
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SyncOccupancy sets the occupied flag from whether an active lease exists.
// A unit under maintenance keeps that status.
func (u *Unit) SyncOccupancy(hasActiveLease bool) {
	u.IsOccupied = hasActiveLease
	switch {
	case hasActiveLease:
		u.Status = UnitStatusOccupied
	case u.Status == UnitStatusOccupied:
		u.Status = UnitStatusAvailable
	}
	u.UpdatedAt = time.Now()
}

// SetMaintenance toggles the maintenance status of a vacant unit
func (u *Unit) SetMaintenance(on bool) error {
	if u.IsOccupied {
		return shared.NewDomainError("UNIT_OCCUPIED", "An occupied unit cannot change maintenance status")
	}
	if on {
		u.Status = UnitStatusMaintenance
	} else {
		u.Status = UnitStatusAvailable
	}
	u.UpdatedAt = time.Now()
	return nil
}
