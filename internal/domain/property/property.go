package property

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// PropertyType distinguishes residential buildings from commercial ones
type PropertyType string

const (
	PropertyTypeResidential PropertyType = "residential"
	PropertyTypeCommercial  PropertyType = "commercial"
)

// IsValid reports whether t is a known property type
func (t PropertyType) IsValid() bool {
	return t == PropertyTypeResidential || t == PropertyTypeCommercial
}

// PropertyStatus is the availability of a property
type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "active"
	PropertyStatusInactive PropertyStatus = "inactive"
)

// IsValid reports whether s is a known property status
func (s PropertyStatus) IsValid() bool {
	return s == PropertyStatusActive || s == PropertyStatusInactive
}

// Property is a building containing rentable units
type Property struct {
	shared.AccountAggregateRoot
	Name           string         `gorm:"type:varchar(200);not null"`
	Address        string         `gorm:"type:text"`
	Street         string         `gorm:"type:varchar(200)"`
	Island         string         `gorm:"type:varchar(100);index"`
	PropertyType   PropertyType   `gorm:"type:varchar(20);not null;default:'residential'"`
	NumberOfFloors int            `gorm:"not null;default:1"`
	Description    string         `gorm:"type:text"`
	Status         PropertyStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates an active property
func NewProperty(accountID uuid.UUID, name string, propertyType PropertyType) (*Property, error) {
	p := &Property{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Status:               PropertyStatusActive,
		NumberOfFloors:       1,
	}
	if err := p.Update(name, "", "", "", propertyType, 1, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the descriptive fields of the property
func (p *Property) Update(name, address, street, island string, propertyType PropertyType, floors int, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Property name cannot be empty")
	}
	if !propertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type must be residential or commercial")
	}
	if floors < 1 {
		return shared.NewDomainError("INVALID_FLOORS", "A property has at least one floor")
	}
	p.Name = name
	p.Address = address
	p.Street = street
	p.Island = island
	p.PropertyType = propertyType
	p.NumberOfFloors = floors
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetStatus activates or deactivates the property
func (p *Property) SetStatus(status PropertyStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Property status must be active or inactive")
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

// OccupancyStats are the unit counts shown next to a property
type OccupancyStats struct {
	TotalUnits    int64
	OccupiedUnits int64
}

// Rate returns the occupied share of units as a percentage
func (s OccupancyStats) Rate() float64 {
	if s.TotalUnits == 0 {
		return 0
	}
	r := float64(s.OccupiedUnits) / float64(s.TotalUnits) * 100
	return math.Round(r*100) / 100
}
