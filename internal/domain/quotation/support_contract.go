package quotation

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// ExpiringSoonDays is the window in which an active contract is flagged
const ExpiringSoonDays = 30

// ContractStatus is the state of a support contract
type ContractStatus string

const (
	ContractStatusActive           ContractStatus = "active"
	ContractStatusExpired          ContractStatus = "expired"
	ContractStatusManuallyInactive ContractStatus = "manually_inactive"
)

// IsValid reports whether s is a known contract status
func (s ContractStatus) IsValid() bool {
	return s == ContractStatusActive || s == ContractStatusExpired || s == ContractStatusManuallyInactive
}

// StatusColor is the traffic-light hint shown next to a contract
type StatusColor string

const (
	ColorGreen StatusColor = "green"
	ColorAmber StatusColor = "amber"
	ColorRed   StatusColor = "red"
	ColorGrey  StatusColor = "grey"
)

// SupportContract tracks a maintenance or support agreement with a customer
type SupportContract struct {
	shared.AccountAggregateRoot
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	ContractType   string            `gorm:"type:varchar(100);not null"`
	ContractNumber string            `gorm:"type:varchar(100);not null;uniqueIndex:idx_contract_account_number"`
	Products       shared.StringList `gorm:"type:text"`
	StartDate      time.Time         `gorm:"type:date;not null"`
	ExpiryDate     time.Time         `gorm:"type:date;not null;index"`
	Status         ContractStatus    `gorm:"type:varchar(30);not null;default:'active';index"`
	Notes          string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SupportContract) TableName() string {
	return "support_contracts"
}

// NewSupportContract creates an active contract
func NewSupportContract(accountID, customerID uuid.UUID, contractType, number string, start, expiry time.Time) (*SupportContract, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	c := &SupportContract{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		CustomerID:           customerID,
		Status:               ContractStatusActive,
		Products:             shared.StringList{},
	}
	if err := c.Update(contractType, number, nil, start, expiry, ""); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the contract terms
func (c *SupportContract) Update(contractType, number string, products []string, start, expiry time.Time, notes string) error {
	contractType = strings.TrimSpace(contractType)
	number = strings.TrimSpace(number)
	if contractType == "" {
		return shared.NewDomainError("INVALID_CONTRACT_TYPE", "Contract type cannot be empty")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_CONTRACT_NUMBER", "Contract number cannot be empty")
	}
	if !expiry.After(start) {
		return ErrInvalidContractDate
	}
	c.ContractType = contractType
	c.ContractNumber = number
	if products != nil {
		c.Products = shared.StringList(products)
	}
	c.StartDate = start
	c.ExpiryDate = expiry
	c.Notes = notes
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// DaysUntilExpiry returns whole days between today and the expiry date;
// negative once the contract has lapsed.
func (c *SupportContract) DaysUntilExpiry(now time.Time) int {
	return daysBetween(now, c.ExpiryDate)
}

// IsExpiringSoon reports whether an active contract expires within the window
func (c *SupportContract) IsExpiringSoon(now time.Time) bool {
	if c.Status != ContractStatusActive {
		return false
	}
	d := c.DaysUntilExpiry(now)
	return d >= 0 && d <= ExpiringSoonDays
}

// StatusColor returns green for healthy, amber for expiring soon, red for
// expired and grey for manually deactivated contracts.
func (c *SupportContract) StatusColor(now time.Time) StatusColor {
	switch {
	case c.Status == ContractStatusManuallyInactive:
		return ColorGrey
	case c.Status == ContractStatusExpired || c.DaysUntilExpiry(now) < 0:
		return ColorRed
	case c.IsExpiringSoon(now):
		return ColorAmber
	default:
		return ColorGreen
	}
}

// ExpireIfDue moves an active contract past its expiry date to expired.
// It reports whether the status changed.
func (c *SupportContract) ExpireIfDue(now time.Time) bool {
	if c.Status != ContractStatusActive || c.DaysUntilExpiry(now) >= 0 {
		return false
	}
	c.Status = ContractStatusExpired
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewContractExpiredEvent(c))
	return true
}

// Deactivate marks the contract manually inactive
func (c *SupportContract) Deactivate() error {
	if c.Status == ContractStatusManuallyInactive {
		return ErrContractState
	}
	c.Status = ContractStatusManuallyInactive
	c.UpdatedAt = time.Now()
	return nil
}

// Reactivate restores a manually deactivated contract. It comes back as
// expired when the expiry date has already passed.
func (c *SupportContract) Reactivate(now time.Time) error {
	if c.Status != ContractStatusManuallyInactive {
		return ErrContractState
	}
	c.Status = ContractStatusActive
	c.UpdatedAt = time.Now()
	c.ExpireIfDue(now)
	return nil
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Round(t.Sub(f).Hours() / 24))
}
