package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LeaseStatus is the lifecycle state of a lease
type LeaseStatus string

const (
	LeaseStatusActive    LeaseStatus = "active"
	LeaseStatusEnded     LeaseStatus = "ended"
	LeaseStatusCancelled LeaseStatus = "cancelled"
)

// IsValid reports whether s is a known lease status
func (s LeaseStatus) IsValid() bool {
	return s == LeaseStatusActive || s == LeaseStatusEnded || s == LeaseStatusCancelled
}

// Lease binds a tenant to a unit for a period at a monthly rent
type Lease struct {
	shared.AccountAggregateRoot
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeaseStart          time.Time       `gorm:"type:date;not null"`
	LeaseEnd            *time.Time      `gorm:"type:date"`
	MonthlyRent         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Currency            string          `gorm:"type:varchar(3);not null;default:'MVR'"`
	SecurityDepositPaid decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	AdvanceRentMonths   int             `gorm:"not null;default:0"`
	AdvanceRentAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	NoticePeriodDays    int             `gorm:"not null;default:30"`
	LockInMonths        int             `gorm:"not null;default:0"`
	Status              LeaseStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
	MoveOutDate         *time.Time      `gorm:"type:date"`
	Notes               string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Lease) TableName() string {
	return "tenant_units"
}

// LeaseTerms are the negotiable fields of a lease
type LeaseTerms struct {
	LeaseStart          time.Time
	LeaseEnd            *time.Time
	MonthlyRent         decimal.Decimal
	Currency            string
	SecurityDepositPaid decimal.Decimal
	AdvanceRentMonths   int
	NoticePeriodDays    int
	LockInMonths        int
	Notes               string
}

// NewLease creates an active lease and records LeaseStarted. The caller
// must have checked that the unit has no other active lease.
func NewLease(accountID, tenantID, unitID uuid.UUID, terms LeaseTerms) (*Lease, error) {
	if tenantID == uuid.Nil || unitID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LEASE", "Tenant and unit are required")
	}
	l := &Lease{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		TenantID:             tenantID,
		UnitID:               unitID,
		Status:               LeaseStatusActive,
	}
	if err := l.ApplyTerms(terms); err != nil {
		return nil, err
	}
	l.AddDomainEvent(NewLeaseStartedEvent(l))
	return l, nil
}

// ApplyTerms validates and sets the lease terms
func (l *Lease) ApplyTerms(terms LeaseTerms) error {
	if terms.LeaseStart.IsZero() {
		return shared.NewDomainError("INVALID_LEASE_START", "Lease start date is required")
	}
	if terms.LeaseEnd != nil && terms.LeaseEnd.Before(terms.LeaseStart) {
		return ErrInvalidLeasePeriod
	}
	if !terms.MonthlyRent.IsPositive() {
		return shared.NewDomainError("INVALID_RENT", "Monthly rent must be greater than zero")
	}
	if terms.SecurityDepositPaid.IsNegative() {
		return shared.NewDomainError("INVALID_DEPOSIT", "Security deposit cannot be negative")
	}
	if terms.AdvanceRentMonths < 0 || terms.NoticePeriodDays < 0 || terms.LockInMonths < 0 {
		return shared.NewDomainError("INVALID_LEASE_TERMS", "Lease periods cannot be negative")
	}
	cur, err := shared.NormalizeCurrency(terms.Currency, DefaultRentCurrency)
	if err != nil {
		return err
	}

	l.LeaseStart = terms.LeaseStart
	l.LeaseEnd = terms.LeaseEnd
	l.MonthlyRent = terms.MonthlyRent
	l.Currency = cur
	l.SecurityDepositPaid = terms.SecurityDepositPaid
	l.AdvanceRentMonths = terms.AdvanceRentMonths
	l.AdvanceRentAmount = terms.MonthlyRent.Mul(decimal.NewFromInt(int64(terms.AdvanceRentMonths)))
	l.NoticePeriodDays = terms.NoticePeriodDays
	l.LockInMonths = terms.LockInMonths
	l.Notes = terms.Notes
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// End closes the lease on moveOut. lease_end moves earlier when the tenant
// leaves before the agreed end. The move-out date may not precede the start.
func (l *Lease) End(moveOut time.Time, reason string) error {
	if l.Status != LeaseStatusActive {
		return ErrLeaseNotActive
	}
	if moveOut.Before(l.LeaseStart) {
		return ErrInvalidLeasePeriod
	}

	l.Status = LeaseStatusEnded
	l.MoveOutDate = &moveOut
	if l.LeaseEnd == nil || moveOut.Before(*l.LeaseEnd) {
		end := moveOut
		l.LeaseEnd = &end
	}
	if reason = strings.TrimSpace(reason); reason != "" {
		if l.Notes != "" {
			l.Notes += "\n"
		}
		l.Notes += "Move-out: " + reason
	}
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	l.AddDomainEvent(NewLeaseEndedEvent(l, reason))
	return nil
}

// Cancel voids a lease that never took effect
func (l *Lease) Cancel() error {
	if l.Status != LeaseStatusActive {
		return ErrLeaseNotActive
	}
	l.Status = LeaseStatusCancelled
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}

// CoversMonth reports whether the lease overlaps the calendar month that
// contains monthStart
func (l *Lease) CoversMonth(monthStart time.Time) bool {
	first := time.Date(monthStart.Year(), monthStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	if dateOnly(l.LeaseStart).After(last) {
		return false
	}
	return l.LeaseEnd == nil || !dateOnly(*l.LeaseEnd).Before(first)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
