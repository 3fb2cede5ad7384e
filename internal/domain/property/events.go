package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeLease = "Lease"

// Event type constants
const (
	EventTypeLeaseStarted = "LeaseStarted"
	EventTypeLeaseEnded   = "LeaseEnded"
)

// LeaseStartedEvent is published when a tenant moves into a unit
type LeaseStartedEvent struct {
	shared.BaseDomainEvent
	LeaseID     uuid.UUID       `json:"lease_id"`
	TenantID    uuid.UUID       `json:"tenant_id"`
	UnitID      uuid.UUID       `json:"unit_id"`
	LeaseStart  time.Time       `json:"lease_start"`
	MonthlyRent decimal.Decimal `json:"monthly_rent"`
}

// NewLeaseStartedEvent creates a new LeaseStartedEvent
func NewLeaseStartedEvent(l *Lease) *LeaseStartedEvent {
	return &LeaseStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseStarted, AggregateTypeLease, l.ID, l.AccountID),
		LeaseID:         l.ID,
		TenantID:        l.TenantID,
		UnitID:          l.UnitID,
		LeaseStart:      l.LeaseStart,
		MonthlyRent:     l.MonthlyRent,
	}
}

// LeaseEndedEvent is published when a tenant moves out
type LeaseEndedEvent struct {
	shared.BaseDomainEvent
	LeaseID     uuid.UUID `json:"lease_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	UnitID      uuid.UUID `json:"unit_id"`
	MoveOutDate time.Time `json:"move_out_date"`
	Reason      string    `json:"reason"`
}

// NewLeaseEndedEvent creates a new LeaseEndedEvent
func NewLeaseEndedEvent(l *Lease, reason string) *LeaseEndedEvent {
	var moveOut time.Time
	if l.MoveOutDate != nil {
		moveOut = *l.MoveOutDate
	}
	return &LeaseEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLeaseEnded, AggregateTypeLease, l.ID, l.AccountID),
		LeaseID:         l.ID,
		TenantID:        l.TenantID,
		UnitID:          l.UnitID,
		MoveOutDate:     moveOut,
		Reason:          reason,
	}
}
