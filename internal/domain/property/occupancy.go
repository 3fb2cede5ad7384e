package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// OccupancyAction is the kind of occupancy change recorded
type OccupancyAction string

const (
	OccupancyMoveIn  OccupancyAction = "move_in"
	OccupancyMoveOut OccupancyAction = "move_out"
)

// OccupancyHistory is an append-only record of tenants entering and
// leaving a unit
type OccupancyHistory struct {
	shared.BaseEntity
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UnitID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	LeaseID   uuid.UUID       `gorm:"type:uuid;not null"`
	Action    OccupancyAction `gorm:"type:varchar(20);not null"`
	Date      time.Time       `gorm:"column:action_date;type:date;not null"`
	Notes     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OccupancyHistory) TableName() string {
	return "unit_occupancy_history"
}

// NewMoveIn records the start of a lease
func NewMoveIn(l *Lease) *OccupancyHistory {
	return &OccupancyHistory{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  l.AccountID,
		UnitID:     l.UnitID,
		TenantID:   l.TenantID,
		LeaseID:    l.ID,
		Action:     OccupancyMoveIn,
		Date:       l.LeaseStart,
	}
}

// NewMoveOut records the end of a lease
func NewMoveOut(l *Lease, notes string) *OccupancyHistory {
	date := time.Now()
	if l.MoveOutDate != nil {
		date = *l.MoveOutDate
	}
	return &OccupancyHistory{
		BaseEntity: shared.NewBaseEntity(),
		AccountID:  l.AccountID,
		UnitID:     l.UnitID,
		TenantID:   l.TenantID,
		LeaseID:    l.ID,
		Action:     OccupancyMoveOut,
		Date:       date,
		Notes:      notes,
	}
}
