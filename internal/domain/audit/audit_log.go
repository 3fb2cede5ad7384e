package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// Log is an append-only record of a domain event
type Log struct {
	shared.BaseEntity
	AccountID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID        *uuid.UUID `gorm:"type:uuid;index"`
	EventID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string     `gorm:"type:varchar(100);not null;index"`
	AggregateType string     `gorm:"type:varchar(100);not null;index"`
	AggregateID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Payload       string     `gorm:"type:text"`
	OccurredAt    time.Time  `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (Log) TableName() string {
	return "audit_logs"
}

// FromEvent snapshots a domain event. The payload is the JSON encoding of
// the event.
func FromEvent(event shared.DomainEvent, userID *uuid.UUID) (*Log, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &Log{
		BaseEntity:    shared.NewBaseEntity(),
		AccountID:     event.AccountID(),
		UserID:        userID,
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		Payload:       string(payload),
		OccurredAt:    event.OccurredAt(),
	}, nil
}
