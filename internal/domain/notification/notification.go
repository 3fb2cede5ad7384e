package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// Type classifies notifications; the list is open so new producers can
// add their own.
type Type string

const (
	TypeRentDue          Type = "rent_due"
	TypeRentInvoice      Type = "rent_invoice"
	TypePaymentReceived  Type = "payment_received"
	TypeLeaseEnded       Type = "lease_ended"
	TypeContractExpiring Type = "contract_expiring"
	TypeContractExpired  Type = "contract_expired"
	TypeSystem           Type = "system"
)

// Priority orders notifications in the inbox
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Channel is a delivery medium selection
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelTelegram Channel = "telegram"
	ChannelAll      Channel = "all"
	ChannelNone     Channel = "none"
)

// IsValid reports whether c is a known channel selection
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelTelegram, ChannelAll, ChannelNone:
		return true
	}
	return false
}

// Targets expands the selection into concrete channels
func (c Channel) Targets() []Channel {
	switch c {
	case ChannelAll:
		return []Channel{ChannelEmail, ChannelSMS, ChannelTelegram}
	case ChannelEmail, ChannelSMS, ChannelTelegram:
		return []Channel{c}
	}
	return nil
}

// Metadata carries routing hints and template data for a notification
type Metadata map[string]any

// String returns the value under key as a string, or ""
func (m Metadata) String(key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// UUID parses the value under key as a UUID
func (m Metadata) UUID(key string) (uuid.UUID, bool) {
	id, err := uuid.Parse(m.String(key))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Scan implements the sql.Scanner interface
func (m *Metadata) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("notification: cannot scan type %T into Metadata", value)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, m)
}

// Value implements the driver.Valuer interface
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Metadata keys used for recipient resolution
const (
	MetaEmail          = "email"
	MetaPhone          = "phone"
	MetaTenantID       = "tenant_id"
	MetaLeaseID        = "lease_id"
	MetaTelegramChatID = "telegram_chat_id"
)

// Notification is an in-app message optionally delivered over channels
type Notification struct {
	shared.AccountAggregateRoot
	Type      Type       `gorm:"type:varchar(50);not null;index"`
	Title     string     `gorm:"type:varchar(255);not null"`
	Message   string     `gorm:"type:text;not null"`
	Priority  Priority   `gorm:"type:varchar(10);not null;default:'normal';index"`
	ActionURL string     `gorm:"type:varchar(500)"`
	ExpiresAt *time.Time `gorm:"index"`
	SentVia   Channel    `gorm:"type:varchar(10);not null;default:'none'"`
	IsRead    bool       `gorm:"not null;default:false;index"`
	ReadAt    *time.Time `gorm:"column:read_at"`
	Metadata  Metadata   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(accountID uuid.UUID, notifType Type, title, message string, priority Priority, via Channel) (*Notification, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Notification message cannot be empty")
	}
	if strings.TrimSpace(string(notifType)) == "" {
		return nil, shared.NewDomainError("INVALID_TYPE", "Notification type is required")
	}
	if priority == "" {
		priority = PriorityNormal
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Priority must be low, normal, high or urgent")
	}
	if via == "" {
		via = ChannelNone
	}
	if !via.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "sent_via must be email, sms, telegram, all or none")
	}

	n := &Notification{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		Type:                 notifType,
		Title:                title,
		Message:              message,
		Priority:             priority,
		SentVia:              via,
		Metadata:             Metadata{},
	}
	return n, nil
}

// WithMetadata merges routing hints into the notification
func (n *Notification) WithMetadata(md Metadata) *Notification {
	if n.Metadata == nil {
		n.Metadata = Metadata{}
	}
	for k, v := range md {
		n.Metadata[k] = v
	}
	return n
}

// MarkRead flags the notification as read; it is idempotent
func (n *Notification) MarkRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.ReadAt = &at
	n.UpdatedAt = time.Now()
}

// IsExpired reports whether the notification has passed its expiry
func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}
