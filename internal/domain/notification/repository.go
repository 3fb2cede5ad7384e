package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// Repository defines the interface for notification persistence
type Repository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Notification, error)

	// FindAllForAccount supports filters: type, priority, is_read,
	// include_expired. Expired notifications are hidden unless asked.
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	CountUnread(ctx context.Context, accountID uuid.UUID, now time.Time) (int64, error)
	MarkAllRead(ctx context.Context, accountID uuid.UUID, at time.Time) (int64, error)
	Save(ctx context.Context, n *Notification) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}
