package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// Repository stores audit logs
type Repository interface {
	Append(ctx context.Context, entry *Log) error

	// FindAllForAccount supports filters: event_type, aggregate_type,
	// aggregate_id, date_from, date_to
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Log, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
}
