package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var notificationSort = newSortSpec("created_at DESC", "priority", "type", "is_read")

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db, now: time.Now}
}

// FindByIDForAccount finds a notification by ID within an account
func (r *GormNotificationRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&n).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &n, nil
}

// FindAllForAccount lists notifications, hiding expired ones unless the
// include_expired filter is set
func (r *GormNotificationRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var items []notification.Notification
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, notificationSort).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountForAccount counts notifications matching the filter
func (r *GormNotificationRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&notification.Notification{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnread counts unread, unexpired notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, accountID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllRead marks every unread notification read and returns how many
// changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, accountID uuid.UUID, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("account_id = ? AND is_read = ?", accountID, false).
		Updates(map[string]any{"is_read": true, "read_at": at, "updated_at": at})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// DeleteForAccount deletes a notification within an account
func (r *GormNotificationRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&notification.Notification{}, "account_id = ? AND id = ?", accountID, id))
}

// applyFilter applies search and filter options without pagination
func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "title", "message")

	includeExpired := false
	for key, value := range filter.Filters {
		switch key {
		case "type", "priority":
			if v, ok := filterString(value); ok {
				query = query.Where(key+" = ?", v)
			}
		case "is_read":
			if v, ok := filterBool(value); ok {
				query = query.Where("is_read = ?", v)
			}
		case "include_expired":
			if v, ok := filterBool(value); ok {
				includeExpired = v
			}
		}
	}
	if !includeExpired {
		query = query.Where("expires_at IS NULL OR expires_at > ?", r.now())
	}

	return query
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
