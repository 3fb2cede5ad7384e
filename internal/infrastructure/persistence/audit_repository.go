package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/audit"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var auditSort = newSortSpec("occurred_at DESC", "occurred_at", "event_type", "aggregate_type")

// GormAuditRepository implements audit.Repository using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores a log entry. Redelivered events with a known event ID are
// ignored.
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Log) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(entry).Error
}

// FindAllForAccount lists log entries matching the filter
func (r *GormAuditRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	var logs []audit.Log
	query := r.applyFilter(r.db.WithContext(ctx).Model(&audit.Log{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, auditSort).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// CountForAccount counts log entries matching the filter
func (r *GormAuditRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&audit.Log{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = dateRange(query, filter.Filters, "occurred_at")

	for key, value := range filter.Filters {
		switch key {
		case "event_type", "aggregate_type":
			if v, ok := filterString(value); ok {
				query = query.Where(key+" = ?", v)
			}
		case "aggregate_id", "user_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where(key+" = ?", id)
			}
		}
	}

	return query
}

var _ audit.Repository = (*GormAuditRepository)(nil)
