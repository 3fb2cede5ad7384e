package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// DocumentNumber is one issued billing document number. The unique index
// on (account_id, document_type, number) arbitrates concurrent issuers.
type DocumentNumber struct {
	ID           uuid.UUID            `gorm:"type:uuid;primaryKey"`
	AccountID    uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_document_number,priority:1"`
	DocumentType billing.DocumentType `gorm:"type:varchar(40);not null;uniqueIndex:idx_document_number,priority:2"`
	Number       string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_document_number,priority:3"`
	Sequence     int                  `gorm:"not null"`
	CreatedAt    time.Time
}

// TableName returns the table name for GORM
func (DocumentNumber) TableName() string {
	return "document_numbers"
}

// GormNumberRegistry implements billing.NumberRegistry using GORM
type GormNumberRegistry struct {
	db *gorm.DB
}

// NewGormNumberRegistry creates a new GormNumberRegistry
func NewGormNumberRegistry(db *gorm.DB) *GormNumberRegistry {
	return &GormNumberRegistry{db: db}
}

// MaxSequence returns the highest sequence issued under periodPrefix, 0 if none
func (r *GormNumberRegistry) MaxSequence(ctx context.Context, accountID uuid.UUID, docType billing.DocumentType, periodPrefix string) (int, error) {
	var max sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&DocumentNumber{}).
		Select("MAX(sequence)").
		Where("account_id = ? AND document_type = ? AND number LIKE ? ESCAPE '\\'",
			accountID, docType, escapeLike(periodPrefix)+"%").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return int(max.Int64), nil
}

// Exists reports whether number was already issued
func (r *GormNumberRegistry) Exists(ctx context.Context, accountID uuid.UUID, docType billing.DocumentType, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&DocumentNumber{}).
		Where("account_id = ? AND document_type = ? AND number = ?", accountID, docType, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Reserve records number as issued. A concurrent reservation of the same
// number returns shared.ErrAlreadyExists.
func (r *GormNumberRegistry) Reserve(ctx context.Context, accountID uuid.UUID, docType billing.DocumentType, number string) error {
	seq, _ := billing.ParseSequence(number)
	row := &DocumentNumber{
		ID:           uuid.New(),
		AccountID:    accountID,
		DocumentType: docType,
		Number:       number,
		Sequence:     seq,
	}
	return mapDuplicate(r.db.WithContext(ctx).Create(row).Error)
}

// Ensure GormNumberRegistry implements NumberRegistry
var _ billing.NumberRegistry = (*GormNumberRegistry)(nil)
