package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"gorm.io/gorm"
)

// QuotationSequence is the yearly counter row behind quotation numbers
type QuotationSequence struct {
	AccountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey"`
	LastValue int       `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (QuotationSequence) TableName() string {
	return "quotation_sequences"
}

// GormSequenceRepository issues quotation numbers. Next is a single
// INSERT ... ON CONFLICT DO UPDATE ... RETURNING so concurrent callers are
// serialized by the row lock of the yearly sequence row.
type GormSequenceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db, now: time.Now}
}

// Next atomically increments and returns the sequence for the year
func (r *GormSequenceRepository) Next(ctx context.Context, accountID uuid.UUID, year int) (int, error) {
	var value int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO quotation_sequences (account_id, year, last_value, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (account_id, year)
		DO UPDATE SET last_value = quotation_sequences.last_value + 1, updated_at = excluded.updated_at
		RETURNING last_value`, accountID, year, r.now()).
		Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// Peek returns the value Next would return without consuming it
func (r *GormSequenceRepository) Peek(ctx context.Context, accountID uuid.UUID, year int) (int, error) {
	var seq QuotationSequence
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND year = ?", accountID, year).
		First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return seq.LastValue + 1, nil
}

// Ensure GormSequenceRepository implements SequenceRepository
var _ quotation.SequenceRepository = (*GormSequenceRepository)(nil)
