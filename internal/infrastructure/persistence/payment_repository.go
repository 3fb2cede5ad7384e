package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var paymentSort = newSortSpec("created_at DESC", "transaction_date", "amount", "status", "payment_type")

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByIDForAccount finds a payment by ID within an account
func (r *GormPaymentRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.Payment, error) {
	var p billing.Payment
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&p).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// FindAllForAccount finds payments matching the filter
func (r *GormPaymentRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	var payments []billing.Payment
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Payment{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, paymentSort).Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// CountForAccount counts payments matching the filter
func (r *GormPaymentRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Payment{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summary totals captured income against captured outgoing payments whose
// transaction date falls within [from, to]. Nil bounds are open.
func (r *GormPaymentRepository) Summary(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (*billing.PaymentSummary, error) {
	var rows []struct {
		FlowDirection billing.Direction
		Total         decimal.NullDecimal
	}
	query := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Select("flow_direction, SUM(amount) AS total").
		Where("account_id = ? AND status IN ?", accountID,
			[]billing.PaymentStatus{billing.PaymentStatusCompleted, billing.PaymentStatusPartial})
	if from != nil {
		query = query.Where("transaction_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("transaction_date <= ?", *to)
	}
	if err := query.Group("flow_direction").Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := &billing.PaymentSummary{TotalIncome: decimal.Zero, TotalOutgoing: decimal.Zero}
	for _, row := range rows {
		if !row.Total.Valid {
			continue
		}
		switch row.FlowDirection {
		case billing.DirectionIncome:
			summary.TotalIncome = shared.RoundMoney(row.Total.Decimal)
		case billing.DirectionOutgoing:
			summary.TotalOutgoing = shared.RoundMoney(row.Total.Decimal)
		}
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalOutgoing)

	if err := r.db.WithContext(ctx).
		Model(&billing.Payment{}).
		Where("account_id = ? AND status IN ?", accountID,
			[]billing.PaymentStatus{billing.PaymentStatusPending, billing.PaymentStatusScheduled}).
		Count(&summary.PendingCount).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// Save creates or updates a payment
func (r *GormPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// applyFilter applies search and filter options without pagination
func (r *GormPaymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "reference_number", "receipt_number", "description")
	query = dateRange(query, filter.Filters, "transaction_date")

	for key, value := range filter.Filters {
		switch key {
		case "payment_type", "status":
			if v, ok := filterString(value); ok {
				query = query.Where(key+" = ?", v)
			}
		case "direction", "flow_direction":
			if v, ok := filterString(value); ok {
				query = query.Where("flow_direction = ?", v)
			}
		case "tenant_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("tenant_id = ?", id)
			}
		case "lease_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("tenant_unit_id = ?", id)
			}
		}
	}

	return query
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ billing.PaymentRepository = (*GormPaymentRepository)(nil)
