package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var rentInvoiceSort = newSortSpec("invoice_date DESC, invoice_number DESC", "invoice_number", "invoice_date", "due_date", "total_amount", "status")

// GormRentInvoiceRepository implements RentInvoiceRepository using GORM
type GormRentInvoiceRepository struct {
	db *gorm.DB
}

// NewGormRentInvoiceRepository creates a new GormRentInvoiceRepository
func NewGormRentInvoiceRepository(db *gorm.DB) *GormRentInvoiceRepository {
	return &GormRentInvoiceRepository{db: db}
}

// FindByIDForAccount finds an invoice by ID within an account
func (r *GormRentInvoiceRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.RentInvoice, error) {
	var inv billing.RentInvoice
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&inv).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &inv, nil
}

// FindAllForAccount finds invoices matching the filter
func (r *GormRentInvoiceRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.RentInvoice, error) {
	var invoices []billing.RentInvoice
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.RentInvoice{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, rentInvoiceSort).Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CountForAccount counts invoices matching the filter
func (r *GormRentInvoiceRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.RentInvoice{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForUnitMonth reports whether a non-cancelled invoice for the unit is
// dated within the month
func (r *GormRentInvoiceRepository) ExistsForUnitMonth(ctx context.Context, accountID, unitID uuid.UUID, month time.Time) (bool, error) {
	start, next := monthBounds(month)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&billing.RentInvoice{}).
		Where("account_id = ? AND unit_id = ? AND status <> ? AND invoice_date >= ? AND invoice_date < ?",
			accountID, unitID, billing.InvoiceStatusCancelled, start, next).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindOverdueCandidates returns generated or sent invoices due before asOf
func (r *GormRentInvoiceRepository) FindOverdueCandidates(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]billing.RentInvoice, error) {
	var invoices []billing.RentInvoice
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND status IN ? AND due_date < ?",
			accountID, []billing.InvoiceStatus{billing.InvoiceStatusGenerated, billing.InvoiceStatusSent}, asOf).
		Order("due_date ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// Save creates or updates an invoice
func (r *GormRentInvoiceRepository) Save(ctx context.Context, invoice *billing.RentInvoice) error {
	return mapDuplicate(r.db.WithContext(ctx).Save(invoice).Error)
}

// applyFilter applies search and filter options without pagination
func (r *GormRentInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "invoice_number", "notes")
	query = dateRange(query, filter.Filters, "invoice_date")

	for key, value := range filter.Filters {
		switch key {
		case "status":
			if v, ok := filterString(value); ok {
				query = query.Where("status = ?", v)
			}
		case "tenant_id", "unit_id", "property_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where(key+" = ?", id)
			}
		case "lease_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("tenant_unit_id = ?", id)
			}
		case "month":
			if v, ok := filterString(value); ok {
				if month, err := time.Parse("2006-01", v); err == nil {
					start, next := monthBounds(month)
					query = query.Where("invoice_date >= ? AND invoice_date < ?", start, next)
				}
			}
		}
	}

	return query
}

// monthBounds returns the first day of the month and of the next month, UTC
func monthBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Ensure GormRentInvoiceRepository implements RentInvoiceRepository
var _ billing.RentInvoiceRepository = (*GormRentInvoiceRepository)(nil)
