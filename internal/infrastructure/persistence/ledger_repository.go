package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ledgerSort = newSortSpec("transaction_date DESC, created_at DESC", "transaction_date", "debit_amount", "credit_amount", "balance")

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByIDForAccount finds an entry by ID within an account
func (r *GormLedgerRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.LedgerEntry, error) {
	var e billing.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&e).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &e, nil
}

// FindAllForAccount finds entries matching the filter
func (r *GormLedgerRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.LedgerEntry, error) {
	var entries []billing.LedgerEntry
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.LedgerEntry{}).Where("account_id = ?", accountID), filter)
	if err := paginate(query, filter, ledgerSort).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountForAccount counts entries matching the filter
func (r *GormLedgerRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.LedgerEntry{}).Where("account_id = ?", accountID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByTenant returns every entry of the tenant in ledger order
func (r *GormLedgerRepository) FindByTenant(ctx context.Context, accountID, tenantID uuid.UUID) ([]billing.LedgerEntry, error) {
	var entries []billing.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND tenant_id = ?", accountID, tenantID).
		Order("transaction_date ASC, created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindTenantIDs lists tenants with at least one entry
func (r *GormLedgerRepository) FindTenantIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&billing.LedgerEntry{}).
		Where("account_id = ?", accountID).
		Distinct().
		Pluck("tenant_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Save creates or updates an entry
func (r *GormLedgerRepository) Save(ctx context.Context, entry *billing.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// DeleteForAccount deletes an entry within an account
func (r *GormLedgerRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return deleteResult(r.db.WithContext(ctx).Delete(&billing.LedgerEntry{}, "account_id = ? AND id = ?", accountID, id))
}

// UpdateBalances persists the Balance column of the given entries in one
// transaction
func (r *GormLedgerRepository) UpdateBalances(ctx context.Context, entries []billing.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Model(&billing.LedgerEntry{}).
				Where("id = ?", entries[i].ID).
				Update("balance", entries[i].Balance).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LockTenant takes SELECT ... FOR UPDATE on the tenant row. SQLite has no
// row locks and serializes writers on its own, so it is skipped there.
func (r *GormLedgerRepository) LockTenant(ctx context.Context, accountID, tenantID uuid.UUID) error {
	if r.db.Dialector.Name() != DriverPostgres {
		return nil
	}
	var ids []uuid.UUID
	return r.db.WithContext(ctx).
		Model(&property.Tenant{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND id = ?", accountID, tenantID).
		Pluck("id", &ids).Error
}

// applyFilter applies search and filter options without pagination
func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = search(query, filter.Search, "description", "reference_no")
	query = dateRange(query, filter.Filters, "transaction_date")

	for key, value := range filter.Filters {
		switch key {
		case "tenant_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("tenant_id = ?", id)
			}
		case "lease_id":
			if id, ok := filterUUID(value); ok {
				query = query.Where("tenant_unit_id = ?", id)
			}
		case "payment_type", "transaction_type":
			if v, ok := filterString(value); ok {
				query = query.Where(key+" = ?", v)
			}
		case "balance_status":
			if v, ok := filterString(value); ok {
				switch v {
				case "positive":
					query = query.Where("balance > 0")
				case "negative":
					query = query.Where("balance < 0")
				case "zero":
					query = query.Where("balance = 0")
				}
			}
		}
	}

	return query
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ billing.LedgerRepository = (*GormLedgerRepository)(nil)
