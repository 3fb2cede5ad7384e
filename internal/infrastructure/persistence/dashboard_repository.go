package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rentquote/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// SqlxDashboardRepository implements report.DashboardRepository with
// hand-written aggregate queries. Placeholders are written as ? and
// rebound for the driver.
type SqlxDashboardRepository struct {
	db *sqlx.DB
}

// NewSqlxDashboardRepository creates a new SqlxDashboardRepository
func NewSqlxDashboardRepository(db *sqlx.DB) *SqlxDashboardRepository {
	return &SqlxDashboardRepository{db: db}
}

// GetPropertyStats returns property and unit counts
func (r *SqlxDashboardRepository) GetPropertyStats(ctx context.Context, filter report.DashboardFilter) (*report.PropertyStats, error) {
	var stats report.PropertyStats
	query := r.db.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM properties WHERE account_id = ?) AS properties,
			COUNT(u.id) AS units,
			COALESCE(SUM(CASE WHEN u.is_occupied THEN 1 ELSE 0 END), 0) AS occupied_units
		FROM units u
		WHERE u.account_id = ?`)
	if err := r.db.GetContext(ctx, &stats, query, filter.AccountID, filter.AccountID); err != nil {
		return nil, err
	}
	if stats.Units > 0 {
		stats.OccupancyRate = float64(stats.OccupiedUnits) / float64(stats.Units) * 100
	}
	return &stats, nil
}

// GetTenantStats returns tenant counts by status
func (r *SqlxDashboardRepository) GetTenantStats(ctx context.Context, filter report.DashboardFilter) (*report.TenantStats, error) {
	var stats report.TenantStats
	query := r.db.Rebind(`
		SELECT
			COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0) AS active,
			COALESCE(SUM(CASE WHEN status = 'inactive' THEN 1 ELSE 0 END), 0) AS inactive,
			COALESCE(SUM(CASE WHEN status = 'former' THEN 1 ELSE 0 END), 0) AS former
		FROM tenants
		WHERE account_id = ?`)
	if err := r.db.GetContext(ctx, &stats, query, filter.AccountID); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetRentStats returns invoiced and collected rent for the month.
// Cancelled invoices are excluded.
func (r *SqlxDashboardRepository) GetRentStats(ctx context.Context, filter report.DashboardFilter) (*report.RentStats, error) {
	start, next := filter.MonthRange()
	var stats report.RentStats
	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS invoice_count,
			COALESCE(SUM(total_amount), 0) AS invoiced,
			COALESCE(SUM(paid_amount), 0) AS collected,
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN 1 ELSE 0 END), 0) AS overdue_count
		FROM rent_invoices
		WHERE account_id = ? AND status <> 'cancelled' AND invoice_date >= ? AND invoice_date < ?`)
	if err := r.db.GetContext(ctx, &stats, query, filter.AccountID, start, next); err != nil {
		return nil, err
	}
	stats.Month = start.Format("2006-01")
	stats.CollectionRate = decimal.Zero
	if stats.Invoiced.IsPositive() {
		stats.CollectionRate = stats.Collected.Div(stats.Invoiced).Mul(decimal.NewFromInt(100)).Round(2)
	}
	return &stats, nil
}

// GetOutstandingBalance sums the latest positive ledger balance of every
// tenant. Ledger order is transaction date, then creation time, then id.
func (r *SqlxDashboardRepository) GetOutstandingBalance(ctx context.Context, filter report.DashboardFilter) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := r.db.Rebind(`
		SELECT COALESCE(SUM(l.balance), 0)
		FROM tenant_ledgers l
		WHERE l.account_id = ?
			AND l.balance > 0
			AND NOT EXISTS (
				SELECT 1 FROM tenant_ledgers n
				WHERE n.account_id = l.account_id
					AND n.tenant_id = l.tenant_id
					AND (n.transaction_date > l.transaction_date
						OR (n.transaction_date = l.transaction_date AND n.created_at > l.created_at)
						OR (n.transaction_date = l.transaction_date AND n.created_at = l.created_at AND n.id > l.id))
			)`)
	if err := r.db.GetContext(ctx, &total, query, filter.AccountID); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GetQuotationCounts groups quotations by status with their total value
func (r *SqlxDashboardRepository) GetQuotationCounts(ctx context.Context, filter report.DashboardFilter) ([]report.QuotationStatusCount, error) {
	var counts []report.QuotationStatusCount
	query := r.db.Rebind(`
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS value
		FROM quotations
		WHERE account_id = ?
		GROUP BY status
		ORDER BY status`)
	if err := r.db.SelectContext(ctx, &counts, query, filter.AccountID); err != nil {
		return nil, err
	}
	return counts, nil
}

// CountExpiringContracts counts active contracts expiring between AsOf and
// AsOf plus days
func (r *SqlxDashboardRepository) CountExpiringContracts(ctx context.Context, filter report.DashboardFilter, days int) (int64, error) {
	today := filter.AsOf.UTC().Truncate(24 * time.Hour)
	var count int64
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM support_contracts
		WHERE account_id = ? AND status = 'active' AND expiry_date >= ? AND expiry_date <= ?`)
	if err := r.db.GetContext(ctx, &count, query, filter.AccountID, today, today.AddDate(0, 0, days)); err != nil {
		return 0, err
	}
	return count, nil
}

// ListAccountIDs returns every account owning properties or customers
func (r *SqlxDashboardRepository) ListAccountIDs(ctx context.Context) ([]uuid.UUID, error) {
	var raw []string
	if err := r.db.SelectContext(ctx, &raw, `
		SELECT account_id FROM properties
		UNION
		SELECT account_id FROM customers`); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Ensure SqlxDashboardRepository implements report.DashboardRepository
var _ report.DashboardRepository = (*SqlxDashboardRepository)(nil)
