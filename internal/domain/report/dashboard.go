package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardFilter selects the account and month a dashboard covers
type DashboardFilter struct {
	AccountID uuid.UUID
	Month     time.Time // any day within the month
	AsOf      time.Time // reference date for expiry windows
}

// MonthRange returns the first day of the month and the first day of the next
func (f DashboardFilter) MonthRange() (time.Time, time.Time) {
	start := time.Date(f.Month.Year(), f.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PropertyStats is a read model for portfolio occupancy
type PropertyStats struct {
	Properties    int64   `json:"properties" db:"properties"`
	Units         int64   `json:"units" db:"units"`
	OccupiedUnits int64   `json:"occupied_units" db:"occupied_units"`
	OccupancyRate float64 `json:"occupancy_rate" db:"-"` // OccupiedUnits / Units * 100
}

// TenantStats counts tenants by status
type TenantStats struct {
	Active   int64 `json:"active" db:"active"`
	Inactive int64 `json:"inactive" db:"inactive"`
	Former   int64 `json:"former" db:"former"`
}

// RentStats compares rent invoiced with rent collected for a month
type RentStats struct {
	Month          string          `json:"month" db:"-"`
	InvoiceCount   int64           `json:"invoice_count" db:"invoice_count"`
	Invoiced       decimal.Decimal `json:"invoiced" db:"invoiced"`
	Collected      decimal.Decimal `json:"collected" db:"collected"`
	OverdueCount   int64           `json:"overdue_count" db:"overdue_count"`
	CollectionRate decimal.Decimal `json:"collection_rate" db:"-"` // Collected / Invoiced * 100
}

// QuotationStatusCount is the number of quotations in one status
type QuotationStatusCount struct {
	Status string          `json:"status" db:"status"`
	Count  int64           `json:"count" db:"count"`
	Value  decimal.Decimal `json:"value" db:"value"`
}

// Dashboard is the combined statistics page of an account
type Dashboard struct {
	GeneratedAt        time.Time              `json:"generated_at"`
	Properties         PropertyStats          `json:"properties"`
	Tenants            TenantStats            `json:"tenants"`
	Rent               RentStats              `json:"rent"`
	OutstandingBalance decimal.Decimal        `json:"outstanding_balance"`
	Quotations         []QuotationStatusCount `json:"quotations"`
	AcceptedValue      decimal.Decimal        `json:"accepted_value"`
	ExpiringContracts  int64                  `json:"expiring_contracts"`
}

// DashboardRepository defines the interface for dashboard queries
type DashboardRepository interface {
	// GetPropertyStats returns property and unit counts
	GetPropertyStats(ctx context.Context, filter DashboardFilter) (*PropertyStats, error)

	// GetTenantStats returns tenant counts by status
	GetTenantStats(ctx context.Context, filter DashboardFilter) (*TenantStats, error)

	// GetRentStats returns invoiced and collected rent for the month
	GetRentStats(ctx context.Context, filter DashboardFilter) (*RentStats, error)

	// GetOutstandingBalance sums the latest ledger balance of every tenant
	GetOutstandingBalance(ctx context.Context, filter DashboardFilter) (decimal.Decimal, error)

	// GetQuotationCounts groups quotations by status with their total value
	GetQuotationCounts(ctx context.Context, filter DashboardFilter) ([]QuotationStatusCount, error)

	// CountExpiringContracts counts active contracts expiring within days
	CountExpiringContracts(ctx context.Context, filter DashboardFilter, days int) (int64, error)

	// ListAccountIDs returns every account owning properties or customers
	ListAccountIDs(ctx context.Context) ([]uuid.UUID, error)
}
