package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/report"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var errInvalidMonth = shared.NewDomainError("INVALID_MONTH", "month must be formatted as YYYY-MM")

// DashboardRequest is the query of the dashboard endpoint
type DashboardRequest struct {
	Month string `form:"month"` // YYYY-MM, defaults to the current month
}

// DashboardService assembles the statistics page of an account
type DashboardService struct {
	repo report.DashboardRepository
	now  func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo, now: time.Now}
}

// Dashboard returns the dashboard for the requested month
func (s *DashboardService) Dashboard(ctx context.Context, accountID uuid.UUID, req DashboardRequest) (*report.Dashboard, error) {
	now := s.now().UTC()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if req.Month != "" {
		parsed, err := time.Parse("2006-01", req.Month)
		if err != nil {
			return nil, errInvalidMonth
		}
		month = parsed
	}
	filter := report.DashboardFilter{AccountID: accountID, Month: month, AsOf: now}

	properties, err := s.repo.GetPropertyStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	tenants, err := s.repo.GetTenantStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	rent, err := s.repo.GetRentStats(ctx, filter)
	if err != nil {
		return nil, err
	}
	rent.Month = month.Format("2006-01")
	outstanding, err := s.repo.GetOutstandingBalance(ctx, filter)
	if err != nil {
		return nil, err
	}
	quotations, err := s.repo.GetQuotationCounts(ctx, filter)
	if err != nil {
		return nil, err
	}
	expiring, err := s.repo.CountExpiringContracts(ctx, filter, quotation.ExpiringSoonDays)
	if err != nil {
		return nil, err
	}

	accepted := decimal.Zero
	for _, q := range quotations {
		if q.Status == string(quotation.StatusAccepted) {
			accepted = accepted.Add(q.Value)
		}
	}
	if quotations == nil {
		quotations = []report.QuotationStatusCount{}
	}

	return &report.Dashboard{
		GeneratedAt:        now,
		Properties:         *properties,
		Tenants:            *tenants,
		Rent:               *rent,
		OutstandingBalance: outstanding,
		Quotations:         quotations,
		AcceptedValue:      accepted,
		ExpiringContracts:  expiring,
	}, nil
}
