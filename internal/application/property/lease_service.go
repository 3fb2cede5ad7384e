package property

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultNoticePeriodDays = 30

var (
	errInvalidTenant     = shared.NewDomainError("INVALID_TENANT", "Tenant not found")
	errInvalidUnit       = shared.NewDomainError("INVALID_UNIT", "Unit not found")
	errUnitInMaintenance = shared.NewDomainError("UNIT_UNDER_MAINTENANCE", "Unit is under maintenance and cannot be leased")
	errFutureMoveOut     = shared.NewDomainError("INVALID_MOVE_OUT_DATE", "Move-out date cannot be in the future")
)

// LeaseService handles leases and keeps unit occupancy, tenant status and
// occupancy history in step with them
type LeaseService struct {
	leaseRepo      property.LeaseRepository
	unitRepo       property.UnitRepository
	tenantRepo     property.TenantRepository
	occupancyRepo  property.OccupancyRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewLeaseService creates a new LeaseService. Writes that span the lease,
// its unit, its tenant and the occupancy log run inside txScope; a nil scope
// falls back to running them directly on the given repositories.
func NewLeaseService(
	leaseRepo property.LeaseRepository,
	unitRepo property.UnitRepository,
	tenantRepo property.TenantRepository,
	occupancyRepo property.OccupancyRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *LeaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if txScope == nil {
		txScope = NewNoOpTransactionScope(leaseRepo, unitRepo, tenantRepo, occupancyRepo)
	}
	return &LeaseService{
		leaseRepo:     leaseRepo,
		unitRepo:      unitRepo,
		tenantRepo:    tenantRepo,
		occupancyRepo: occupancyRepo,
		txScope:       txScope,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LeaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create rents a vacant unit to a tenant. The unit becomes occupied, the
// tenant becomes active and a move-in is recorded.
func (s *LeaseService) Create(ctx context.Context, accountID uuid.UUID, req CreateLeaseRequest) (*LeaseResponse, error) {
	tenant, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, req.TenantID)
	if err != nil {
		return nil, notFoundAs(err, errInvalidTenant)
	}
	unit, err := s.unitRepo.FindByIDForAccount(ctx, accountID, req.UnitID)
	if err != nil {
		return nil, notFoundAs(err, errInvalidUnit)
	}
	if unit.Status == property.UnitStatusMaintenance {
		return nil, errUnitInMaintenance
	}
	terms := property.LeaseTerms{
		LeaseStart:          req.LeaseStart,
		LeaseEnd:            req.LeaseEnd,
		MonthlyRent:         decimalOr(req.MonthlyRent, unit.RentAmount),
		Currency:            req.Currency,
		SecurityDepositPaid: req.SecurityDepositPaid,
		AdvanceRentMonths:   req.AdvanceRentMonths,
		NoticePeriodDays:    defaultNoticePeriodDays,
		LockInMonths:        req.LockInMonths,
		Notes:               req.Notes,
	}
	if terms.Currency == "" {
		terms.Currency = unit.Currency
	}
	if req.NoticePeriodDays != nil {
		terms.NoticePeriodDays = *req.NoticePeriodDays
	}
	lease, err := property.NewLease(accountID, tenant.ID, unit.ID, terms)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		lease.SetCreatedBy(*req.CreatedBy)
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		active, err := repos.LeaseRepo().CountActiveByUnit(ctx, unit.ID, nil)
		if err != nil {
			return err
		}
		if active > 0 {
			return property.ErrUnitOccupied
		}
		if err := repos.LeaseRepo().Save(ctx, lease); err != nil {
			return err
		}
		unit.SyncOccupancy(true)
		if err := repos.UnitRepo().Save(ctx, unit); err != nil {
			return err
		}
		if tenant.Status != property.TenantStatusActive {
			if err := tenant.SetStatus(property.TenantStatusActive); err != nil {
				return err
			}
			if err := repos.TenantRepo().Save(ctx, tenant); err != nil {
				return err
			}
		}
		return repos.OccupancyRepo().Append(ctx, property.NewMoveIn(lease))
	})
	if err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, lease); err != nil {
		return nil, err
	}

	s.logger.Info("lease started",
		zap.String("lease_id", lease.ID.String()),
		zap.String("unit_id", unit.ID.String()),
		zap.String("tenant_id", tenant.ID.String()))

	resp := ToLeaseResponse(lease)
	tenantResp := ToTenantResponse(tenant)
	unitResp := ToUnitResponse(unit)
	resp.Tenant = &tenantResp
	resp.Unit = &unitResp
	return &resp, nil
}

// GetByID retrieves a lease with its tenant and unit
func (s *LeaseService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	return s.withParties(ctx, accountID, lease)
}

// List retrieves a page of leases
func (s *LeaseService) List(ctx context.Context, accountID uuid.UUID, filter LeaseListFilter) ([]LeaseResponse, int64, error) {
	domainFilter := filter.ToDomain()
	leases, err := s.leaseRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.leaseRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LeaseResponse, len(leases))
	for i := range leases {
		responses[i] = ToLeaseResponse(&leases[i])
	}
	return responses, total, nil
}

// Update changes the terms of an active lease
func (s *LeaseService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateLeaseRequest) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if lease.Status != property.LeaseStatusActive {
		return nil, property.ErrLeaseNotActive
	}

	terms := property.LeaseTerms{
		LeaseStart:          lease.LeaseStart,
		LeaseEnd:            lease.LeaseEnd,
		MonthlyRent:         decimalOr(req.MonthlyRent, lease.MonthlyRent),
		Currency:            stringOr(req.Currency, lease.Currency),
		SecurityDepositPaid: decimalOr(req.SecurityDepositPaid, lease.SecurityDepositPaid),
		AdvanceRentMonths:   intOr(req.AdvanceRentMonths, lease.AdvanceRentMonths),
		NoticePeriodDays:    intOr(req.NoticePeriodDays, lease.NoticePeriodDays),
		LockInMonths:        intOr(req.LockInMonths, lease.LockInMonths),
		Notes:               stringOr(req.Notes, lease.Notes),
	}
	if req.LeaseStart != nil {
		terms.LeaseStart = *req.LeaseStart
	}
	if req.LeaseEnd != nil {
		terms.LeaseEnd = req.LeaseEnd
	}
	if err := lease.ApplyTerms(terms); err != nil {
		return nil, err
	}

	if err := s.leaseRepo.Save(ctx, lease); err != nil {
		return nil, err
	}
	return s.withParties(ctx, accountID, lease)
}

// End records the tenant moving out. The unit's occupancy is re-synced from
// its remaining active leases and the tenant becomes former when no active
// lease is left.
func (s *LeaseService) End(ctx context.Context, accountID, id uuid.UUID, req EndLeaseRequest) (*LeaseResponse, error) {
	lease, err := s.leaseRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if endOfDay(s.now()).Before(req.MoveOutDate) {
		return nil, errFutureMoveOut
	}
	if err := lease.End(req.MoveOutDate, req.Reason); err != nil {
		return nil, err
	}
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.LeaseRepo().Save(ctx, lease); err != nil {
			return err
		}
		if err := repos.OccupancyRepo().Append(ctx, property.NewMoveOut(lease, req.Reason)); err != nil {
			return err
		}
		if err := resyncUnit(ctx, repos, accountID, lease.UnitID); err != nil {
			return err
		}
		return retireTenant(ctx, repos, accountID, lease.TenantID)
	})
	if err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.eventPublisher, lease); err != nil {
		return nil, err
	}

	s.logger.Info("lease ended",
		zap.String("lease_id", lease.ID.String()),
		zap.String("unit_id", lease.UnitID.String()),
		zap.Time("move_out_date", req.MoveOutDate))

	return s.withParties(ctx, accountID, lease)
}

func resyncUnit(ctx context.Context, repos TransactionalRepositories, accountID, unitID uuid.UUID) error {
	unit, err := repos.UnitRepo().FindByIDForAccount(ctx, accountID, unitID)
	if err != nil {
		return err
	}
	remaining, err := repos.LeaseRepo().CountActiveByUnit(ctx, unitID, nil)
	if err != nil {
		return err
	}
	unit.SyncOccupancy(remaining > 0)
	return repos.UnitRepo().Save(ctx, unit)
}

func retireTenant(ctx context.Context, repos TransactionalRepositories, accountID, tenantID uuid.UUID) error {
	remaining, err := repos.LeaseRepo().CountActiveByTenant(ctx, tenantID)
	if err != nil || remaining > 0 {
		return err
	}
	tenant, err := repos.TenantRepo().FindByIDForAccount(ctx, accountID, tenantID)
	if err != nil {
		return err
	}
	if err := tenant.SetStatus(property.TenantStatusFormer); err != nil {
		return err
	}
	return repos.TenantRepo().Save(ctx, tenant)
}

// withParties attaches the tenant and unit to a lease response. Missing
// parties are left out.
func (s *LeaseService) withParties(ctx context.Context, accountID uuid.UUID, lease *property.Lease) (*LeaseResponse, error) {
	resp := ToLeaseResponse(lease)

	tenant, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, lease.TenantID)
	switch {
	case err == nil:
		t := ToTenantResponse(tenant)
		resp.Tenant = &t
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	unit, err := s.unitRepo.FindByIDForAccount(ctx, accountID, lease.UnitID)
	switch {
	case err == nil:
		u := ToUnitResponse(unit)
		resp.Unit = &u
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}
	return &resp, nil
}

func notFoundAs(err, replacement error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return replacement
	}
	return err
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}
