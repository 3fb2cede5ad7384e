package property

import (
	"context"

	"github.com/rentquote/backend/internal/domain/property"
)

// TransactionScope provides transactional access to the lease-side repositories.
// Every repository handed to fn shares one database transaction, committed
// when fn returns nil and rolled back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides the repositories a lease change touches.
type TransactionalRepositories interface {
	LeaseRepo() property.LeaseRepository
	UnitRepo() property.UnitRepository
	TenantRepo() property.TenantRepository
	OccupancyRepo() property.OccupancyRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Used in tests.
type NoOpTransactionScope struct {
	leaseRepo     property.LeaseRepository
	unitRepo      property.UnitRepository
	tenantRepo    property.TenantRepository
	occupancyRepo property.OccupancyRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	leaseRepo property.LeaseRepository,
	unitRepo property.UnitRepository,
	tenantRepo property.TenantRepository,
	occupancyRepo property.OccupancyRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		leaseRepo:     leaseRepo,
		unitRepo:      unitRepo,
		tenantRepo:    tenantRepo,
		occupancyRepo: occupancyRepo,
	}
}

// Execute runs fn without a transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) LeaseRepo() property.LeaseRepository         { return s.leaseRepo }
func (s *NoOpTransactionScope) UnitRepo() property.UnitRepository           { return s.unitRepo }
func (s *NoOpTransactionScope) TenantRepo() property.TenantRepository       { return s.tenantRepo }
func (s *NoOpTransactionScope) OccupancyRepo() property.OccupancyRepository { return s.occupancyRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
