package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPropertyRepository is a mock implementation of PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Property, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *MockPropertyRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPropertyRepository) OccupancyStats(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]property.OccupancyStats, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).(map[uuid.UUID]property.OccupancyStats), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockUnitRepository is a mock implementation of UnitRepository
type MockUnitRepository struct {
	mock.Mock
}

func (m *MockUnitRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Unit, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Unit), args.Error(1)
}

func (m *MockUnitRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Unit, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]property.Unit), args.Error(1)
}

func (m *MockUnitRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) CountByProperty(ctx context.Context, accountID, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUnitRepository) ExistsByNumber(ctx context.Context, propertyID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, propertyID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUnitRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockTenantRepository is a mock implementation of TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Tenant, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Tenant), args.Error(1)
}

func (m *MockTenantRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Tenant, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]property.Tenant), args.Error(1)
}

func (m *MockTenantRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *property.Tenant) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTenantRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockLeaseRepository is a mock implementation of LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*property.Lease, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]property.Lease, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) CountActiveByUnit(ctx context.Context, unitID uuid.UUID, excludeID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, unitID, excludeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLeaseRepository) FindActiveForMonth(ctx context.Context, accountID uuid.UUID, month time.Time) ([]property.Lease, error) {
	args := m.Called(ctx, accountID, month)
	return args.Get(0).([]property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, l *property.Lease) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

// MockOccupancyRepository is a mock implementation of OccupancyRepository
type MockOccupancyRepository struct {
	mock.Mock
}

func (m *MockOccupancyRepository) Append(ctx context.Context, entry *property.OccupancyHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOccupancyRepository) FindByUnit(ctx context.Context, accountID, unitID uuid.UUID) ([]property.OccupancyHistory, error) {
	args := m.Called(ctx, accountID, unitID)
	return args.Get(0).([]property.OccupancyHistory), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
