package billing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockTemplateRepository is a mock implementation of InvoiceTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.InvoiceTemplate, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.InvoiceTemplate, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]billing.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context, accountID uuid.UUID, templateType billing.TemplateType) (*billing.InvoiceTemplate, error) {
	args := m.Called(ctx, accountID, templateType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.InvoiceTemplate), args.Error(1)
}

func (m *MockTemplateRepository) Save(ctx context.Context, t *billing.InvoiceTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) SaveAsDefault(ctx context.Context, t *billing.InvoiceTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

// MockRentInvoiceRepository is a mock implementation of RentInvoiceRepository
type MockRentInvoiceRepository struct {
	mock.Mock
}

func (m *MockRentInvoiceRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.RentInvoice, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.RentInvoice, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRentInvoiceRepository) ExistsForUnitMonth(ctx context.Context, accountID, unitID uuid.UUID, month time.Time) (bool, error) {
	args := m.Called(ctx, accountID, unitID, month)
	return args.Bool(0), args.Error(1)
}

func (m *MockRentInvoiceRepository) FindOverdueCandidates(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]billing.RentInvoice, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).([]billing.RentInvoice), args.Error(1)
}

func (m *MockRentInvoiceRepository) Save(ctx context.Context, inv *billing.RentInvoice) error {
	return m.Called(ctx, inv).Error(0)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.LedgerEntry, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.LedgerEntry, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]billing.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) FindByTenant(ctx context.Context, accountID, tenantID uuid.UUID) ([]billing.LedgerEntry, error) {
	args := m.Called(ctx, accountID, tenantID)
	if fn, ok := args.Get(0).(func(context.Context, uuid.UUID, uuid.UUID) []billing.LedgerEntry); ok {
		return fn(ctx, accountID, tenantID), args.Error(1)
	}
	return args.Get(0).([]billing.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) FindTenantIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLedgerRepository) Save(ctx context.Context, e *billing.LedgerEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockLedgerRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

func (m *MockLedgerRepository) UpdateBalances(ctx context.Context, entries []billing.LedgerEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockLedgerRepository) LockTenant(ctx context.Context, accountID, tenantID uuid.UUID) error {
	return m.Called(ctx, accountID, tenantID).Error(0)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) Summary(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (*billing.PaymentSummary, error) {
	args := m.Called(ctx, accountID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PaymentSummary), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *billing.Payment) error {
	return m.Called(ctx, p).Error(0)
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
	return m.Called(ctx, l).Error(0)
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

func (m *MockUnitRepository) ExistsByNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, propertyID, unitNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUnitRepository) Save(ctx context.Context, u *property.Unit) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUnitRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
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
	return m.Called(ctx, t).Error(0)
}

func (m *MockTenantRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

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
	return m.Called(ctx, p).Error(0)
}

func (m *MockPropertyRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockPDFRenderer is a mock implementation of PDFRenderer
type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// memoryRegistry is an in-memory NumberRegistry
type memoryRegistry struct {
	mu     sync.Mutex
	issued map[string]bool
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{issued: make(map[string]bool)}
}

func (r *memoryRegistry) MaxSequence(_ context.Context, accountID uuid.UUID, docType billing.DocumentType, periodPrefix string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	scope := accountID.String() + "|" + string(docType) + "|"
	for key := range r.issued {
		number, ok := strings.CutPrefix(key, scope)
		if !ok || !strings.HasPrefix(number, periodPrefix) {
			continue
		}
		if seq, ok := billing.ParseSequence(number); ok && seq > max {
			max = seq
		}
	}
	return max, nil
}

func (r *memoryRegistry) Exists(_ context.Context, accountID uuid.UUID, docType billing.DocumentType, number string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.issued[accountID.String()+"|"+string(docType)+"|"+number], nil
}

func (r *memoryRegistry) Reserve(_ context.Context, accountID uuid.UUID, docType billing.DocumentType, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := accountID.String() + "|" + string(docType) + "|" + number
	if r.issued[key] {
		return shared.ErrAlreadyExists
	}
	r.issued[key] = true
	return nil
}
