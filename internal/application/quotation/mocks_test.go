package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.Customer, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.Customer, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]quotation.Customer), args.Error(1)
}

func (m *MockCustomerRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByResortCode(ctx context.Context, accountID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, accountID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) CountReferences(ctx context.Context, accountID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *quotation.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockQuotationRepository is a mock implementation of QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.Quotation, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.Quotation, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]quotation.Quotation, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).([]quotation.Quotation), args.Error(1)
}

// MockSequenceRepository is a mock implementation of SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) Next(ctx context.Context, accountID uuid.UUID, year int) (int, error) {
	args := m.Called(ctx, accountID, year)
	return args.Int(0), args.Error(1)
}

func (m *MockSequenceRepository) Peek(ctx context.Context, accountID uuid.UUID, year int) (int, error) {
	args := m.Called(ctx, accountID, year)
	return args.Int(0), args.Error(1)
}

// MockTermsTemplateRepository is a mock implementation of TermsTemplateRepository
type MockTermsTemplateRepository struct {
	mock.Mock
}

func (m *MockTermsTemplateRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.TermsTemplate, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.TermsTemplate), args.Error(1)
}

func (m *MockTermsTemplateRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.TermsTemplate, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]quotation.TermsTemplate), args.Error(1)
}

func (m *MockTermsTemplateRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTermsTemplateRepository) FindActiveByCategory(ctx context.Context, accountID uuid.UUID, category quotation.TermsCategory) ([]quotation.TermsTemplate, error) {
	args := m.Called(ctx, accountID, category)
	return args.Get(0).([]quotation.TermsTemplate), args.Error(1)
}

func (m *MockTermsTemplateRepository) FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]quotation.TermsTemplate, error) {
	args := m.Called(ctx, accountID, ids)
	return args.Get(0).([]quotation.TermsTemplate), args.Error(1)
}

func (m *MockTermsTemplateRepository) Save(ctx context.Context, t *quotation.TermsTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTermsTemplateRepository) SaveAsDefault(ctx context.Context, t *quotation.TermsTemplate) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTermsTemplateRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockSupportContractRepository is a mock implementation of SupportContractRepository
type MockSupportContractRepository struct {
	mock.Mock
}

func (m *MockSupportContractRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.SupportContract), args.Error(1)
}

func (m *MockSupportContractRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]quotation.SupportContract), args.Error(1)
}

func (m *MockSupportContractRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSupportContractRepository) ExistsByNumber(ctx context.Context, accountID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSupportContractRepository) FindDueForExpiry(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).([]quotation.SupportContract), args.Error(1)
}

func (m *MockSupportContractRepository) Save(ctx context.Context, c *quotation.SupportContract) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockSupportContractRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	args := m.Called(ctx, accountID, id)
	return args.Error(0)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
