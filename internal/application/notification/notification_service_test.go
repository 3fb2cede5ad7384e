package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of notification.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]notification.Notification), args.Error(1)
}

func (m *MockRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountUnread(ctx context.Context, accountID uuid.UUID, now time.Time) (int64, error) {
	args := m.Called(ctx, accountID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, accountID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, accountID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, n *notification.Notification, msg notification.Message) []notification.DeliveryResult {
	args := m.Called(ctx, n, msg)
	return args.Get(0).([]notification.DeliveryResult)
}

// MockTenantRepository is a mock implementation of property.TenantRepository
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

// MockContractRepository is a mock implementation of SupportContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.SupportContract), args.Error(1)
}

func (m *MockContractRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]quotation.SupportContract), args.Error(1)
}

func (m *MockContractRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) ExistsByNumber(ctx context.Context, accountID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, accountID, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockContractRepository) FindDueForExpiry(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]quotation.SupportContract, error) {
	args := m.Called(ctx, accountID, asOf)
	return args.Get(0).([]quotation.SupportContract), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, c *quotation.SupportContract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
	return m.Called(ctx, accountID, id).Error(0)
}

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

func (m *MockCustomerRepository) Save(ctx context.Context, c *quotation.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error {
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

func (m *MockIdempotencyStore) Close() error { return nil }

func TestNotificationService_CreateDispatchesToTenant(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockRepository)
	dispatcher := new(MockDispatcher)
	tenants := new(MockTenantRepository)
	svc := NewNotificationService(repo, dispatcher, tenants, nil, nil)

	tenant, err := property.NewTenant(accountID, "Mariyam Nisha")
	require.NoError(t, err)
	tenant.Email = "nisha@example.mv"
	tenant.Phone = "+9607001122"

	repo.On("Save", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	tenants.On("FindByIDForAccount", ctx, accountID, tenant.ID).Return(tenant, nil)
	dispatcher.On("Dispatch", ctx, mock.Anything, notification.Message{
		Title: "Rent due", Body: "Please pay", Email: "override@example.mv", Phone: "+9607001122",
	}).Return([]notification.DeliveryResult{
		{Channel: notification.ChannelEmail},
		{Channel: notification.ChannelSMS, Err: errors.New("gateway down")},
		{Channel: notification.ChannelTelegram, Skipped: true},
	})

	resp, err := svc.Create(ctx, accountID, CreateNotificationRequest{
		Title: "Rent due", Message: "Please pay", Type: "rent_due", SentVia: "all",
		Metadata: map[string]any{"tenant_id": tenant.ID.String(), "email": "override@example.mv"},
	})
	require.NoError(t, err, "a failed channel does not fail the create")
	assert.Equal(t, "all", resp.SentVia)
	assert.Equal(t, "normal", resp.Priority)
	dispatcher.AssertExpectations(t)
}

func TestNotificationService_CreateWithoutChannel(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	dispatcher := new(MockDispatcher)
	svc := NewNotificationService(repo, dispatcher, nil, nil, nil)
	repo.On("Save", ctx, mock.Anything).Return(nil)

	_, err := svc.Create(ctx, uuid.New(), CreateNotificationRequest{Title: "t", Message: "m", Type: "system"})
	require.NoError(t, err)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockRepository)
	svc := NewNotificationService(repo, nil, nil, nil, nil)
	at := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	n, err := notification.NewNotification(accountID, notification.TypeSystem, "t", "m", "", "")
	require.NoError(t, err)
	repo.On("FindByIDForAccount", ctx, accountID, n.ID).Return(n, nil)
	repo.On("Save", ctx, n).Return(nil).Once()

	resp, err := svc.MarkRead(ctx, accountID, n.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsRead)
	assert.Equal(t, at, *resp.ReadAt)

	_, err = svc.MarkRead(ctx, accountID, n.ID)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestNotificationService_Counts(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockRepository)
	svc := NewNotificationService(repo, nil, nil, nil, nil)
	at := time.Date(2025, 2, 2, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return at }

	repo.On("CountUnread", ctx, accountID, at).Return(int64(4), nil)
	repo.On("MarkAllRead", ctx, accountID, at).Return(int64(4), nil)

	count, err := svc.UnreadCount(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count.Count)

	updated, err := svc.MarkAllRead(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), updated.Updated)
}

func TestNotificationListFilter_ToDomain(t *testing.T) {
	read := false
	f := NotificationListFilter{Type: "rent_due", IsRead: &read, PerPage: 30}.ToDomain()
	assert.Equal(t, 30, f.PageSize)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, "rent_due", f.Filters["type"])
	assert.Equal(t, false, f.Filters["is_read"])
	_, ok := f.Filters["include_expired"]
	assert.False(t, ok)
}

func TestEventNotifier(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("lease ended stays in-app", func(t *testing.T) {
		repo := new(MockRepository)
		dispatcher := new(MockDispatcher)
		handler := NewEventNotifier(NewNotificationService(repo, dispatcher, nil, nil, nil), notification.ChannelEmail, nil)

		lease, err := property.NewLease(accountID, uuid.New(), uuid.New(), property.LeaseTerms{
			LeaseStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), MonthlyRent: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		require.NoError(t, lease.End(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), "relocating"))
		events := lease.GetDomainEvents()
		evt := events[len(events)-1]

		var saved *notification.Notification
		repo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*notification.Notification)
		}).Return(nil)

		require.NoError(t, handler.Handle(ctx, evt))
		require.NotNil(t, saved)
		assert.Equal(t, notification.TypeLeaseEnded, saved.Type)
		assert.Contains(t, saved.Message, "2025-01-31")
		assert.Contains(t, saved.Message, "relocating")
		assert.Equal(t, notification.ChannelNone, saved.SentVia)
		dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rent invoice goes to tenant channel", func(t *testing.T) {
		repo := new(MockRepository)
		dispatcher := new(MockDispatcher)
		tenants := new(MockTenantRepository)
		handler := NewEventNotifier(NewNotificationService(repo, dispatcher, tenants, nil, nil), notification.ChannelEmail, nil)

		tenantID := uuid.New()
		inv, err := billing.NewRentInvoice(accountID, "RINV-202502-003", billing.LeaseBilling{
			LeaseID: uuid.New(), TenantID: tenantID, UnitID: uuid.New(), PropertyID: uuid.New(),
			MonthlyRent: decimal.NewFromInt(7500), Currency: "MVR",
		}, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 7)
		require.NoError(t, err)

		repo.On("Save", ctx, mock.Anything).Return(nil)
		tenants.On("FindByIDForAccount", ctx, accountID, tenantID).Return(&property.Tenant{Email: "t@example.mv"}, nil)
		dispatcher.On("Dispatch", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.Type == notification.TypeRentInvoice && n.SentVia == notification.ChannelEmail
		}), mock.MatchedBy(func(msg notification.Message) bool {
			return msg.Email == "t@example.mv" && msg.Body == "Your rent of MVR 7,500.00 is due on 2025-02-08."
		})).Return([]notification.DeliveryResult{{Channel: notification.ChannelEmail}})

		require.NoError(t, handler.Handle(ctx, inv.GetDomainEvents()[0]))
		dispatcher.AssertExpectations(t)
	})
}

func TestContractExpiryNotifier(t *testing.T) {
	ctx := context.Background()
	accountID, customerID := uuid.New(), uuid.New()
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	dispatcher := new(MockDispatcher)
	contracts := new(MockContractRepository)
	customers := new(MockCustomerRepository)
	store := new(MockIdempotencyStore)
	notifier := NewContractExpiryNotifier(NewNotificationService(repo, dispatcher, nil, nil, nil), contracts, customers, store, nil)
	notifier.now = func() time.Time { return now }

	soon, err := quotation.NewSupportContract(accountID, customerID, "AMC", "SC-1", now.AddDate(-1, 0, 0), now.AddDate(0, 0, 5))
	require.NoError(t, err)
	announced, err := quotation.NewSupportContract(accountID, customerID, "AMC", "SC-2", now.AddDate(-1, 0, 0), now.AddDate(0, 0, 20))
	require.NoError(t, err)
	later, err := quotation.NewSupportContract(accountID, customerID, "AMC", "SC-3", now.AddDate(-1, 0, 0), now.AddDate(0, 3, 0))
	require.NoError(t, err)

	contracts.On("FindAllForAccount", ctx, accountID, mock.Anything).
		Return([]quotation.SupportContract{*soon, *announced, *later}, nil)
	store.On("MarkProcessed", ctx, mock.MatchedBy(func(key string) bool {
		return key == "contract-expiring:"+soon.ID.String()+":20250506"
	}), mock.Anything).Return(true, nil)
	store.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(false, nil)
	customers.On("FindByIDForAccount", ctx, accountID, customerID).
		Return(&quotation.Customer{ResortName: "Blue Lagoon", Email: "it@bluelagoon.mv"}, nil)

	var saved *notification.Notification
	repo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*notification.Notification)
	}).Return(nil)
	dispatcher.On("Dispatch", ctx, mock.Anything, mock.Anything).Return([]notification.DeliveryResult{{Channel: notification.ChannelEmail}})

	created, err := notifier.NotifyExpiring(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	require.NotNil(t, saved)
	assert.Equal(t, notification.PriorityHigh, saved.Priority)
	assert.Equal(t, notification.ChannelEmail, saved.SentVia)
	assert.Equal(t, "Blue Lagoon", saved.Metadata.String("customer"))
}
