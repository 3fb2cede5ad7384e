package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPaymentService() (*PaymentService, *MockPaymentRepository, *MockEventPublisher) {
	repo := new(MockPaymentRepository)
	publisher := new(MockEventPublisher)
	clock := func() time.Time { return time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC) }
	numbers := billing.NewNumberGenerator(newMemoryRegistry(), billing.DefaultNumberingPolicy()).WithClock(clock)
	svc := NewPaymentService(repo, numbers, nil)
	svc.SetEventPublisher(publisher)
	svc.now = clock
	return svc, repo, publisher
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	accountID, tenantID, leaseID := uuid.New(), uuid.New(), uuid.New()

	t.Run("pending payment has no receipt", func(t *testing.T) {
		svc, repo, publisher := newPaymentService()
		repo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)

		resp, err := svc.Create(ctx, accountID, CreatePaymentRequest{
			PaymentType: "rent", TenantID: &tenantID, LeaseID: &leaseID, Amount: decimal.NewFromInt(5000),
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "income", resp.Direction)
		assert.Equal(t, "USD", resp.Currency)
		assert.Empty(t, resp.ReceiptNumber)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("completed payment is captured", func(t *testing.T) {
		svc, repo, publisher := newPaymentService()
		repo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		publisher.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == billing.EventTypePaymentCompleted
		})).Return(nil)

		resp, err := svc.Create(ctx, accountID, CreatePaymentRequest{
			PaymentType: "rent", TenantID: &tenantID, LeaseID: &leaseID, Amount: decimal.NewFromInt(5000),
			Status: "completed", PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "RCPT-202506-001", resp.ReceiptNumber)
		require.NotNil(t, resp.TransactionDate)
		publisher.AssertExpectations(t)
	})

	t.Run("lease required", func(t *testing.T) {
		svc, _, _ := newPaymentService()
		_, err := svc.Create(ctx, accountID, CreatePaymentRequest{PaymentType: "fee", Amount: decimal.NewFromInt(10)})
		assert.ErrorIs(t, err, billing.ErrLeaseRequired)
	})

	t.Run("other income without lease", func(t *testing.T) {
		svc, repo, _ := newPaymentService()
		repo.On("Save", ctx, mock.AnythingOfType("*billing.Payment")).Return(nil)
		resp, err := svc.Create(ctx, accountID, CreatePaymentRequest{PaymentType: "other_income", Amount: decimal.NewFromInt(10)})
		require.NoError(t, err)
		assert.Nil(t, resp.LeaseID)
	})
}

func TestPaymentService_CaptureAndVoid(t *testing.T) {
	ctx := context.Background()
	accountID, tenantID, leaseID := uuid.New(), uuid.New(), uuid.New()

	newPending := func(t *testing.T) *billing.Payment {
		p, err := billing.NewPayment(accountID, billing.PaymentInput{
			PaymentType: billing.PaymentRent, TenantID: &tenantID, LeaseID: &leaseID, Amount: decimal.NewFromInt(800),
		})
		require.NoError(t, err)
		return p
	}

	t.Run("capture partial", func(t *testing.T) {
		svc, repo, publisher := newPaymentService()
		p := newPending(t)
		repo.On("FindByIDForAccount", ctx, accountID, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		resp, err := svc.Capture(ctx, accountID, p.ID, CapturePaymentRequest{Status: "partial", PaymentMethod: "cash"})
		require.NoError(t, err)
		assert.Equal(t, "partial", resp.Status)
		assert.Equal(t, "cash", resp.PaymentMethod)
		assert.NotEmpty(t, resp.ReceiptNumber)
	})

	t.Run("capture twice", func(t *testing.T) {
		svc, repo, publisher := newPaymentService()
		p := newPending(t)
		repo.On("FindByIDForAccount", ctx, accountID, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := svc.Capture(ctx, accountID, p.ID, CapturePaymentRequest{})
		require.NoError(t, err)
		_, err = svc.Capture(ctx, accountID, p.ID, CapturePaymentRequest{})
		assert.ErrorIs(t, err, billing.ErrPaymentAlreadyCaptured)
	})

	t.Run("void pending", func(t *testing.T) {
		svc, repo, _ := newPaymentService()
		p := newPending(t)
		repo.On("FindByIDForAccount", ctx, accountID, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)

		resp, err := svc.Void(ctx, accountID, p.ID, VoidPaymentRequest{Reason: "entered twice"})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "entered twice", resp.VoidReason)

		_, err = svc.Capture(ctx, accountID, p.ID, CapturePaymentRequest{})
		assert.ErrorIs(t, err, billing.ErrPaymentClosed)
	})

	t.Run("void completed", func(t *testing.T) {
		svc, repo, _ := newPaymentService()
		p := newPending(t)
		require.NoError(t, p.Capture(billing.PaymentStatusCompleted, "RCPT-1", time.Time{}, ""))
		repo.On("FindByIDForAccount", ctx, accountID, p.ID).Return(p, nil)

		_, err := svc.Void(ctx, accountID, p.ID, VoidPaymentRequest{})
		assert.ErrorIs(t, err, billing.ErrPaymentNotVoidable)
	})
}

func TestPaymentService_Summary(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	svc, repo, _ := newPaymentService()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	summary := &billing.PaymentSummary{TotalIncome: decimal.NewFromInt(10), Net: decimal.NewFromInt(10)}
	repo.On("Summary", ctx, accountID, &from, (*time.Time)(nil)).Return(summary, nil)

	got, err := svc.Summary(ctx, accountID, PaymentSummaryFilter{DateFrom: "2025-01-01"})
	require.NoError(t, err)
	assert.Same(t, summary, got)

	_, err = svc.Summary(ctx, accountID, PaymentSummaryFilter{DateTo: "01/01/2025"})
	assert.ErrorIs(t, err, errInvalidDate)
}
