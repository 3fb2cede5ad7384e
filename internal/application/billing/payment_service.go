package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var errInvalidDate = shared.NewDomainError("INVALID_DATE", "Dates must be formatted as YYYY-MM-DD")

// PaymentService records unified payments
type PaymentService struct {
	paymentRepo billing.PaymentRepository
	numbers     *billing.NumberGenerator
	publisher   shared.EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo billing.PaymentRepository, numbers *billing.NumberGenerator, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		paymentRepo: paymentRepo,
		numbers:     numbers,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for payment events
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// Create records a payment. A payment created as completed or partial is
// captured straight away and gets a receipt number.
func (s *PaymentService) Create(ctx context.Context, accountID uuid.UUID, req CreatePaymentRequest) (*PaymentResponse, error) {
	status := billing.PaymentStatus(req.Status)
	p, err := billing.NewPayment(accountID, billing.PaymentInput{
		PaymentType:     billing.PaymentType(req.PaymentType),
		TenantID:        req.TenantID,
		LeaseID:         req.LeaseID,
		RentInvoiceID:   req.RentInvoiceID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Status:          status,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		TransactionDate: req.TransactionDate,
		DueDate:         req.DueDate,
		Description:     req.Description,
	})
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if status == billing.PaymentStatusCompleted || status == billing.PaymentStatusPartial {
		if err := s.capture(ctx, p, status, time.Time{}, ""); err != nil {
			return nil, err
		}
	}
	return s.save(ctx, p)
}

// Capture completes a pending payment
func (s *PaymentService) Capture(ctx context.Context, accountID, id uuid.UUID, req CapturePaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	status := billing.PaymentStatusCompleted
	if req.Status != "" {
		status = billing.PaymentStatus(req.Status)
	}
	var on time.Time
	if req.TransactionDate != nil {
		on = *req.TransactionDate
	}
	if err := s.capture(ctx, p, status, on, req.PaymentMethod); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// Void cancels a payment that has not been completed
func (s *PaymentService) Void(ctx context.Context, accountID, id uuid.UUID, req VoidPaymentRequest) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Void(req.Reason); err != nil {
		return nil, err
	}
	return s.save(ctx, p)
}

// GetByID retrieves a payment by its ID
func (s *PaymentService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List retrieves a page of payments
func (s *PaymentService) List(ctx context.Context, accountID uuid.UUID, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := filter.ToDomain()
	payments, err := s.paymentRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.paymentRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PaymentResponse, len(payments))
	for i := range payments {
		responses[i] = ToPaymentResponse(&payments[i])
	}
	return responses, total, nil
}

// Summary totals completed income against outgoing payments
func (s *PaymentService) Summary(ctx context.Context, accountID uuid.UUID, filter PaymentSummaryFilter) (*billing.PaymentSummary, error) {
	from, err := parseDate(filter.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(filter.DateTo)
	if err != nil {
		return nil, err
	}
	return s.paymentRepo.Summary(ctx, accountID, from, to)
}

func (s *PaymentService) capture(ctx context.Context, p *billing.Payment, status billing.PaymentStatus, on time.Time, method string) error {
	if err := p.CanCapture(); err != nil {
		return err
	}
	receipt := p.ReceiptNumber
	if receipt == "" {
		var err error
		receipt, err = s.numbers.Next(ctx, p.AccountID, billing.DocReceipt)
		if err != nil {
			return err
		}
	}
	if on.IsZero() && p.TransactionDate == nil {
		on = s.now()
	}
	return p.Capture(status, receipt, on, method)
}

func (s *PaymentService) save(ctx context.Context, p *billing.Payment) (*PaymentResponse, error) {
	if err := s.paymentRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, p); err != nil {
		s.logger.Warn("Failed to publish payment events", zap.String("payment_id", p.ID.String()), zap.Error(err))
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errInvalidDate
	}
	return &t, nil
}
