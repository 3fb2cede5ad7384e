package quotation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NumberingConfig controls quotation numbers and defaults
type NumberingConfig struct {
	Prefix          string
	DefaultCurrency string
	ValidityDays    int
}

// QuotationService handles quotation-related business operations
type QuotationService struct {
	quotationRepo  quotation.QuotationRepository
	customerRepo   quotation.CustomerRepository
	sequenceRepo   quotation.SequenceRepository
	eventPublisher shared.EventPublisher
	config         NumberingConfig
	logger         *zap.Logger
	now            func() time.Time
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo quotation.QuotationRepository,
	customerRepo quotation.CustomerRepository,
	sequenceRepo quotation.SequenceRepository,
	config NumberingConfig,
	logger *zap.Logger,
) *QuotationService {
	if config.Prefix == "" {
		config.Prefix = quotation.DefaultNumberPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		customerRepo:  customerRepo,
		sequenceRepo:  sequenceRepo,
		config:        config,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create issues a number and creates a draft quotation with its items
func (s *QuotationService) Create(ctx context.Context, accountID uuid.UUID, req CreateQuotationRequest) (*QuotationResponse, error) {
	customer, err := resolveCustomer(ctx, s.customerRepo, accountID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	number, err := s.nextNumber(ctx, accountID, customer)
	if err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	q, err := quotation.NewQuotation(accountID, customer.ID, number, currency)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		q.SetCreatedBy(*req.CreatedBy)
	}

	validUntil := req.ValidUntil
	if validUntil == nil && s.config.ValidityDays > 0 {
		v := s.now().AddDate(0, 0, s.config.ValidityDays)
		validUntil = &v
	}
	err = q.UpdateHeader(
		validUntil,
		decimalOr(req.ExchangeRate, decimal.NewFromInt(1)),
		decimalOr(req.DiscountPercentage, decimal.Zero),
		req.Notes,
		req.TermsTemplateIDs,
	)
	if err != nil {
		return nil, err
	}

	added := make([]uuid.UUID, 0, len(req.Items))
	for i, in := range req.Items {
		item := in.toDomain()
		if in.ParentIndex != nil {
			if *in.ParentIndex < 0 || *in.ParentIndex >= i {
				return nil, shared.NewDomainError("INVALID_PARENT_ITEM", "parent_index must refer to an earlier item")
			}
			parentID := added[*in.ParentIndex]
			item.ParentItemID = &parentID
		}
		created, err := q.AddItem(item)
		if err != nil {
			return nil, err
		}
		added = append(added, created.ID)
	}

	if err := s.save(ctx, q); err != nil {
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.String("account_id", accountID.String()),
		zap.String("quotation_number", q.QuotationNumber),
		zap.Int("items", len(q.Items)))

	return s.response(q, customer), nil
}

// GetByID retrieves a quotation with its items and customer
func (s *QuotationService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.FindByIDForAccount(ctx, accountID, q.CustomerID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.response(q, customer), nil
}

// List retrieves a page of quotations
func (s *QuotationService) List(ctx context.Context, accountID uuid.UUID, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := filter.ToDomain()

	quotations, err := s.quotationRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.quotationRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i], now)
	}
	return responses, total, nil
}

// Update changes the header of a draft quotation
func (s *QuotationService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	validUntil := q.ValidUntil
	if req.ValidUntil != nil {
		validUntil = req.ValidUntil
	}
	termsIDs := []uuid.UUID(q.TermsTemplateIDs)
	if req.TermsTemplateIDs != nil {
		termsIDs = req.TermsTemplateIDs
	}
	err = q.UpdateHeader(
		validUntil,
		decimalOr(req.ExchangeRate, q.ExchangeRate),
		decimalOr(req.DiscountPercentage, q.DiscountPercentage),
		stringOr(req.Notes, q.Notes),
		termsIDs,
	)
	if err != nil {
		return nil, err
	}

	if err := s.save(ctx, q); err != nil {
		return nil, err
	}
	return s.response(q, nil), nil
}

// Delete deletes a draft quotation
func (s *QuotationService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	q, err := s.quotationRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	if err := q.CanDelete(); err != nil {
		return err
	}
	return s.quotationRepo.DeleteForAccount(ctx, accountID, id)
}

// AddItem appends a line to a draft quotation
func (s *QuotationService) AddItem(ctx context.Context, accountID, id uuid.UUID, in ItemInput) (*QuotationResponse, error) {
	return s.mutate(ctx, accountID, id, func(q *quotation.Quotation) error {
		_, err := q.AddItem(in.toDomain())
		return err
	})
}

// UpdateItem replaces a line of a draft quotation
func (s *QuotationService) UpdateItem(ctx context.Context, accountID, id, itemID uuid.UUID, in ItemInput) (*QuotationResponse, error) {
	return s.mutate(ctx, accountID, id, func(q *quotation.Quotation) error {
		_, err := q.UpdateItem(itemID, in.toDomain())
		return err
	})
}

// RemoveItem deletes a line and the AMC lines under it
func (s *QuotationService) RemoveItem(ctx context.Context, accountID, id, itemID uuid.UUID) (*QuotationResponse, error) {
	return s.mutate(ctx, accountID, id, func(q *quotation.Quotation) error {
		_, err := q.RemoveItem(itemID)
		return err
	})
}

// ChangeStatus moves a quotation through its lifecycle
func (s *QuotationService) ChangeStatus(ctx context.Context, accountID, id uuid.UUID, req ChangeStatusRequest) (*QuotationResponse, error) {
	at := s.now()
	if req.Date != nil {
		at = *req.Date
	}
	return s.mutate(ctx, accountID, id, func(q *quotation.Quotation) error {
		return q.ChangeStatus(quotation.Status(req.Status), at)
	})
}

// PreviewNumber returns the number the next quotation for the customer
// would receive, without consuming the sequence
func (s *QuotationService) PreviewNumber(ctx context.Context, accountID uuid.UUID, customerID *uuid.UUID) (*NumberPreviewResponse, error) {
	code := quotation.UnknownResortCode
	if customerID != nil {
		customer, err := resolveCustomer(ctx, s.customerRepo, accountID, *customerID)
		if err != nil {
			return nil, err
		}
		code = customer.ResortCode
	}

	year := s.now().Year()
	seq, err := s.sequenceRepo.Peek(ctx, accountID, year)
	if err != nil {
		return nil, err
	}
	return &NumberPreviewResponse{
		QuotationNumber: quotation.FormatNumber(s.config.Prefix, year, seq, code),
		Sequence:        seq,
		Year:            year,
	}, nil
}

// Duplicate copies a quotation into a new draft with a fresh number
func (s *QuotationService) Duplicate(ctx context.Context, accountID, id uuid.UUID) (*QuotationResponse, error) {
	source, err := s.quotationRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	customer, err := resolveCustomer(ctx, s.customerRepo, accountID, source.CustomerID)
	if err != nil {
		return nil, err
	}
	number, err := s.nextNumber(ctx, accountID, customer)
	if err != nil {
		return nil, err
	}

	dup, err := source.Duplicate(number)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, dup); err != nil {
		return nil, err
	}
	return s.response(dup, customer), nil
}

// ExpireDue moves draft and sent quotations past their validity to expired.
// It returns the number of quotations changed.
func (s *QuotationService) ExpireDue(ctx context.Context, accountID uuid.UUID) (int, error) {
	now := s.now()
	due, err := s.quotationRepo.FindExpirable(ctx, accountID, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range due {
		q := &due[i]
		if err := q.ChangeStatus(quotation.StatusExpired, now); err != nil {
			s.logger.Warn("quotation not expired",
				zap.String("quotation_number", q.QuotationNumber),
				zap.Error(err))
			continue
		}
		if err := s.save(ctx, q); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}

func (s *QuotationService) mutate(ctx context.Context, accountID, id uuid.UUID, apply func(*quotation.Quotation) error) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(q); err != nil {
		return nil, err
	}
	if err := s.save(ctx, q); err != nil {
		return nil, err
	}
	return s.response(q, nil), nil
}

func (s *QuotationService) save(ctx context.Context, q *quotation.Quotation) error {
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return err
	}
	return shared.PublishPending(ctx, s.eventPublisher, q)
}

func (s *QuotationService) nextNumber(ctx context.Context, accountID uuid.UUID, customer *quotation.Customer) (string, error) {
	year := s.now().Year()
	seq, err := s.sequenceRepo.Next(ctx, accountID, year)
	if err != nil {
		return "", err
	}
	return quotation.FormatNumber(s.config.Prefix, year, seq, customer.ResortCode), nil
}

func (s *QuotationService) response(q *quotation.Quotation, customer *quotation.Customer) *QuotationResponse {
	resp := ToQuotationResponse(q, s.now())
	if customer != nil {
		c := ToCustomerResponse(customer)
		resp.Customer = &c
	}
	return &resp
}

func decimalOr(d *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if d == nil {
		return fallback
	}
	return *d
}
