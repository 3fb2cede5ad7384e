package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var (
	errInvalidMonth       = shared.NewDomainError("INVALID_MONTH", "Month must be formatted as YYYY-MM")
	errPrintingDisabled   = shared.NewDomainError("PRINTING_UNAVAILABLE", "PDF rendering is not configured")
	errInvoiceNotPayable  = shared.NewDomainError("INVALID_AMOUNT", "Paid amount must be greater than zero")
	errGenerationLockFail = errors.New("acquire generation lock")
)

// GenerationSettings are the billing knobs monthly generation reads
type GenerationSettings struct {
	InvoiceDay    int
	DueOffsetDays int
	LockTTL       time.Duration
	URLTTL        time.Duration
}

// RentInvoiceService generates and tracks monthly rent invoices
type RentInvoiceService struct {
	invoiceRepo  billing.RentInvoiceRepository
	templateRepo billing.InvoiceTemplateRepository
	parties      PropertyRepositories
	numbers      *billing.NumberGenerator
	locks        shared.IdempotencyStore
	settings     GenerationSettings
	storage      ObjectStorage
	renderer     PDFRenderer
	publisher    shared.EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

// NewRentInvoiceService creates a new RentInvoiceService. locks may be nil,
// in which case concurrent generation runs are not serialized.
func NewRentInvoiceService(
	invoiceRepo billing.RentInvoiceRepository,
	templateRepo billing.InvoiceTemplateRepository,
	parties PropertyRepositories,
	numbers *billing.NumberGenerator,
	locks shared.IdempotencyStore,
	settings GenerationSettings,
	logger *zap.Logger,
) *RentInvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RentInvoiceService{
		invoiceRepo:  invoiceRepo,
		templateRepo: templateRepo,
		parties:      parties,
		numbers:      numbers,
		locks:        locks,
		settings:     settings,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the publisher for invoice events
func (s *RentInvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.publisher = publisher
}

// SetDocumentOutput enables PDF export. Either argument may be nil.
func (s *RentInvoiceService) SetDocumentOutput(renderer PDFRenderer, storage ObjectStorage) {
	s.renderer = renderer
	s.storage = storage
}

// ParseMonth parses YYYY-MM; an empty string is the current month
func (s *RentInvoiceService) ParseMonth(month string) (time.Time, error) {
	if month == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	m, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, errInvalidMonth
	}
	return m, nil
}

// Generate creates the invoices of a month for every active lease that has
// none yet. Running it twice for the same month generates nothing new.
func (s *RentInvoiceService) Generate(ctx context.Context, accountID uuid.UUID, month time.Time) (*billing.GenerationResult, error) {
	monthKey := billing.MonthKey(month)
	if s.locks != nil {
		key := "rent-invoice-generation:" + accountID.String() + ":" + monthKey
		acquired, err := s.locks.MarkProcessed(ctx, key, s.settings.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errGenerationLockFail, err)
		}
		if !acquired {
			return nil, billing.ErrGenerationInProgress
		}
		defer func() {
			if err := s.locks.Release(context.WithoutCancel(ctx), key); err != nil {
				s.logger.Warn("Failed to release generation lock", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	leases, err := s.parties.Leases.FindActiveForMonth(ctx, accountID, month)
	if err != nil {
		return nil, err
	}

	result := &billing.GenerationResult{Month: monthKey, Invoices: []string{}}
	invoiceDate := billing.BillingDate(month, s.settings.InvoiceDay)
	for i := range leases {
		lease := &leases[i]
		skip := func(reason string) {
			result.Skipped++
			result.Reasons = append(result.Reasons, billing.SkipReason{LeaseID: lease.ID, Reason: reason})
		}

		if !lease.CoversMonth(month) {
			skip("lease does not cover the month")
			continue
		}
		exists, err := s.invoiceRepo.ExistsForUnitMonth(ctx, accountID, lease.UnitID, month)
		if err != nil {
			return result, err
		}
		if exists {
			skip("invoice already exists for the unit")
			continue
		}
		unit, err := s.parties.Units.FindByIDForAccount(ctx, accountID, lease.UnitID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				skip("unit not found")
				continue
			}
			return result, err
		}

		number, err := s.numbers.Next(ctx, accountID, billing.DocRentInvoice)
		if err != nil {
			return result, err
		}
		inv, err := billing.NewRentInvoice(accountID, number, billing.LeaseBilling{
			LeaseID:     lease.ID,
			TenantID:    lease.TenantID,
			UnitID:      lease.UnitID,
			PropertyID:  unit.PropertyID,
			MonthlyRent: lease.MonthlyRent,
			Currency:    lease.Currency,
		}, invoiceDate, s.settings.DueOffsetDays)
		if err != nil {
			skip(err.Error())
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return result, err
		}
		if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
			s.logger.Warn("Failed to publish invoice events",
				zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		}
		result.Generated++
		result.Invoices = append(result.Invoices, inv.InvoiceNumber)
	}

	s.logger.Info("Rent invoices generated",
		zap.String("account_id", accountID.String()),
		zap.String("month", monthKey),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// GetByID retrieves a rent invoice by its ID
func (s *RentInvoiceService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*RentInvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRentInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves a page of rent invoices
func (s *RentInvoiceService) List(ctx context.Context, accountID uuid.UUID, filter RentInvoiceListFilter) ([]RentInvoiceResponse, int64, error) {
	domainFilter := filter.ToDomain()
	invoices, err := s.invoiceRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.invoiceRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]RentInvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToRentInvoiceResponse(&invoices[i])
	}
	return responses, total, nil
}

// MarkPaid records the amount received against an invoice
func (s *RentInvoiceService) MarkPaid(ctx context.Context, accountID, id uuid.UUID, req PayInvoiceRequest) (*RentInvoiceResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, errInvoiceNotPayable
	}
	inv, err := s.invoiceRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	paidOn := s.now()
	if req.PaidDate != nil {
		paidOn = *req.PaidDate
	}
	if err := inv.RecordPayment(req.Amount, paidOn); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.publisher, inv); err != nil {
		s.logger.Warn("Failed to publish invoice events", zap.String("invoice_id", id.String()), zap.Error(err))
	}

	resp := ToRentInvoiceResponse(inv)
	return &resp, nil
}

// MarkOverdue flips open invoices past their due date and returns how many
// changed
func (s *RentInvoiceService) MarkOverdue(ctx context.Context, accountID uuid.UUID) (int, error) {
	today := s.now()
	candidates, err := s.invoiceRepo.FindOverdueCandidates(ctx, accountID, today)
	if err != nil {
		return 0, err
	}

	marked := 0
	for i := range candidates {
		inv := &candidates[i]
		if !inv.MarkOverdueIfDue(today) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, inv); err != nil {
			return marked, err
		}
		marked++
	}
	if marked > 0 {
		s.logger.Info("Rent invoices marked overdue",
			zap.String("account_id", accountID.String()), zap.Int("count", marked))
	}
	return marked, nil
}

// PDF renders the invoice with the account's default rent template, stores
// the PDF and returns a download link
func (s *RentInvoiceService) PDF(ctx context.Context, accountID, id uuid.UUID) (*PDFResponse, error) {
	if s.renderer == nil {
		return nil, errPrintingDisabled
	}
	if s.storage == nil {
		return nil, errStorageUnavailable
	}
	inv, err := s.invoiceRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	html, err := s.RenderHTML(ctx, inv)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}

	key := InvoicePDFKey(accountID, inv.InvoiceNumber)
	if err := s.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("upload invoice %s: %w", inv.InvoiceNumber, err)
	}
	inv.SetPDFPath(key)
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.settings.URLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign invoice %s: %w", inv.InvoiceNumber, err)
	}
	return &PDFResponse{
		InvoiceNumber: inv.InvoiceNumber,
		StorageKey:    key,
		DownloadURL:   url,
		ExpiresAt:     expiresAt,
	}, nil
}

// RenderHTML fills the default rent template with the invoice's data
func (s *RentInvoiceService) RenderHTML(ctx context.Context, inv *billing.RentInvoice) (string, error) {
	tmpl, err := s.templateRepo.FindDefault(ctx, inv.AccountID, billing.TemplateTypeRent)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
		tmpl = fallbackTemplate(inv.AccountID)
	}
	parties, err := s.parties.load(ctx, inv.AccountID, inv.LeaseID)
	if err != nil {
		return "", err
	}
	vars := parties.invoiceContext(inv).Vars(s.now())
	return tmpl.Document(billing.RenderHTMLPlaceholders(tmpl.HTMLContent, vars)), nil
}

// InvoicePDFKey is the object key of a rendered invoice
func InvoicePDFKey(accountID uuid.UUID, invoiceNumber string) string {
	return "invoices/" + accountID.String() + "/" + invoiceNumber + ".pdf"
}
