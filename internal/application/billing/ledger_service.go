package billing

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var errInvalidTenant = shared.NewDomainError("INVALID_TENANT", "Tenant not found")

// LedgerService maintains tenant ledgers and their running balances
type LedgerService struct {
	ledgerRepo billing.LedgerRepository
	tenantRepo property.TenantRepository
	txScope    TransactionScope
}

// NewLedgerService creates a new LedgerService. A nil txScope runs writes
// directly on ledgerRepo.
func NewLedgerService(ledgerRepo billing.LedgerRepository, tenantRepo property.TenantRepository, txScope TransactionScope) *LedgerService {
	if txScope == nil {
		txScope = NewNoOpTransactionScope(ledgerRepo)
	}
	return &LedgerService{ledgerRepo: ledgerRepo, tenantRepo: tenantRepo, txScope: txScope}
}

// Create posts an entry and recalculates the tenant's balances
func (s *LedgerService) Create(ctx context.Context, accountID uuid.UUID, req CreateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	if _, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, req.TenantID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidTenant
		}
		return nil, err
	}

	entry, err := billing.NewLedgerEntry(accountID, req.TenantID, billing.LedgerInput{
		LeaseID:         req.LeaseID,
		TransactionDate: req.TransactionDate,
		PaymentType:     billing.LedgerPaymentType(req.PaymentType),
		Description:     req.Description,
		ReferenceNo:     req.ReferenceNo,
		DebitAmount:     req.DebitAmount,
		CreditAmount:    req.CreditAmount,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		entry.SetCreatedBy(*req.CreatedBy)
	}
	return s.post(ctx, entry)
}

// Post saves an entry built elsewhere, such as by an event handler, and
// recalculates the tenant's balances
func (s *LedgerService) Post(ctx context.Context, entry *billing.LedgerEntry) error {
	_, err := s.post(ctx, entry)
	return err
}

func (s *LedgerService) post(ctx context.Context, entry *billing.LedgerEntry) (*LedgerEntryResponse, error) {
	var balance decimal.Decimal
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.LedgerRepo()
		if err := repo.LockTenant(ctx, entry.AccountID, entry.TenantID); err != nil {
			return err
		}
		if err := repo.Save(ctx, entry); err != nil {
			return err
		}
		var err error
		balance, err = recalculate(ctx, repo, entry.AccountID, entry.TenantID, entry.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	entry.Balance = balance
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// GetByID retrieves a ledger entry by its ID
func (s *LedgerService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToLedgerEntryResponse(entry)
	return &resp, nil
}

// List retrieves a page of ledger entries
func (s *LedgerService) List(ctx context.Context, accountID uuid.UUID, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	domainFilter := filter.ToDomain()
	entries, err := s.ledgerRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ledgerRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses, total, nil
}

// Update changes an entry and recalculates the tenant's balances
func (s *LedgerService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateLedgerEntryRequest) (*LedgerEntryResponse, error) {
	entry, err := s.ledgerRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	in := billing.LedgerInput{
		LeaseID:         entry.LeaseID,
		TransactionDate: entry.TransactionDate,
		PaymentType:     entry.PaymentType,
		Description:     entry.Description,
		ReferenceNo:     entry.ReferenceNo,
		DebitAmount:     entry.DebitAmount,
		CreditAmount:    entry.CreditAmount,
		PaymentMethod:   entry.PaymentMethod,
	}
	if req.LeaseID != nil {
		in.LeaseID = req.LeaseID
	}
	if req.TransactionDate != nil {
		in.TransactionDate = *req.TransactionDate
	}
	if req.PaymentType != nil {
		in.PaymentType = billing.LedgerPaymentType(*req.PaymentType)
	}
	in.Description = stringOr(req.Description, in.Description)
	in.ReferenceNo = stringOr(req.ReferenceNo, in.ReferenceNo)
	in.PaymentMethod = stringOr(req.PaymentMethod, in.PaymentMethod)
	if req.DebitAmount != nil {
		in.DebitAmount = *req.DebitAmount
	}
	if req.CreditAmount != nil {
		in.CreditAmount = *req.CreditAmount
	}
	if err := entry.Apply(in); err != nil {
		return nil, err
	}
	return s.post(ctx, entry)
}

// Delete removes an entry and recalculates the remaining balances
func (s *LedgerService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	entry, err := s.ledgerRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		repo := repos.LedgerRepo()
		if err := repo.LockTenant(ctx, accountID, entry.TenantID); err != nil {
			return err
		}
		if err := repo.DeleteForAccount(ctx, accountID, id); err != nil {
			return err
		}
		_, err := recalculate(ctx, repo, accountID, entry.TenantID, uuid.Nil)
		return err
	})
}

// Summary totals a tenant's ledger
func (s *LedgerService) Summary(ctx context.Context, accountID, tenantID uuid.UUID) (*billing.LedgerSummary, error) {
	entries, err := s.ledgerRepo.FindByTenant(ctx, accountID, tenantID)
	if err != nil {
		return nil, err
	}
	summary := billing.Summarize(tenantID, entries)
	return &summary, nil
}

// HasReference reports whether the tenant already has an entry with the
// reference number
func (s *LedgerService) HasReference(ctx context.Context, accountID, tenantID uuid.UUID, referenceNo string) (bool, error) {
	if strings.TrimSpace(referenceNo) == "" {
		return false, nil
	}
	entries, err := s.ledgerRepo.FindByTenant(ctx, accountID, tenantID)
	if err != nil {
		return false, err
	}
	for i := range entries {
		if entries[i].ReferenceNo == referenceNo {
			return true, nil
		}
	}
	return false, nil
}

// recalculate rewrites the tenant's running balances and returns the
// balance of entry focus
func recalculate(ctx context.Context, repo billing.LedgerRepository, accountID, tenantID, focus uuid.UUID) (decimal.Decimal, error) {
	entries, err := repo.FindByTenant(ctx, accountID, tenantID)
	if err != nil {
		return decimal.Zero, err
	}

	changedIdx := billing.RecalculateBalances(entries)
	if len(changedIdx) > 0 {
		changed := make([]billing.LedgerEntry, len(changedIdx))
		for i, idx := range changedIdx {
			changed[i] = entries[idx]
		}
		if err := repo.UpdateBalances(ctx, changed); err != nil {
			return decimal.Zero, err
		}
	}

	for i := range entries {
		if entries[i].ID == focus {
			return entries[i].Balance, nil
		}
	}
	return decimal.Zero, nil
}
