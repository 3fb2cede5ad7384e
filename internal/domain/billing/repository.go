package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// InvoiceTemplateRepository defines the interface for template persistence
type InvoiceTemplateRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*InvoiceTemplate, error)

	// FindAllForAccount orders by is_default desc, name asc. Filtering by
	// template_type also returns templates of type both.
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]InvoiceTemplate, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// FindDefault returns the default active template covering the type
	FindDefault(ctx context.Context, accountID uuid.UUID, templateType TemplateType) (*InvoiceTemplate, error)
	Save(ctx context.Context, template *InvoiceTemplate) error

	// SaveAsDefault clears other defaults of the type in the same transaction
	SaveAsDefault(ctx context.Context, template *InvoiceTemplate) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// RentInvoiceRepository defines the interface for rent invoice persistence
type RentInvoiceRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*RentInvoice, error)

	// FindAllForAccount supports filters: status, tenant_id, unit_id,
	// property_id, month (YYYY-MM)
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]RentInvoice, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// ExistsForUnitMonth reports whether a non-cancelled invoice exists
	ExistsForUnitMonth(ctx context.Context, accountID, unitID uuid.UUID, month time.Time) (bool, error)

	// FindOverdueCandidates returns generated or sent invoices due before asOf
	FindOverdueCandidates(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]RentInvoice, error)
	Save(ctx context.Context, invoice *RentInvoice) error
}

// LedgerRepository defines the interface for tenant ledger persistence
type LedgerRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*LedgerEntry, error)

	// FindAllForAccount supports filters: tenant_id, payment_type,
	// transaction_type, date_from, date_to, balance_status
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// FindByTenant returns every entry of the tenant in ledger order
	FindByTenant(ctx context.Context, accountID, tenantID uuid.UUID) ([]LedgerEntry, error)

	// FindTenantIDs lists tenants with at least one entry
	FindTenantIDs(ctx context.Context, accountID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, entry *LedgerEntry) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// UpdateBalances persists the Balance column of the given entries
	UpdateBalances(ctx context.Context, entries []LedgerEntry) error

	// LockTenant holds a row lock on the tenant until the surrounding
	// transaction ends, so ledger writes for one tenant apply in turn
	LockTenant(ctx context.Context, accountID, tenantID uuid.UUID) error
}

// PaymentRepository defines the interface for unified payment persistence
type PaymentRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Payment, error)

	// FindAllForAccount supports filters: payment_type, status, direction,
	// tenant_id, date_from, date_to
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Payment, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	Summary(ctx context.Context, accountID uuid.UUID, from, to *time.Time) (*PaymentSummary, error)
	Save(ctx context.Context, payment *Payment) error
}
