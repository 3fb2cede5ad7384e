package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Customer, error)
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByResortCode(ctx context.Context, accountID uuid.UUID, code string) (bool, error)
	// CountReferences counts quotations and contracts pointing at the customer
	CountReferences(ctx context.Context, accountID, id uuid.UUID) (int64, error)
	Save(ctx context.Context, customer *Customer) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// QuotationRepository defines the interface for quotation persistence.
// Items are loaded and saved together with their quotation.
type QuotationRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Quotation, error)

	// FindAllForAccount supports filters: status, customer_id, date_from, date_to
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Quotation, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// Save upserts the quotation and replaces its item set
	Save(ctx context.Context, quotation *Quotation) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error

	// FindExpirable returns draft or sent quotations whose validity has passed
	FindExpirable(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]Quotation, error)
}

// SequenceRepository issues quotation sequence numbers per account and year
type SequenceRepository interface {
	// Next atomically increments and returns the sequence for the year
	Next(ctx context.Context, accountID uuid.UUID, year int) (int, error)

	// Peek returns the value Next would return without consuming it
	Peek(ctx context.Context, accountID uuid.UUID, year int) (int, error)
}

// TermsTemplateRepository defines the interface for terms template persistence
type TermsTemplateRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*TermsTemplate, error)

	// FindAllForAccount supports filters: category_type, is_active
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]TermsTemplate, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// FindActiveByCategory returns active templates, the default first
	FindActiveByCategory(ctx context.Context, accountID uuid.UUID, category TermsCategory) ([]TermsTemplate, error)
	FindByIDs(ctx context.Context, accountID uuid.UUID, ids []uuid.UUID) ([]TermsTemplate, error)
	Save(ctx context.Context, template *TermsTemplate) error

	// SaveAsDefault clears the previous default of the category and saves
	// template as the new default in one transaction
	SaveAsDefault(ctx context.Context, template *TermsTemplate) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// SupportContractRepository defines the interface for contract persistence
type SupportContractRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*SupportContract, error)

	// FindAllForAccount supports filters: status, customer_id, expiring (bool)
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]SupportContract, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsByNumber(ctx context.Context, accountID uuid.UUID, number string, excludeID *uuid.UUID) (bool, error)

	// FindDueForExpiry returns active contracts with expiry_date before asOf
	FindDueForExpiry(ctx context.Context, accountID uuid.UUID, asOf time.Time) ([]SupportContract, error)
	Save(ctx context.Context, contract *SupportContract) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}
