package quotation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
)

// maxResortCodeAttempts bounds the search for a free resort code: the base
// code plus numbered variants up to SI999, which still fits the 10-character
// column
const maxResortCodeAttempts = 1000

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo quotation.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo quotation.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a customer and allocates its resort code
func (s *CustomerService) Create(ctx context.Context, accountID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := quotation.NewCustomer(accountID, req.ResortName)
	if err != nil {
		return nil, err
	}
	if err := customer.UpdateDetails(req.ResortName, req.HoldingCompany, req.Address, req.Country, req.TaxNumber, req.PaymentTerms, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		customer.SetCreatedBy(*req.CreatedBy)
	}

	code, err := s.allocateResortCode(ctx, accountID, customer.ResortName)
	if err != nil {
		return nil, err
	}
	customer.SetResortCode(code)

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves a page of customers
func (s *CustomerService) List(ctx context.Context, accountID uuid.UUID, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := filter.ToDomain()

	customers, err := s.customerRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.customerRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update applies the provided fields to a customer
func (s *CustomerService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	err = customer.UpdateDetails(
		stringOr(req.ResortName, customer.ResortName),
		stringOr(req.HoldingCompany, customer.HoldingCompany),
		stringOr(req.Address, customer.Address),
		stringOr(req.Country, customer.Country),
		stringOr(req.TaxNumber, customer.TaxNumber),
		stringOr(req.PaymentTerms, customer.PaymentTerms),
		stringOr(req.Email, customer.Email),
		stringOr(req.Phone, customer.Phone),
	)
	if err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete deletes a customer that no quotation or contract refers to
func (s *CustomerService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return err
	}
	refs, err := s.customerRepo.CountReferences(ctx, accountID, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return quotation.ErrCustomerInUse
	}
	return s.customerRepo.DeleteForAccount(ctx, accountID, id)
}

// allocateResortCode tries the initials first, then numbered variants
func (s *CustomerService) allocateResortCode(ctx context.Context, accountID uuid.UUID, resortName string) (string, error) {
	base := quotation.BaseResortCode(resortName)
	for attempt := 0; attempt < maxResortCodeAttempts; attempt++ {
		candidate := quotation.ResortCodeCandidate(base, attempt)
		taken, err := s.customerRepo.ExistsByResortCode(ctx, accountID, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", quotation.ErrResortCodeExhausted
}

// resolveCustomer loads a customer for another aggregate, reporting a
// missing one as an input error
func resolveCustomer(ctx context.Context, repo quotation.CustomerRepository, accountID, customerID uuid.UUID) (*quotation.Customer, error) {
	customer, err := repo.FindByIDForAccount(ctx, accountID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer not found")
		}
		return nil, err
	}
	return customer, nil
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
