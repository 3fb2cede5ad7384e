package quotation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContractService handles support contract operations
type ContractService struct {
	contractRepo   quotation.SupportContractRepository
	customerRepo   quotation.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo quotation.SupportContractRepository, customerRepo quotation.CustomerRepository, logger *zap.Logger) *ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		contractRepo: contractRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ContractService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates an active support contract
func (s *ContractService) Create(ctx context.Context, accountID uuid.UUID, req CreateContractRequest) (*ContractResponse, error) {
	if _, err := resolveCustomer(ctx, s.customerRepo, accountID, req.CustomerID); err != nil {
		return nil, err
	}

	c, err := quotation.NewSupportContract(accountID, req.CustomerID, req.ContractType, req.ContractNumber, req.StartDate, req.ExpiryDate)
	if err != nil {
		return nil, err
	}
	if err := c.Update(c.ContractType, c.ContractNumber, req.Products, c.StartDate, c.ExpiryDate, req.Notes); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, accountID, c.ContractNumber, nil); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		c.SetCreatedBy(*req.CreatedBy)
	}
	now := s.now()
	c.ExpireIfDue(now)

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContractResponse(c, now)
	return &resp, nil
}

// GetByID retrieves a contract, expiring it first when it has lapsed
func (s *ContractService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if c.ExpireIfDue(now) {
		if err := s.save(ctx, c); err != nil {
			return nil, err
		}
	}
	resp := ToContractResponse(c, now)
	return &resp, nil
}

// List retrieves a page of contracts. Lapsed active contracts are expired
// before the page is loaded so status filters see the current state.
func (s *ContractService) List(ctx context.Context, accountID uuid.UUID, filter ContractListFilter) ([]ContractResponse, int64, error) {
	if _, err := s.ExpireDue(ctx, accountID); err != nil {
		return nil, 0, err
	}

	domainFilter := filter.ToDomain()
	contracts, err := s.contractRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.contractRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	responses := make([]ContractResponse, len(contracts))
	for i := range contracts {
		responses[i] = ToContractResponse(&contracts[i], now)
	}
	return responses, total, nil
}

// Update applies the provided fields to a contract
func (s *ContractService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateContractRequest) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	start, expiry := c.StartDate, c.ExpiryDate
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.ExpiryDate != nil {
		expiry = *req.ExpiryDate
	}
	number := stringOr(req.ContractNumber, c.ContractNumber)
	if number != c.ContractNumber {
		if err := s.ensureUniqueNumber(ctx, accountID, number, &c.ID); err != nil {
			return nil, err
		}
	}
	err = c.Update(stringOr(req.ContractType, c.ContractType), number, req.Products, start, expiry, stringOr(req.Notes, c.Notes))
	if err != nil {
		return nil, err
	}
	now := s.now()
	c.ExpireIfDue(now)

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContractResponse(c, now)
	return &resp, nil
}

// Delete deletes a contract
func (s *ContractService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.contractRepo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return err
	}
	return s.contractRepo.DeleteForAccount(ctx, accountID, id)
}

// Deactivate marks a contract manually inactive
func (s *ContractService) Deactivate(ctx context.Context, accountID, id uuid.UUID) (*ContractResponse, error) {
	return s.transition(ctx, accountID, id, func(c *quotation.SupportContract, _ time.Time) error {
		return c.Deactivate()
	})
}

// Reactivate restores a manually deactivated contract
func (s *ContractService) Reactivate(ctx context.Context, accountID, id uuid.UUID) (*ContractResponse, error) {
	return s.transition(ctx, accountID, id, func(c *quotation.SupportContract, now time.Time) error {
		return c.Reactivate(now)
	})
}

// ExpireDue expires every active contract of the account past its expiry date
func (s *ContractService) ExpireDue(ctx context.Context, accountID uuid.UUID) (*ExpireResult, error) {
	now := s.now()
	due, err := s.contractRepo.FindDueForExpiry(ctx, accountID, now)
	if err != nil {
		return nil, err
	}

	result := &ExpireResult{ContractNumbers: []string{}}
	for i := range due {
		c := &due[i]
		if !c.ExpireIfDue(now) {
			continue
		}
		if err := s.save(ctx, c); err != nil {
			return result, err
		}
		result.Expired++
		result.ContractNumbers = append(result.ContractNumbers, c.ContractNumber)
	}
	if result.Expired > 0 {
		s.logger.Info("support contracts expired",
			zap.String("account_id", accountID.String()),
			zap.Int("count", result.Expired))
	}
	return result, nil
}

// FindExpiringSoon returns active contracts expiring within the warning window
func (s *ContractService) FindExpiringSoon(ctx context.Context, accountID uuid.UUID) ([]ContractResponse, error) {
	filter := ContractListFilter{Status: string(quotation.ContractStatusActive), Expiring: true, PageSize: shared.MaxPageSize}
	contracts, err := s.contractRepo.FindAllForAccount(ctx, accountID, filter.ToDomain())
	if err != nil {
		return nil, err
	}
	now := s.now()
	responses := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		if contracts[i].IsExpiringSoon(now) {
			responses = append(responses, ToContractResponse(&contracts[i], now))
		}
	}
	return responses, nil
}

func (s *ContractService) transition(ctx context.Context, accountID, id uuid.UUID, apply func(*quotation.SupportContract, time.Time) error) (*ContractResponse, error) {
	c, err := s.contractRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := apply(c, now); err != nil {
		return nil, err
	}
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContractResponse(c, now)
	return &resp, nil
}

func (s *ContractService) save(ctx context.Context, c *quotation.SupportContract) error {
	if err := s.contractRepo.Save(ctx, c); err != nil {
		return err
	}
	return shared.PublishPending(ctx, s.eventPublisher, c)
}

func (s *ContractService) ensureUniqueNumber(ctx context.Context, accountID uuid.UUID, number string, excludeID *uuid.UUID) error {
	exists, err := s.contractRepo.ExistsByNumber(ctx, accountID, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return quotation.ErrDuplicateContract
	}
	return nil
}
