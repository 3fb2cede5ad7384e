package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
)

// TenantService handles tenant operations
type TenantService struct {
	tenantRepo property.TenantRepository
	leaseRepo  property.LeaseRepository
}

// NewTenantService creates a new TenantService
func NewTenantService(tenantRepo property.TenantRepository, leaseRepo property.LeaseRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		leaseRepo:  leaseRepo,
	}
}

// Create creates an active tenant
func (s *TenantService) Create(ctx context.Context, accountID uuid.UUID, req CreateTenantRequest) (*TenantResponse, error) {
	t, err := property.NewTenant(accountID, req.FullName)
	if err != nil {
		return nil, err
	}
	err = t.UpdateContact(
		t.FullName,
		req.Email,
		req.Phone,
		req.AlternatePhone,
		req.Nationality,
		property.IDProofType(req.IDProofType),
		req.IDProofNumber,
		property.EmergencyContact(req.EmergencyContact),
		req.Notes,
	)
	if err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		t.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// GetByID retrieves a tenant by its ID
func (s *TenantService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// List retrieves a page of tenants
func (s *TenantService) List(ctx context.Context, accountID uuid.UUID, filter TenantListFilter) ([]TenantResponse, int64, error) {
	domainFilter := filter.ToDomain()
	tenants, err := s.tenantRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.tenantRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TenantResponse, len(tenants))
	for i := range tenants {
		responses[i] = ToTenantResponse(&tenants[i])
	}
	return responses, total, nil
}

// Update applies the provided fields to a tenant
func (s *TenantService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	t, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	emergency := t.EmergencyContact
	if req.EmergencyContact != nil {
		emergency = property.EmergencyContact(*req.EmergencyContact)
	}
	proofType := t.IDProofType
	if req.IDProofType != nil {
		proofType = property.IDProofType(*req.IDProofType)
	}
	err = t.UpdateContact(
		stringOr(req.FullName, t.FullName),
		stringOr(req.Email, t.Email),
		stringOr(req.Phone, t.Phone),
		stringOr(req.AlternatePhone, t.AlternatePhone),
		stringOr(req.Nationality, t.Nationality),
		proofType,
		stringOr(req.IDProofNumber, t.IDProofNumber),
		emergency,
		stringOr(req.Notes, t.Notes),
	)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := t.SetStatus(property.TenantStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(t)
	return &resp, nil
}

// Delete deletes a tenant without active leases
func (s *TenantService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	t, err := s.tenantRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	active, err := s.leaseRepo.CountActiveByTenant(ctx, t.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return property.ErrTenantHasLeases
	}
	return s.tenantRepo.DeleteForAccount(ctx, accountID, id)
}
