package property

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
)

// PropertyService handles property operations
type PropertyService struct {
	propertyRepo property.PropertyRepository
	unitRepo     property.UnitRepository
}

// NewPropertyService creates a new PropertyService
func NewPropertyService(propertyRepo property.PropertyRepository, unitRepo property.UnitRepository) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
	}
}

// Create creates a new property
func (s *PropertyService) Create(ctx context.Context, accountID uuid.UUID, req CreatePropertyRequest) (*PropertyResponse, error) {
	p, err := property.NewProperty(accountID, req.Name, property.PropertyType(req.PropertyType))
	if err != nil {
		return nil, err
	}
	floors := req.NumberOfFloors
	if floors == 0 {
		floors = 1
	}
	if err := p.Update(p.Name, req.Address, req.Street, req.Island, p.PropertyType, floors, req.Description); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		p.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p, property.OccupancyStats{})
	return &resp, nil
}

// GetByID retrieves a property with its unit counts
func (s *PropertyService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	stats, err := s.propertyRepo.OccupancyStats(ctx, accountID, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	resp := ToPropertyResponse(p, stats[p.ID])
	return &resp, nil
}

// List retrieves a page of properties. Unit counts for the page are loaded
// in one query.
func (s *PropertyService) List(ctx context.Context, accountID uuid.UUID, filter PropertyListFilter) ([]PropertyResponse, int64, error) {
	domainFilter := filter.ToDomain()
	properties, err := s.propertyRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.propertyRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(properties))
	for i := range properties {
		ids[i] = properties[i].ID
	}
	stats := map[uuid.UUID]property.OccupancyStats{}
	if len(ids) > 0 {
		if stats, err = s.propertyRepo.OccupancyStats(ctx, accountID, ids); err != nil {
			return nil, 0, err
		}
	}

	responses := make([]PropertyResponse, len(properties))
	for i := range properties {
		responses[i] = ToPropertyResponse(&properties[i], stats[properties[i].ID])
	}
	return responses, total, nil
}

// Update applies the provided fields to a property
func (s *PropertyService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdatePropertyRequest) (*PropertyResponse, error) {
	p, err := s.propertyRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	propertyType := p.PropertyType
	if req.PropertyType != nil {
		propertyType = property.PropertyType(*req.PropertyType)
	}
	floors := p.NumberOfFloors
	if req.NumberOfFloors != nil {
		floors = *req.NumberOfFloors
	}
	err = p.Update(
		stringOr(req.Name, p.Name),
		stringOr(req.Address, p.Address),
		stringOr(req.Street, p.Street),
		stringOr(req.Island, p.Island),
		propertyType,
		floors,
		stringOr(req.Description, p.Description),
	)
	if err != nil {
		return nil, err
	}
	if req.Status != nil {
		if err := p.SetStatus(property.PropertyStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.propertyRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, accountID, p.ID)
}

// Delete deletes a property that has no units
func (s *PropertyService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.propertyRepo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return err
	}
	units, err := s.unitRepo.CountByProperty(ctx, accountID, id)
	if err != nil {
		return err
	}
	if units > 0 {
		return property.ErrPropertyHasUnits
	}
	return s.propertyRepo.DeleteForAccount(ctx, accountID, id)
}

// resolveProperty loads a property referenced by another record
func resolveProperty(ctx context.Context, repo property.PropertyRepository, accountID, id uuid.UUID) (*property.Property, error) {
	p, err := repo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PROPERTY", "Property not found")
		}
		return nil, err
	}
	return p, nil
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
