package property

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/shopspring/decimal"
)

// UnitService handles unit operations
type UnitService struct {
	unitRepo      property.UnitRepository
	propertyRepo  property.PropertyRepository
	leaseRepo     property.LeaseRepository
	occupancyRepo property.OccupancyRepository
}

// NewUnitService creates a new UnitService
func NewUnitService(
	unitRepo property.UnitRepository,
	propertyRepo property.PropertyRepository,
	leaseRepo property.LeaseRepository,
	occupancyRepo property.OccupancyRepository,
) *UnitService {
	return &UnitService{
		unitRepo:      unitRepo,
		propertyRepo:  propertyRepo,
		leaseRepo:     leaseRepo,
		occupancyRepo: occupancyRepo,
	}
}

// Create creates a unit in a property. Unit numbers are unique per property.
func (s *UnitService) Create(ctx context.Context, accountID uuid.UUID, req CreateUnitRequest) (*UnitResponse, error) {
	if _, err := resolveProperty(ctx, s.propertyRepo, accountID, req.PropertyID); err != nil {
		return nil, err
	}

	u, err := property.NewUnit(accountID, req.PropertyID, req.UnitNumber, req.RentAmount)
	if err != nil {
		return nil, err
	}
	deposit := decimal.Zero
	if req.SecurityDeposit != nil {
		deposit = *req.SecurityDeposit
	}
	if err := u.Update(u.UnitNumber, req.UnitType, req.Floor, u.RentAmount, deposit, req.Currency); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, u.PropertyID, u.UnitNumber, nil); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		u.SetCreatedBy(*req.CreatedBy)
	}

	if err := s.unitRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// GetByID retrieves a unit by its ID
func (s *UnitService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*UnitResponse, error) {
	u, err := s.unitRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// List retrieves a page of units
func (s *UnitService) List(ctx context.Context, accountID uuid.UUID, filter UnitListFilter) ([]UnitResponse, int64, error) {
	domainFilter := filter.ToDomain()
	units, err := s.unitRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.unitRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]UnitResponse, len(units))
	for i := range units {
		responses[i] = ToUnitResponse(&units[i])
	}
	return responses, total, nil
}

// Update applies the provided fields to a unit. Occupancy is not editable;
// it follows the unit's leases.
func (s *UnitService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateUnitRequest) (*UnitResponse, error) {
	u, err := s.unitRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	number := stringOr(req.UnitNumber, u.UnitNumber)
	if number != u.UnitNumber {
		if err := s.ensureUniqueNumber(ctx, u.PropertyID, number, &u.ID); err != nil {
			return nil, err
		}
	}
	floor := u.Floor
	if req.Floor != nil {
		floor = *req.Floor
	}
	err = u.Update(
		number,
		stringOr(req.UnitType, u.UnitType),
		floor,
		decimalOr(req.RentAmount, u.RentAmount),
		decimalOr(req.SecurityDeposit, u.SecurityDeposit),
		stringOr(req.Currency, u.Currency),
	)
	if err != nil {
		return nil, err
	}
	if req.Maintenance != nil {
		if err := u.SetMaintenance(*req.Maintenance); err != nil {
			return nil, err
		}
	}

	if err := s.unitRepo.Save(ctx, u); err != nil {
		return nil, err
	}
	resp := ToUnitResponse(u)
	return &resp, nil
}

// Delete deletes a unit that never had a lease
func (s *UnitService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	u, err := s.unitRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	leases, err := s.leaseRepo.CountByUnit(ctx, u.ID)
	if err != nil {
		return err
	}
	if leases > 0 {
		return property.ErrUnitHasLeases
	}
	return s.unitRepo.DeleteForAccount(ctx, accountID, id)
}

// OccupancyHistory returns the move-in and move-out records of a unit
func (s *UnitService) OccupancyHistory(ctx context.Context, accountID, id uuid.UUID) ([]OccupancyEntryResponse, error) {
	if _, err := s.unitRepo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return nil, err
	}
	entries, err := s.occupancyRepo.FindByUnit(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	responses := make([]OccupancyEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = OccupancyEntryResponse{
			ID:       e.ID,
			UnitID:   e.UnitID,
			TenantID: e.TenantID,
			LeaseID:  e.LeaseID,
			Action:   string(e.Action),
			Date:     e.Date,
			Notes:    e.Notes,
		}
	}
	return responses, nil
}

func (s *UnitService) ensureUniqueNumber(ctx context.Context, propertyID uuid.UUID, number string, excludeID *uuid.UUID) error {
	exists, err := s.unitRepo.ExistsByNumber(ctx, propertyID, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return property.ErrDuplicateUnit
	}
	return nil
}

func decimalOr(v *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if v != nil {
		return *v
	}
	return fallback
}
