package property

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Property, error)

	// FindAllForAccount supports filters: status, property_type, island
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Property, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// OccupancyStats returns unit counts keyed by property ID
	OccupancyStats(ctx context.Context, accountID uuid.UUID, propertyIDs []uuid.UUID) (map[uuid.UUID]OccupancyStats, error)
	Save(ctx context.Context, property *Property) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// UnitRepository defines the interface for unit persistence
type UnitRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Unit, error)

	// FindAllForAccount supports filters: property_id, status, is_occupied
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Unit, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	CountByProperty(ctx context.Context, accountID, propertyID uuid.UUID) (int64, error)
	ExistsByNumber(ctx context.Context, propertyID uuid.UUID, unitNumber string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, unit *Unit) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// TenantRepository defines the interface for tenant persistence
type TenantRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Tenant, error)

	// FindAllForAccount supports filters: status; search covers name, email,
	// phone and ID proof number
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Tenant, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tenant *Tenant) error
	DeleteForAccount(ctx context.Context, accountID, id uuid.UUID) error
}

// LeaseRepository defines the interface for lease persistence
type LeaseRepository interface {
	FindByIDForAccount(ctx context.Context, accountID, id uuid.UUID) (*Lease, error)

	// FindAllForAccount supports filters: tenant_id, unit_id, property_id, status
	FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Lease, error)
	CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)
	CountActiveByUnit(ctx context.Context, unitID uuid.UUID, excludeID *uuid.UUID) (int64, error)
	CountActiveByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountByUnit(ctx context.Context, unitID uuid.UUID) (int64, error)

	// FindActiveForMonth returns active leases overlapping the month
	FindActiveForMonth(ctx context.Context, accountID uuid.UUID, month time.Time) ([]Lease, error)
	Save(ctx context.Context, lease *Lease) error
}

// OccupancyRepository stores unit occupancy history
type OccupancyRepository interface {
	Append(ctx context.Context, entry *OccupancyHistory) error
	FindByUnit(ctx context.Context, accountID, unitID uuid.UUID) ([]OccupancyHistory, error)
}
