package property

import "github.com/rentquote/backend/internal/domain/shared"

var (
	ErrPropertyHasUnits   = shared.NewDomainError("PROPERTY_HAS_UNITS", "Property has units and cannot be deleted")
	ErrDuplicateUnit      = shared.NewDomainError("DUPLICATE_UNIT_NUMBER", "Unit number already exists in this property")
	ErrUnitOccupied       = shared.NewDomainError("UNIT_OCCUPIED", "Unit already has an active lease")
	ErrUnitHasLeases      = shared.NewDomainError("UNIT_HAS_LEASES", "Unit has leases and cannot be deleted")
	ErrTenantHasLeases    = shared.NewDomainError("TENANT_HAS_ACTIVE_LEASES", "Tenant has active leases and cannot be deleted")
	ErrLeaseNotActive     = shared.NewDomainError("LEASE_NOT_ACTIVE", "Lease is not active")
	ErrInvalidLeasePeriod = shared.NewDomainError("INVALID_LEASE_PERIOD", "Lease dates are out of order")
)
