package property

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Property DTOs
// ============================================================================

// CreatePropertyRequest represents a request to create a property
type CreatePropertyRequest struct {
	Name           string     `json:"name" binding:"required,min=1,max=200"`
	Address        string     `json:"address"`
	Street         string     `json:"street" binding:"max=200"`
	Island         string     `json:"island" binding:"max=100"`
	PropertyType   string     `json:"property_type" binding:"required,oneof=residential commercial"`
	NumberOfFloors int        `json:"number_of_floors" binding:"omitempty,min=1"`
	Description    string     `json:"description"`
	CreatedBy      *uuid.UUID `json:"-"`
}

// UpdatePropertyRequest represents a request to update a property
type UpdatePropertyRequest struct {
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address        *string `json:"address"`
	Street         *string `json:"street" binding:"omitempty,max=200"`
	Island         *string `json:"island" binding:"omitempty,max=100"`
	PropertyType   *string `json:"property_type" binding:"omitempty,oneof=residential commercial"`
	NumberOfFloors *int    `json:"number_of_floors" binding:"omitempty,min=1"`
	Description    *string `json:"description"`
	Status         *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	Street         string    `json:"street"`
	Island         string    `json:"island"`
	PropertyType   string    `json:"property_type"`
	NumberOfFloors int       `json:"number_of_floors"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	TotalUnits     int64     `json:"total_units"`
	OccupiedUnits  int64     `json:"occupied_units"`
	OccupancyRate  float64   `json:"occupancy_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PropertyListFilter represents filter options for the property list
type PropertyListFilter struct {
	Search       string `form:"search"`
	Status       string `form:"status" binding:"omitempty,oneof=active inactive"`
	PropertyType string `form:"property_type" binding:"omitempty,oneof=residential commercial"`
	Island       string `form:"island"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage      int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy      string `form:"order_by" binding:"omitempty,oneof=name island property_type created_at"`
	OrderDir     string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f PropertyListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	setIfNotEmpty(filter.Filters, "property_type", f.PropertyType)
	setIfNotEmpty(filter.Filters, "island", f.Island)
	return filter.Normalize()
}

// ToPropertyResponse converts a property and its unit counts to a response
func ToPropertyResponse(p *property.Property, stats property.OccupancyStats) PropertyResponse {
	return PropertyResponse{
		ID:             p.ID,
		Name:           p.Name,
		Address:        p.Address,
		Street:         p.Street,
		Island:         p.Island,
		PropertyType:   string(p.PropertyType),
		NumberOfFloors: p.NumberOfFloors,
		Description:    p.Description,
		Status:         string(p.Status),
		TotalUnits:     stats.TotalUnits,
		OccupiedUnits:  stats.OccupiedUnits,
		OccupancyRate:  stats.Rate(),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ============================================================================
// Unit DTOs
// ============================================================================

// CreateUnitRequest represents a request to create a unit
type CreateUnitRequest struct {
	PropertyID      uuid.UUID        `json:"property_id" binding:"required"`
	UnitNumber      string           `json:"unit_number" binding:"required,min=1,max=50"`
	UnitType        string           `json:"unit_type" binding:"max=50"`
	Floor           int              `json:"floor"`
	RentAmount      decimal.Decimal  `json:"rent_amount"`
	SecurityDeposit *decimal.Decimal `json:"security_deposit"`
	Currency        string           `json:"currency" binding:"omitempty,len=3"`
	CreatedBy       *uuid.UUID       `json:"-"`
}

// UpdateUnitRequest represents a request to update a unit
type UpdateUnitRequest struct {
	UnitNumber      *string          `json:"unit_number" binding:"omitempty,min=1,max=50"`
	UnitType        *string          `json:"unit_type" binding:"omitempty,max=50"`
	Floor           *int             `json:"floor"`
	RentAmount      *decimal.Decimal `json:"rent_amount"`
	SecurityDeposit *decimal.Decimal `json:"security_deposit"`
	Currency        *string          `json:"currency" binding:"omitempty,len=3"`
	Maintenance     *bool            `json:"maintenance"`
}

// UnitResponse represents a unit in API responses
type UnitResponse struct {
	ID              uuid.UUID       `json:"id"`
	PropertyID      uuid.UUID       `json:"property_id"`
	UnitNumber      string          `json:"unit_number"`
	UnitType        string          `json:"unit_type"`
	Floor           int             `json:"floor"`
	RentAmount      decimal.Decimal `json:"rent_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	Currency        string          `json:"currency"`
	IsOccupied      bool            `json:"is_occupied"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// UnitListFilter represents filter options for the unit list
type UnitListFilter struct {
	Search     string `form:"search"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=available occupied maintenance"`
	IsOccupied *bool  `form:"is_occupied"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=unit_number floor rent_amount created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f UnitListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "property_id", f.PropertyID)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	if f.IsOccupied != nil {
		filter.Filters["is_occupied"] = *f.IsOccupied
	}
	return filter.Normalize()
}

// ToUnitResponse converts a domain unit to a response
func ToUnitResponse(u *property.Unit) UnitResponse {
	return UnitResponse{
		ID:              u.ID,
		PropertyID:      u.PropertyID,
		UnitNumber:      u.UnitNumber,
		UnitType:        u.UnitType,
		Floor:           u.Floor,
		RentAmount:      u.RentAmount,
		SecurityDeposit: u.SecurityDeposit,
		Currency:        u.Currency,
		IsOccupied:      u.IsOccupied,
		Status:          string(u.Status),
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// OccupancyEntryResponse is one row of a unit's occupancy history
type OccupancyEntryResponse struct {
	ID       uuid.UUID `json:"id"`
	UnitID   uuid.UUID `json:"unit_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	LeaseID  uuid.UUID `json:"lease_id"`
	Action   string    `json:"action"`
	Date     time.Time `json:"action_date"`
	Notes    string    `json:"notes"`
}

// ============================================================================
// Tenant DTOs
// ============================================================================

// EmergencyContactDTO is the emergency contact of a tenant
type EmergencyContactDTO struct {
	Name     string `json:"name" binding:"max=200"`
	Phone    string `json:"phone" binding:"max=50"`
	Relation string `json:"relation" binding:"max=50"`
}

// CreateTenantRequest represents a request to create a tenant
type CreateTenantRequest struct {
	FullName         string              `json:"full_name" binding:"required,min=1,max=200"`
	Email            string              `json:"email" binding:"omitempty,email"`
	Phone            string              `json:"phone" binding:"max=50"`
	AlternatePhone   string              `json:"alternate_phone" binding:"max=50"`
	EmergencyContact EmergencyContactDTO `json:"emergency_contact"`
	Nationality      string              `json:"nationality" binding:"max=100"`
	IDProofType      string              `json:"id_proof_type" binding:"omitempty,oneof=national_id passport"`
	IDProofNumber    string              `json:"id_proof_number" binding:"max=100"`
	Notes            string              `json:"notes"`
	CreatedBy        *uuid.UUID          `json:"-"`
}

// UpdateTenantRequest represents a request to update a tenant
type UpdateTenantRequest struct {
	FullName         *string              `json:"full_name" binding:"omitempty,min=1,max=200"`
	Email            *string              `json:"email" binding:"omitempty,email"`
	Phone            *string              `json:"phone" binding:"omitempty,max=50"`
	AlternatePhone   *string              `json:"alternate_phone" binding:"omitempty,max=50"`
	EmergencyContact *EmergencyContactDTO `json:"emergency_contact"`
	Nationality      *string              `json:"nationality" binding:"omitempty,max=100"`
	IDProofType      *string              `json:"id_proof_type" binding:"omitempty,oneof=national_id passport"`
	IDProofNumber    *string              `json:"id_proof_number" binding:"omitempty,max=100"`
	Notes            *string              `json:"notes"`
	Status           *string              `json:"status" binding:"omitempty,oneof=active inactive former"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID               uuid.UUID           `json:"id"`
	FullName         string              `json:"full_name"`
	FirstName        string              `json:"first_name"`
	LastName         string              `json:"last_name"`
	Email            string              `json:"email"`
	Phone            string              `json:"phone"`
	AlternatePhone   string              `json:"alternate_phone"`
	EmergencyContact EmergencyContactDTO `json:"emergency_contact"`
	Nationality      string              `json:"nationality"`
	IDProofType      string              `json:"id_proof_type"`
	IDProofNumber    string              `json:"id_proof_number"`
	Status           string              `json:"status"`
	Notes            string              `json:"notes"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// TenantListFilter represents filter options for the tenant list
type TenantListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=active inactive former"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=full_name email status created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f TenantListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	return filter.Normalize()
}

// ToTenantResponse converts a domain tenant to a response
func ToTenantResponse(t *property.Tenant) TenantResponse {
	return TenantResponse{
		ID:             t.ID,
		FullName:       t.FullName,
		FirstName:      t.FirstName(),
		LastName:       t.LastName(),
		Email:          t.Email,
		Phone:          t.Phone,
		AlternatePhone: t.AlternatePhone,
		EmergencyContact: EmergencyContactDTO{
			Name:     t.EmergencyContact.Name,
			Phone:    t.EmergencyContact.Phone,
			Relation: t.EmergencyContact.Relation,
		},
		Nationality:   t.Nationality,
		IDProofType:   string(t.IDProofType),
		IDProofNumber: t.IDProofNumber,
		Status:        string(t.Status),
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

// ============================================================================
// Lease DTOs
// ============================================================================

// CreateLeaseRequest represents a request to rent a unit to a tenant
type CreateLeaseRequest struct {
	TenantID            uuid.UUID        `json:"tenant_id" binding:"required"`
	UnitID              uuid.UUID        `json:"unit_id" binding:"required"`
	LeaseStart          time.Time        `json:"lease_start" binding:"required"`
	LeaseEnd            *time.Time       `json:"lease_end"`
	MonthlyRent         *decimal.Decimal `json:"monthly_rent"`
	Currency            string           `json:"currency" binding:"omitempty,len=3"`
	SecurityDepositPaid decimal.Decimal  `json:"security_deposit_paid"`
	AdvanceRentMonths   int              `json:"advance_rent_months" binding:"min=0"`
	NoticePeriodDays    *int             `json:"notice_period_days" binding:"omitempty,min=0"`
	LockInMonths        int              `json:"lock_in_months" binding:"min=0"`
	Notes               string           `json:"notes"`
	CreatedBy           *uuid.UUID       `json:"-"`
}

// UpdateLeaseRequest represents a request to change the terms of a lease
type UpdateLeaseRequest struct {
	LeaseStart          *time.Time       `json:"lease_start"`
	LeaseEnd            *time.Time       `json:"lease_end"`
	MonthlyRent         *decimal.Decimal `json:"monthly_rent"`
	Currency            *string          `json:"currency" binding:"omitempty,len=3"`
	SecurityDepositPaid *decimal.Decimal `json:"security_deposit_paid"`
	AdvanceRentMonths   *int             `json:"advance_rent_months" binding:"omitempty,min=0"`
	NoticePeriodDays    *int             `json:"notice_period_days" binding:"omitempty,min=0"`
	LockInMonths        *int             `json:"lock_in_months" binding:"omitempty,min=0"`
	Notes               *string          `json:"notes"`
}

// EndLeaseRequest represents a tenant moving out
type EndLeaseRequest struct {
	MoveOutDate time.Time `json:"move_out_date" binding:"required"`
	Reason      string    `json:"reason" binding:"max=500"`
}

// LeaseResponse represents a lease in API responses
type LeaseResponse struct {
	ID                  uuid.UUID       `json:"id"`
	TenantID            uuid.UUID       `json:"tenant_id"`
	UnitID              uuid.UUID       `json:"unit_id"`
	LeaseStart          time.Time       `json:"lease_start"`
	LeaseEnd            *time.Time      `json:"lease_end,omitempty"`
	MonthlyRent         decimal.Decimal `json:"monthly_rent"`
	Currency            string          `json:"currency"`
	SecurityDepositPaid decimal.Decimal `json:"security_deposit_paid"`
	AdvanceRentMonths   int             `json:"advance_rent_months"`
	AdvanceRentAmount   decimal.Decimal `json:"advance_rent_amount"`
	NoticePeriodDays    int             `json:"notice_period_days"`
	LockInMonths        int             `json:"lock_in_months"`
	Status              string          `json:"status"`
	MoveOutDate         *time.Time      `json:"move_out_date,omitempty"`
	Notes               string          `json:"notes"`
	Tenant              *TenantResponse `json:"tenant,omitempty"`
	Unit                *UnitResponse   `json:"unit,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// LeaseListFilter represents filter options for the lease list
type LeaseListFilter struct {
	Search     string `form:"search"`
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	UnitID     string `form:"unit_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active ended cancelled"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=lease_start lease_end monthly_rent created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f LeaseListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "tenant_id", f.TenantID)
	setIfNotEmpty(filter.Filters, "unit_id", f.UnitID)
	setIfNotEmpty(filter.Filters, "property_id", f.PropertyID)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	return filter.Normalize()
}

// ToLeaseResponse converts a domain lease to a response
func ToLeaseResponse(l *property.Lease) LeaseResponse {
	return LeaseResponse{
		ID:                  l.ID,
		TenantID:            l.TenantID,
		UnitID:              l.UnitID,
		LeaseStart:          l.LeaseStart,
		LeaseEnd:            l.LeaseEnd,
		MonthlyRent:         l.MonthlyRent,
		Currency:            l.Currency,
		SecurityDepositPaid: l.SecurityDepositPaid,
		AdvanceRentMonths:   l.AdvanceRentMonths,
		AdvanceRentAmount:   l.AdvanceRentAmount,
		NoticePeriodDays:    l.NoticePeriodDays,
		LockInMonths:        l.LockInMonths,
		Status:              string(l.Status),
		MoveOutDate:         l.MoveOutDate,
		Notes:               l.Notes,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
	}
}

func newFilter(search string, page, size int, orderBy, orderDir string) shared.Filter {
	return shared.Filter{
		Page:     page,
		PageSize: size,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  map[string]any{},
	}
}

func setIfNotEmpty(filters map[string]any, key, value string) {
	if value != "" {
		filters[key] = value
	}
}

func pageSize(size, perPage int) int {
	if size > 0 {
		return size
	}
	return perPage
}
