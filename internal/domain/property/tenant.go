package property

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// TenantStatus is the relationship state of a renter
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusInactive TenantStatus = "inactive"
	TenantStatusFormer   TenantStatus = "former"
)

// IsValid reports whether s is a known tenant status
func (s TenantStatus) IsValid() bool {
	return s == TenantStatusActive || s == TenantStatusInactive || s == TenantStatusFormer
}

// IDProofType is the kind of identity document on file
type IDProofType string

const (
	IDProofNationalID IDProofType = "national_id"
	IDProofPassport   IDProofType = "passport"
)

// IsValid reports whether t is a known ID proof type; empty is allowed
func (t IDProofType) IsValid() bool {
	return t == "" || t == IDProofNationalID || t == IDProofPassport
}

// EmergencyContact is stored inline on the tenant row
type EmergencyContact struct {
	Name     string `gorm:"column:emergency_contact_name;type:varchar(200)"`
	Phone    string `gorm:"column:emergency_contact_phone;type:varchar(50)"`
	Relation string `gorm:"column:emergency_contact_relation;type:varchar(50)"`
}

// Tenant is a person renting one or more units
type Tenant struct {
	shared.AccountAggregateRoot
	FullName         string           `gorm:"type:varchar(200);not null"`
	Email            string           `gorm:"type:varchar(200);index"`
	Phone            string           `gorm:"type:varchar(50)"`
	AlternatePhone   string           `gorm:"type:varchar(50)"`
	EmergencyContact EmergencyContact `gorm:"embedded"`
	Nationality      string           `gorm:"type:varchar(100)"`
	IDProofType      IDProofType      `gorm:"type:varchar(20)"`
	IDProofNumber    string           `gorm:"type:varchar(100)"`
	Status           TenantStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
	Notes            string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates an active tenant
func NewTenant(accountID uuid.UUID, fullName string) (*Tenant, error) {
	fullName = strings.Join(strings.Fields(fullName), " ")
	if fullName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	return &Tenant{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		FullName:             fullName,
		Status:               TenantStatusActive,
	}, nil
}

// FirstName is the first word of the full name
func (t *Tenant) FirstName() string {
	first, _ := splitName(t.FullName)
	return first
}

// LastName is everything after the first word of the full name
func (t *Tenant) LastName() string {
	_, last := splitName(t.FullName)
	return last
}

// UpdateContact replaces the contact and identity details
func (t *Tenant) UpdateContact(fullName, email, phone, altPhone, nationality string, proofType IDProofType, proofNumber string, emergency EmergencyContact, notes string) error {
	fullName = strings.Join(strings.Fields(fullName), " ")
	if fullName == "" {
		return shared.NewDomainError("INVALID_NAME", "Tenant name cannot be empty")
	}
	if !proofType.IsValid() {
		return shared.NewDomainError("INVALID_ID_PROOF_TYPE", "ID proof type must be national_id or passport")
	}
	t.FullName = fullName
	t.Email = strings.TrimSpace(email)
	t.Phone = strings.TrimSpace(phone)
	t.AlternatePhone = strings.TrimSpace(altPhone)
	t.Nationality = nationality
	t.IDProofType = proofType
	t.IDProofNumber = proofNumber
	t.EmergencyContact = emergency
	t.Notes = notes
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetStatus changes the tenant status
func (t *Tenant) SetStatus(status TenantStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Tenant status must be active, inactive or former")
	}
	t.Status = status
	t.UpdatedAt = time.Now()
	return nil
}

func splitName(full string) (string, string) {
	first, rest, _ := strings.Cut(full, " ")
	return first, rest
}
