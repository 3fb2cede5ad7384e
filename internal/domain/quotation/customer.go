package quotation

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownResortCode is used when a customer has no resort name to derive from
const UnknownResortCode = "UNK"

// Customer is a resort or company that receives quotations
type Customer struct {
	shared.AccountAggregateRoot
	ResortName     string `gorm:"type:varchar(200);not null"`
	ResortCode     string `gorm:"type:varchar(10);not null;uniqueIndex:idx_customer_account_code"`
	HoldingCompany string `gorm:"type:varchar(200)"`
	Address        string `gorm:"type:text"`
	Country        string `gorm:"type:varchar(100)"`
	TaxNumber      string `gorm:"type:varchar(50)"`
	PaymentTerms   string `gorm:"type:varchar(200)"`
	Email          string `gorm:"type:varchar(200)"`
	Phone          string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a customer. The resort code is assigned by the caller
// through SetResortCode once uniqueness has been checked.
func NewCustomer(accountID uuid.UUID, resortName string) (*Customer, error) {
	resortName = strings.TrimSpace(resortName)
	if resortName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Resort name cannot be empty")
	}
	return &Customer{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		ResortName:           resortName,
	}, nil
}

// UpdateDetails replaces the contact and billing details
func (c *Customer) UpdateDetails(resortName, holdingCompany, address, country, taxNumber, paymentTerms, email, phone string) error {
	resortName = strings.TrimSpace(resortName)
	if resortName == "" {
		return shared.NewDomainError("INVALID_NAME", "Resort name cannot be empty")
	}
	c.ResortName = resortName
	c.HoldingCompany = holdingCompany
	c.Address = address
	c.Country = country
	c.TaxNumber = taxNumber
	c.PaymentTerms = paymentTerms
	c.Email = email
	c.Phone = phone
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetResortCode assigns the short code used in quotation numbers
func (c *Customer) SetResortCode(code string) {
	c.ResortCode = strings.ToUpper(code)
	c.UpdatedAt = time.Now()
}

// BaseResortCode derives a 3-character code from the initials of the resort
// name, padded with X. "Sun Island Resort" gives "SIR", "Kurumba" gives "KXX".
// Accents are dropped, so "Élan Island Resort" gives "EIR". Words without a
// letter or digit are skipped.
func BaseResortCode(resortName string) string {
	initials := make([]rune, 0, 3)
	for _, w := range strings.Fields(foldAccents(resortName)) {
		if len(initials) == 3 {
			break
		}
		for _, r := range w {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
	}
	if len(initials) == 0 {
		return UnknownResortCode
	}
	for len(initials) < 3 {
		initials = append(initials, 'X')
	}
	return string(initials)
}

// foldAccents strips combining marks: "Élan" becomes "Elan"
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// ResortCodeCandidate returns the attempt-th candidate code: the base code
// first, then the first two characters followed by a counter (SI1, SI2, ...,
// SI10, ...).
func ResortCodeCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	prefix := []rune(base)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return string(prefix) + strconv.Itoa(attempt)
}
