package billing

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// MaxNumberAttempts bounds the search for an unused document number
const MaxNumberAttempts = 100

// DocumentType identifies a numbered billing document
type DocumentType string

const (
	DocRentInvoice           DocumentType = "rent_invoice"
	DocMaintenanceInvoice    DocumentType = "maintenance_invoice"
	DocFinancialInvoice      DocumentType = "financial_invoice"
	DocMaintenanceRequest    DocumentType = "maintenance_request"
	DocServiceInvoice        DocumentType = "service_invoice"
	DocSecurityDepositRefund DocumentType = "security_deposit_refund"
	DocReceipt               DocumentType = "receipt"
)

var defaultPrefixes = map[DocumentType]string{
	DocRentInvoice:           "RINV",
	DocMaintenanceInvoice:    "MINV",
	DocFinancialInvoice:      "FINV",
	DocMaintenanceRequest:    "MREQ",
	DocServiceInvoice:        "SINV",
	DocSecurityDepositRefund: "SDR",
	DocReceipt:               "RCPT",
}

// DefaultPrefix returns the built-in prefix for a document type
func (t DocumentType) DefaultPrefix() string {
	return defaultPrefixes[t]
}

// IsValid reports whether t is a known document type
func (t DocumentType) IsValid() bool {
	_, ok := defaultPrefixes[t]
	return ok
}

// AllDocumentTypes lists every numbered document type
func AllDocumentTypes() []DocumentType {
	return []DocumentType{
		DocRentInvoice, DocMaintenanceInvoice, DocFinancialInvoice, DocMaintenanceRequest,
		DocServiceInvoice, DocSecurityDepositRefund, DocReceipt,
	}
}

// NumberingPolicy controls prefixes and whether sequences reset monthly
type NumberingPolicy struct {
	Prefixes     map[DocumentType]string
	ResetMonthly bool
}

// DefaultNumberingPolicy resets sequences every month with built-in prefixes
func DefaultNumberingPolicy() NumberingPolicy {
	return NumberingPolicy{ResetMonthly: true}
}

// Prefix returns the configured prefix for t, falling back to the default
func (p NumberingPolicy) Prefix(t DocumentType) string {
	if v, ok := p.Prefixes[t]; ok && v != "" {
		return v
	}
	return t.DefaultPrefix()
}

// Period returns the period part of a number: YYYYMM or YYYY
func (p NumberingPolicy) Period(at time.Time) string {
	if p.ResetMonthly {
		return at.Format("200601")
	}
	return at.Format("2006")
}

// PeriodPrefix is the common prefix of every number in the period,
// e.g. RINV-202501-
func (p NumberingPolicy) PeriodPrefix(t DocumentType, at time.Time) string {
	return p.Prefix(t) + "-" + p.Period(at) + "-"
}

// FormatNumber renders PREFIX-PERIOD-NNN
func (p NumberingPolicy) FormatNumber(t DocumentType, at time.Time, seq int) string {
	return fmt.Sprintf("%s%03d", p.PeriodPrefix(t, at), seq)
}

var sequenceSuffix = regexp.MustCompile(`-(\d{3,})$`)

// ParseSequence extracts the trailing sequence of a document number
func ParseSequence(number string) (int, bool) {
	m := sequenceSuffix.FindStringSubmatch(number)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NumberRegistry records every number issued per account and type
type NumberRegistry interface {
	// MaxSequence returns the highest sequence issued under periodPrefix, 0 if none
	MaxSequence(ctx context.Context, accountID uuid.UUID, docType DocumentType, periodPrefix string) (int, error)
	Exists(ctx context.Context, accountID uuid.UUID, docType DocumentType, number string) (bool, error)

	// Reserve records number as issued; it returns shared.ErrAlreadyExists
	// when another writer took it first
	Reserve(ctx context.Context, accountID uuid.UUID, docType DocumentType, number string) error
}

// NumberGenerator issues unique document numbers
type NumberGenerator struct {
	registry NumberRegistry
	policy   NumberingPolicy
	now      func() time.Time
}

// NewNumberGenerator creates a generator over the registry
func NewNumberGenerator(registry NumberRegistry, policy NumberingPolicy) *NumberGenerator {
	return &NumberGenerator{registry: registry, policy: policy, now: time.Now}
}

// WithClock overrides the time source
func (g *NumberGenerator) WithClock(now func() time.Time) *NumberGenerator {
	g.now = now
	return g
}

// Preview returns the number Next would issue without reserving it
func (g *NumberGenerator) Preview(ctx context.Context, accountID uuid.UUID, docType DocumentType) (string, error) {
	return g.find(ctx, accountID, docType, false)
}

// Next issues and reserves the next number for docType
func (g *NumberGenerator) Next(ctx context.Context, accountID uuid.UUID, docType DocumentType) (string, error) {
	return g.find(ctx, accountID, docType, true)
}

func (g *NumberGenerator) find(ctx context.Context, accountID uuid.UUID, docType DocumentType, reserve bool) (string, error) {
	if !docType.IsValid() {
		return "", ErrInvalidDocumentType
	}
	at := g.now()
	prefix := g.policy.PeriodPrefix(docType, at)

	seq, err := g.registry.MaxSequence(ctx, accountID, docType, prefix)
	if err != nil {
		return "", err
	}
	seq++

	for attempt := 0; attempt < MaxNumberAttempts; attempt, seq = attempt+1, seq+1 {
		number := g.policy.FormatNumber(docType, at, seq)
		exists, err := g.registry.Exists(ctx, accountID, docType, number)
		if err != nil {
			return "", err
		}
		if exists {
			continue
		}
		if !reserve {
			return number, nil
		}
		err = g.registry.Reserve(ctx, accountID, docType, number)
		if err == nil {
			return number, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) {
			return "", err
		}
	}
	return "", ErrNumberExhausted
}
