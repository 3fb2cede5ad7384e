package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Number DTOs
// ============================================================================

// NumberResponse is an issued or previewed document number
type NumberResponse struct {
	Type   string `json:"type"`
	Number string `json:"number"`
}

// ============================================================================
// Invoice template DTOs
// ============================================================================

// CreateTemplateRequest represents a request to create an invoice template
type CreateTemplateRequest struct {
	Name         string     `json:"name" binding:"required,min=1,max=200"`
	TemplateType string     `json:"template_type" binding:"required,oneof=rent maintenance both"`
	TemplateData string     `json:"template_data"`
	HTMLContent  string     `json:"html_content" binding:"required"`
	Styles       string     `json:"styles"`
	IsDefault    bool       `json:"is_default"`
	CreatedBy    *uuid.UUID `json:"-"`
}

// UpdateTemplateRequest represents a request to update an invoice template
type UpdateTemplateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=200"`
	TemplateType *string `json:"template_type" binding:"omitempty,oneof=rent maintenance both"`
	TemplateData *string `json:"template_data"`
	HTMLContent  *string `json:"html_content"`
	Styles       *string `json:"styles"`
	IsActive     *bool   `json:"is_active"`
}

// TemplateResponse represents an invoice template in API responses
type TemplateResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	TemplateType string    `json:"template_type"`
	TemplateData string    `json:"template_data"`
	HTMLContent  string    `json:"html_content"`
	Styles       string    `json:"styles"`
	LogoPath     string    `json:"logo_path"`
	IsActive     bool      `json:"is_active"`
	IsDefault    bool      `json:"is_default"`
	Placeholders []string  `json:"placeholders"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TemplateListFilter represents filter options for the template list
type TemplateListFilter struct {
	Search       string `form:"search"`
	TemplateType string `form:"template_type" binding:"omitempty,oneof=rent maintenance both"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage      int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ToDomain converts the list filter to a shared.Filter. Ordering is fixed
// by the repository.
func (f TemplateListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), "", "")
	setIfNotEmpty(filter.Filters, "template_type", f.TemplateType)
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter.Normalize()
}

// PreviewRequest selects the data a template preview is rendered with.
// Without a lease, sample data is used.
type PreviewRequest struct {
	LeaseID       *uuid.UUID `json:"lease_id"`
	InvoiceNumber string     `json:"invoice_number"`
	HTMLContent   *string    `json:"html_content"`
}

// PreviewResponse is a rendered template
type PreviewResponse struct {
	HTML      string            `json:"html"`
	Variables map[string]string `json:"variables"`
}

// UploadURLRequest asks for a presigned logo upload URL
type UploadURLRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse is a presigned upload target
type UploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToTemplateResponse converts a domain template to a response
func ToTemplateResponse(t *billing.InvoiceTemplate) TemplateResponse {
	placeholders := billing.Placeholders(t.HTMLContent)
	if placeholders == nil {
		placeholders = []string{}
	}
	return TemplateResponse{
		ID:           t.ID,
		Name:         t.Name,
		TemplateType: string(t.Type),
		TemplateData: t.TemplateData,
		HTMLContent:  t.HTMLContent,
		Styles:       t.Styles,
		LogoPath:     t.LogoPath,
		IsActive:     t.IsActive,
		IsDefault:    t.IsDefault,
		Placeholders: placeholders,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ============================================================================
// Rent invoice DTOs
// ============================================================================

// GenerateInvoicesRequest asks for the rent invoices of a month
type GenerateInvoicesRequest struct {
	// Month in YYYY-MM; defaults to the current month
	Month string `json:"month" binding:"omitempty,datetime=2006-01"`
}

// PayInvoiceRequest records money received against an invoice
type PayInvoiceRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	PaidDate *time.Time      `json:"paid_date"`
}

// RentInvoiceResponse represents a rent invoice in API responses
type RentInvoiceResponse struct {
	ID            uuid.UUID       `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	LeaseID       uuid.UUID       `json:"lease_id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	UnitID        uuid.UUID       `json:"unit_id"`
	PropertyID    uuid.UUID       `json:"property_id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	RentAmount    decimal.Decimal `json:"rent_amount"`
	LateFee       decimal.Decimal `json:"late_fee"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	HasPDF        bool            `json:"has_pdf"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RentInvoiceListFilter represents filter options for the rent invoice list
type RentInvoiceListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=generated sent paid partial overdue cancelled"`
	TenantID   string `form:"tenant_id" binding:"omitempty,uuid"`
	UnitID     string `form:"unit_id" binding:"omitempty,uuid"`
	PropertyID string `form:"property_id" binding:"omitempty,uuid"`
	Month      string `form:"month" binding:"omitempty,datetime=2006-01"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=invoice_number invoice_date due_date total_amount created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f RentInvoiceListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	setIfNotEmpty(filter.Filters, "tenant_id", f.TenantID)
	setIfNotEmpty(filter.Filters, "unit_id", f.UnitID)
	setIfNotEmpty(filter.Filters, "property_id", f.PropertyID)
	setIfNotEmpty(filter.Filters, "month", f.Month)
	return filter.Normalize()
}

// PDFResponse points at a rendered invoice PDF
type PDFResponse struct {
	InvoiceNumber string    `json:"invoice_number"`
	StorageKey    string    `json:"storage_key"`
	DownloadURL   string    `json:"download_url"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ToRentInvoiceResponse converts a domain invoice to a response
func ToRentInvoiceResponse(i *billing.RentInvoice) RentInvoiceResponse {
	return RentInvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		LeaseID:       i.LeaseID,
		TenantID:      i.TenantID,
		UnitID:        i.UnitID,
		PropertyID:    i.PropertyID,
		InvoiceDate:   i.InvoiceDate,
		DueDate:       i.DueDate,
		RentAmount:    i.RentAmount,
		LateFee:       i.LateFee,
		TotalAmount:   i.TotalAmount,
		PaidAmount:    i.PaidAmount,
		Balance:       i.Balance(),
		Currency:      i.Currency,
		Status:        string(i.Status),
		PaidDate:      i.PaidDate,
		HasPDF:        i.PDFPath != "",
		Notes:         i.Notes,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ============================================================================
// Ledger DTOs
// ============================================================================

// CreateLedgerEntryRequest represents a request to post a ledger entry
type CreateLedgerEntryRequest struct {
	TenantID        uuid.UUID       `json:"tenant_id" binding:"required"`
	LeaseID         *uuid.UUID      `json:"tenant_unit_id"`
	TransactionDate time.Time       `json:"transaction_date" binding:"required"`
	PaymentType     string          `json:"payment_type" binding:"required,oneof=rent deposit fee maintenance refund other"`
	Description     string          `json:"description"`
	ReferenceNo     string          `json:"reference_no" binding:"max=100"`
	DebitAmount     decimal.Decimal `json:"debit_amount"`
	CreditAmount    decimal.Decimal `json:"credit_amount"`
	PaymentMethod   string          `json:"payment_method" binding:"max=50"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// UpdateLedgerEntryRequest represents a request to change a ledger entry.
// The tenant of an entry is fixed.
type UpdateLedgerEntryRequest struct {
	LeaseID         *uuid.UUID       `json:"tenant_unit_id"`
	TransactionDate *time.Time       `json:"transaction_date"`
	PaymentType     *string          `json:"payment_type" binding:"omitempty,oneof=rent deposit fee maintenance refund other"`
	Description     *string          `json:"description"`
	ReferenceNo     *string          `json:"reference_no" binding:"omitempty,max=100"`
	DebitAmount     *decimal.Decimal `json:"debit_amount"`
	CreditAmount    *decimal.Decimal `json:"credit_amount"`
	PaymentMethod   *string          `json:"payment_method" binding:"omitempty,max=50"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	LeaseID         *uuid.UUID      `json:"tenant_unit_id,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	TransactionType string          `json:"transaction_type"`
	PaymentType     string          `json:"payment_type"`
	Description     string          `json:"description"`
	ReferenceNo     string          `json:"reference_no"`
	DebitAmount     decimal.Decimal `json:"debit_amount"`
	CreditAmount    decimal.Decimal `json:"credit_amount"`
	Balance         decimal.Decimal `json:"balance"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// LedgerListFilter represents filter options for the ledger list
type LedgerListFilter struct {
	Search          string `form:"search"`
	TenantID        string `form:"tenant_id" binding:"omitempty,uuid"`
	PaymentType     string `form:"payment_type" binding:"omitempty,oneof=rent deposit fee maintenance refund other"`
	TransactionType string `form:"transaction_type" binding:"omitempty,oneof=debit credit"`
	DateFrom        string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo          string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	BalanceStatus   string `form:"balance_status" binding:"omitempty,oneof=positive negative"`
	Page            int    `form:"page" binding:"omitempty,min=1"`
	PageSize        int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage         int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy         string `form:"order_by" binding:"omitempty,oneof=transaction_date created_at debit_amount credit_amount balance"`
	OrderDir        string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f LedgerListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "tenant_id", f.TenantID)
	setIfNotEmpty(filter.Filters, "payment_type", f.PaymentType)
	setIfNotEmpty(filter.Filters, "transaction_type", f.TransactionType)
	setIfNotEmpty(filter.Filters, "date_from", f.DateFrom)
	setIfNotEmpty(filter.Filters, "date_to", f.DateTo)
	setIfNotEmpty(filter.Filters, "balance_status", f.BalanceStatus)
	return filter.Normalize()
}

// ToLedgerEntryResponse converts a domain ledger entry to a response
func ToLedgerEntryResponse(e *billing.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		TenantID:        e.TenantID,
		LeaseID:         e.LeaseID,
		TransactionDate: e.TransactionDate,
		TransactionType: string(e.TransactionType),
		PaymentType:     string(e.PaymentType),
		Description:     e.Description,
		ReferenceNo:     e.ReferenceNo,
		DebitAmount:     e.DebitAmount,
		CreditAmount:    e.CreditAmount,
		Balance:         e.Balance,
		PaymentMethod:   e.PaymentMethod,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// ============================================================================
// Payment DTOs
// ============================================================================

// CreatePaymentRequest represents a request to record a payment
type CreatePaymentRequest struct {
	PaymentType     string          `json:"payment_type" binding:"required,oneof=rent maintenance_expense security_refund fee other_income other_outgoing"`
	TenantID        *uuid.UUID      `json:"tenant_id"`
	LeaseID         *uuid.UUID      `json:"tenant_unit_id"`
	RentInvoiceID   *uuid.UUID      `json:"rent_invoice_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency" binding:"omitempty,len=3"`
	Status          string          `json:"status" binding:"omitempty,oneof=draft pending scheduled completed partial"`
	PaymentMethod   string          `json:"payment_method" binding:"max=50"`
	ReferenceNumber string          `json:"reference_number" binding:"max=100"`
	TransactionDate *time.Time      `json:"transaction_date"`
	DueDate         *time.Time      `json:"due_date"`
	Description     string          `json:"description"`
	CreatedBy       *uuid.UUID      `json:"-"`
}

// CapturePaymentRequest completes a payment
type CapturePaymentRequest struct {
	Status          string     `json:"status" binding:"omitempty,oneof=completed partial"`
	TransactionDate *time.Time `json:"transaction_date"`
	PaymentMethod   string     `json:"payment_method" binding:"max=50"`
}

// VoidPaymentRequest cancels a payment
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID              uuid.UUID       `json:"id"`
	PaymentType     string          `json:"payment_type"`
	Direction       string          `json:"flow_direction"`
	TenantID        *uuid.UUID      `json:"tenant_id,omitempty"`
	LeaseID         *uuid.UUID      `json:"tenant_unit_id,omitempty"`
	RentInvoiceID   *uuid.UUID      `json:"rent_invoice_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number"`
	ReceiptNumber   string          `json:"receipt_number"`
	TransactionDate *time.Time      `json:"transaction_date,omitempty"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	Description     string          `json:"description"`
	VoidReason      string          `json:"void_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Search      string `form:"search"`
	PaymentType string `form:"payment_type" binding:"omitempty,oneof=rent maintenance_expense security_refund fee other_income other_outgoing"`
	Status      string `form:"status" binding:"omitempty,oneof=draft pending scheduled completed partial cancelled failed refunded"`
	Direction   string `form:"flow_direction" binding:"omitempty,oneof=income outgoing"`
	TenantID    string `form:"tenant_id" binding:"omitempty,uuid"`
	DateFrom    string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo      string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage     int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=transaction_date amount created_at"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f PaymentListFilter) ToDomain() shared.Filter {
	filter := newFilter(f.Search, f.Page, pageSize(f.PageSize, f.PerPage), f.OrderBy, f.OrderDir)
	setIfNotEmpty(filter.Filters, "payment_type", f.PaymentType)
	setIfNotEmpty(filter.Filters, "status", f.Status)
	setIfNotEmpty(filter.Filters, "direction", f.Direction)
	setIfNotEmpty(filter.Filters, "tenant_id", f.TenantID)
	setIfNotEmpty(filter.Filters, "date_from", f.DateFrom)
	setIfNotEmpty(filter.Filters, "date_to", f.DateTo)
	return filter.Normalize()
}

// PaymentSummaryFilter bounds the payment summary by transaction date
type PaymentSummaryFilter struct {
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:              p.ID,
		PaymentType:     string(p.PaymentType),
		Direction:       string(p.Direction),
		TenantID:        p.TenantID,
		LeaseID:         p.LeaseID,
		RentInvoiceID:   p.RentInvoiceID,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Status:          string(p.Status),
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		ReceiptNumber:   p.ReceiptNumber,
		TransactionDate: p.TransactionDate,
		DueDate:         p.DueDate,
		Description:     p.Description,
		VoidReason:      p.VoidReason,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
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
