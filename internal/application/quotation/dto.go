package quotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Customer DTOs
// ============================================================================

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	ResortName     string     `json:"resort_name" binding:"required,min=1,max=200"`
	HoldingCompany string     `json:"holding_company" binding:"max=200"`
	Address        string     `json:"address"`
	Country        string     `json:"country" binding:"max=100"`
	TaxNumber      string     `json:"tax_number" binding:"max=50"`
	PaymentTerms   string     `json:"payment_terms" binding:"max=200"`
	Email          string     `json:"email" binding:"omitempty,email"`
	Phone          string     `json:"phone" binding:"max=50"`
	CreatedBy      *uuid.UUID `json:"-"`
}

// UpdateCustomerRequest represents a request to update a customer.
// The resort code is fixed once assigned.
type UpdateCustomerRequest struct {
	ResortName     *string `json:"resort_name" binding:"omitempty,min=1,max=200"`
	HoldingCompany *string `json:"holding_company" binding:"omitempty,max=200"`
	Address        *string `json:"address"`
	Country        *string `json:"country" binding:"omitempty,max=100"`
	TaxNumber      *string `json:"tax_number" binding:"omitempty,max=50"`
	PaymentTerms   *string `json:"payment_terms" binding:"omitempty,max=200"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=50"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID `json:"id"`
	ResortName     string    `json:"resort_name"`
	ResortCode     string    `json:"resort_code"`
	HoldingCompany string    `json:"holding_company"`
	Address        string    `json:"address"`
	Country        string    `json:"country"`
	TaxNumber      string    `json:"tax_number"`
	PaymentTerms   string    `json:"payment_terms"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search   string `form:"search"`
	Country  string `form:"country"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage  int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=resort_name resort_code country created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f CustomerListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.Country != "" {
		filter.Filters["country"] = f.Country
	}
	return filter.Normalize()
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *quotation.Customer) CustomerResponse {
	return CustomerResponse{
		ID:             c.ID,
		ResortName:     c.ResortName,
		ResortCode:     c.ResortCode,
		HoldingCompany: c.HoldingCompany,
		Address:        c.Address,
		Country:        c.Country,
		TaxNumber:      c.TaxNumber,
		PaymentTerms:   c.PaymentTerms,
		Email:          c.Email,
		Phone:          c.Phone,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ============================================================================
// Quotation DTOs
// ============================================================================

// ItemInput represents one quotation line in a request.
// ParentIndex links an AMC line to an earlier line of the same create request.
type ItemInput struct {
	ProductID          *uuid.UUID       `json:"product_id"`
	ItemType           string           `json:"item_type" binding:"required,oneof=product service amc"`
	Description        string           `json:"description" binding:"required"`
	Quantity           decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	TaxRate            *decimal.Decimal `json:"tax_rate"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	ParentItemID       *uuid.UUID       `json:"parent_item_id"`
	ParentIndex        *int             `json:"parent_index"`
	IsAMCLine          bool             `json:"is_amc_line"`
}

func (in ItemInput) toDomain() quotation.Item {
	item := quotation.NewItem(quotation.ItemType(in.ItemType), in.Description, in.Quantity, in.UnitPrice)
	item.ProductID = in.ProductID
	if in.TaxRate != nil {
		item.TaxRate = *in.TaxRate
	}
	if in.DiscountPercentage != nil {
		item.DiscountPercentage = *in.DiscountPercentage
	}
	item.ParentItemID = in.ParentItemID
	item.IsAMCLine = in.IsAMCLine || item.ItemType == quotation.ItemTypeAMC
	return item
}

// CreateQuotationRequest represents a request to create a quotation
type CreateQuotationRequest struct {
	CustomerID         uuid.UUID        `json:"customer_id" binding:"required"`
	ValidUntil         *time.Time       `json:"valid_until"`
	Currency           string           `json:"currency" binding:"omitempty,len=3"`
	ExchangeRate       *decimal.Decimal `json:"exchange_rate"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	Notes              string           `json:"notes"`
	TermsTemplateIDs   []uuid.UUID      `json:"terms_template_ids"`
	Items              []ItemInput      `json:"items" binding:"dive"`
	CreatedBy          *uuid.UUID       `json:"-"`
}

// UpdateQuotationRequest represents a request to update a draft quotation's header
type UpdateQuotationRequest struct {
	ValidUntil         *time.Time       `json:"valid_until"`
	ExchangeRate       *decimal.Decimal `json:"exchange_rate"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	Notes              *string          `json:"notes"`
	TermsTemplateIDs   []uuid.UUID      `json:"terms_template_ids"`
}

// ChangeStatusRequest represents a status transition request
type ChangeStatusRequest struct {
	Status string     `json:"status" binding:"required,oneof=draft sent accepted rejected expired"`
	Date   *time.Time `json:"date"`
}

// ItemResponse represents a quotation line in API responses
type ItemResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          *uuid.UUID      `json:"product_id,omitempty"`
	ItemType           string          `json:"item_type"`
	Description        string          `json:"description"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	ItemTotal          decimal.Decimal `json:"item_total"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ParentItemID       *uuid.UUID      `json:"parent_item_id,omitempty"`
	IsAMCLine          bool            `json:"is_amc_line"`
	SortOrder          int             `json:"sort_order"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID         `json:"id"`
	QuotationNumber    string            `json:"quotation_number"`
	CustomerID         uuid.UUID         `json:"customer_id"`
	Customer           *CustomerResponse `json:"customer,omitempty"`
	Status             string            `json:"status"`
	ValidUntil         *time.Time        `json:"valid_until,omitempty"`
	IsExpired          bool              `json:"is_expired"`
	Currency           string            `json:"currency"`
	ExchangeRate       decimal.Decimal   `json:"exchange_rate"`
	Subtotal           decimal.Decimal   `json:"subtotal"`
	DiscountPercentage decimal.Decimal   `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal   `json:"discount_amount"`
	TaxAmount          decimal.Decimal   `json:"tax_amount"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	Notes              string            `json:"notes"`
	TermsTemplateIDs   []uuid.UUID       `json:"terms_template_ids"`
	SentDate           *time.Time        `json:"sent_date,omitempty"`
	AcceptedDate       *time.Time        `json:"accepted_date,omitempty"`
	RejectedDate       *time.Time        `json:"rejected_date,omitempty"`
	Items              []ItemResponse    `json:"items"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Version            int               `json:"version"`
}

// QuotationListFilter represents filter options for the quotation list
type QuotationListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=draft sent accepted rejected expired"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=quotation_number status valid_until total_amount created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f QuotationListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.CustomerID != "" {
		filter.Filters["customer_id"] = f.CustomerID
	}
	if f.DateFrom != "" {
		filter.Filters["date_from"] = f.DateFrom
	}
	if f.DateTo != "" {
		filter.Filters["date_to"] = f.DateTo
	}
	return filter.Normalize()
}

// NumberPreviewResponse is the next quotation number, not yet consumed
type NumberPreviewResponse struct {
	QuotationNumber string `json:"quotation_number"`
	Sequence        int    `json:"sequence"`
	Year            int    `json:"year"`
}

// ToItemResponse converts a domain Item to ItemResponse
func ToItemResponse(i *quotation.Item) ItemResponse {
	return ItemResponse{
		ID:                 i.ID,
		ProductID:          i.ProductID,
		ItemType:           string(i.ItemType),
		Description:        i.Description,
		Quantity:           i.Quantity,
		UnitPrice:          i.UnitPrice,
		TaxRate:            i.TaxRate,
		DiscountPercentage: i.DiscountPercentage,
		ItemTotal:          i.ItemTotal,
		TaxAmount:          i.TaxAmount(),
		ParentItemID:       i.ParentItemID,
		IsAMCLine:          i.IsAMCLine,
		SortOrder:          i.SortOrder,
	}
}

// ToQuotationResponse converts a domain Quotation to QuotationResponse
func ToQuotationResponse(q *quotation.Quotation, now time.Time) QuotationResponse {
	items := make([]ItemResponse, len(q.Items))
	for i := range q.Items {
		items[i] = ToItemResponse(&q.Items[i])
	}
	termsIDs := []uuid.UUID(q.TermsTemplateIDs)
	if termsIDs == nil {
		termsIDs = []uuid.UUID{}
	}
	return QuotationResponse{
		ID:                 q.ID,
		QuotationNumber:    q.QuotationNumber,
		CustomerID:         q.CustomerID,
		Status:             string(q.Status),
		ValidUntil:         q.ValidUntil,
		IsExpired:          q.IsExpiredAt(now),
		Currency:           q.Currency,
		ExchangeRate:       q.ExchangeRate,
		Subtotal:           q.Subtotal,
		DiscountPercentage: q.DiscountPercentage,
		DiscountAmount:     q.DiscountAmount,
		TaxAmount:          q.TaxAmount,
		TotalAmount:        q.TotalAmount,
		Notes:              q.Notes,
		TermsTemplateIDs:   termsIDs,
		SentDate:           q.SentDate,
		AcceptedDate:       q.AcceptedDate,
		RejectedDate:       q.RejectedDate,
		Items:              items,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
		Version:            q.Version,
	}
}

// ============================================================================
// Terms template DTOs
// ============================================================================

// CreateTermsTemplateRequest represents a request to create a terms template
type CreateTermsTemplateRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	Content      string     `json:"content" binding:"required"`
	CategoryType string     `json:"category_type" binding:"required,oneof=general hardware service amc"`
	DisplayOrder int        `json:"display_order"`
	IsDefault    bool       `json:"is_default"`
	CreatedBy    *uuid.UUID `json:"-"`
}

// UpdateTermsTemplateRequest represents a request to update a terms template
type UpdateTermsTemplateRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=200"`
	Content      *string `json:"content"`
	CategoryType *string `json:"category_type" binding:"omitempty,oneof=general hardware service amc"`
	DisplayOrder *int    `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

// TermsTemplateResponse represents a terms template in API responses
type TermsTemplateResponse struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	CategoryType string    `json:"category_type"`
	IsDefault    bool      `json:"is_default"`
	IsActive     bool      `json:"is_active"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TermsTemplateListFilter represents filter options for the terms template list
type TermsTemplateListFilter struct {
	Search       string `form:"search"`
	CategoryType string `form:"category_type" binding:"omitempty,oneof=general hardware service amc"`
	IsActive     *bool  `form:"is_active"`
	Page         int    `form:"page" binding:"omitempty,min=1"`
	PageSize     int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage      int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ToDomain converts the list filter to a shared.Filter
func (f TermsTemplateListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.CategoryType != "" {
		filter.Filters["category_type"] = f.CategoryType
	}
	if f.IsActive != nil {
		filter.Filters["is_active"] = *f.IsActive
	}
	return filter.Normalize()
}

// ToTermsTemplateResponse converts a domain TermsTemplate to TermsTemplateResponse
func ToTermsTemplateResponse(t *quotation.TermsTemplate) TermsTemplateResponse {
	return TermsTemplateResponse{
		ID:           t.ID,
		Title:        t.Title,
		Content:      t.Content,
		CategoryType: string(t.Category),
		IsDefault:    t.IsDefault,
		IsActive:     t.IsActive,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// ============================================================================
// Support contract DTOs
// ============================================================================

// CreateContractRequest represents a request to create a support contract
type CreateContractRequest struct {
	CustomerID     uuid.UUID  `json:"customer_id" binding:"required"`
	ContractType   string     `json:"contract_type" binding:"required,max=100"`
	ContractNumber string     `json:"contract_number" binding:"required,max=100"`
	Products       []string   `json:"products"`
	StartDate      time.Time  `json:"start_date" binding:"required"`
	ExpiryDate     time.Time  `json:"expiry_date" binding:"required"`
	Notes          string     `json:"notes"`
	CreatedBy      *uuid.UUID `json:"-"`
}

// UpdateContractRequest represents a request to update a support contract
type UpdateContractRequest struct {
	ContractType   *string    `json:"contract_type" binding:"omitempty,max=100"`
	ContractNumber *string    `json:"contract_number" binding:"omitempty,max=100"`
	Products       []string   `json:"products"`
	StartDate      *time.Time `json:"start_date"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	Notes          *string    `json:"notes"`
}

// ContractResponse represents a support contract in API responses
type ContractResponse struct {
	ID              uuid.UUID `json:"id"`
	CustomerID      uuid.UUID `json:"customer_id"`
	ContractType    string    `json:"contract_type"`
	ContractNumber  string    `json:"contract_number"`
	Products        []string  `json:"products"`
	StartDate       time.Time `json:"start_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	IsExpiringSoon  bool      `json:"is_expiring_soon"`
	StatusColor     string    `json:"status_color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ContractListFilter represents filter options for the support contract list
type ContractListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=active expired manually_inactive"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Expiring   bool   `form:"expiring"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage    int    `form:"per_page" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=contract_number expiry_date start_date created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomain converts the list filter to a shared.Filter
func (f ContractListFilter) ToDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: pageSize(f.PageSize, f.PerPage),
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]any{},
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if f.CustomerID != "" {
		filter.Filters["customer_id"] = f.CustomerID
	}
	if f.Expiring {
		filter.Filters["expiring"] = true
	}
	return filter.Normalize()
}

// ExpireResult reports what the expiry job changed for one account
type ExpireResult struct {
	Expired         int      `json:"expired"`
	ContractNumbers []string `json:"contract_numbers"`
}

// ToContractResponse converts a domain SupportContract to ContractResponse
func ToContractResponse(c *quotation.SupportContract, now time.Time) ContractResponse {
	products := []string(c.Products)
	if products == nil {
		products = []string{}
	}
	return ContractResponse{
		ID:              c.ID,
		CustomerID:      c.CustomerID,
		ContractType:    c.ContractType,
		ContractNumber:  c.ContractNumber,
		Products:        products,
		StartDate:       c.StartDate,
		ExpiryDate:      c.ExpiryDate,
		Status:          string(c.Status),
		Notes:           c.Notes,
		DaysUntilExpiry: c.DaysUntilExpiry(now),
		IsExpiringSoon:  c.IsExpiringSoon(now),
		StatusColor:     string(c.StatusColor(now)),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func pageSize(size, perPage int) int {
	if size > 0 {
		return size
	}
	return perPage
}
