package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rentquote/backend/internal/application/billing"
	"github.com/rentquote/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RentInvoiceHandler handles rent invoice endpoints
type RentInvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.RentInvoiceService
}

// NewRentInvoiceHandler creates a new RentInvoiceHandler
func NewRentInvoiceHandler(invoiceService *billingapp.RentInvoiceService) *RentInvoiceHandler {
	return &RentInvoiceHandler{invoiceService: invoiceService}
}

// Generate godoc
// @ID           generateRentInvoices
// @Summary      Generate the rent invoices of a month
// @Description  Creates one invoice per active lease. Leases already invoiced for the month are skipped.
// @Tags         rent-invoices
// @Accept       json
// @Produce      json
// @Param        request body billingapp.GenerateInvoicesRequest false "Billing month, defaults to the current month"
// @Success      200 {object} APIResponse[billing.GenerationResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rent-invoices/generate [post]
func (h *RentInvoiceHandler) Generate(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req billingapp.GenerateInvoicesRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}
	month, err := h.invoiceService.ParseMonth(req.Month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	result, err := h.invoiceService.Generate(c.Request.Context(), accountID, month)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	logger.GetGinLogger(c).Info("rent invoices generated",
		zap.String("month", result.Month),
		zap.Int("generated", result.Generated),
		zap.Int("skipped", result.Skipped))
	h.Success(c, result)
}

// GetByID godoc
// @ID           getRentInvoiceById
// @Summary      Get a rent invoice
// @Tags         rent-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.RentInvoiceResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rent-invoices/{id} [get]
func (h *RentInvoiceHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @ID           listRentInvoices
// @Summary      List rent invoices
// @Tags         rent-invoices
// @Produce      json
// @Param        search query string false "Search by invoice number"
// @Param        status query string false "Status" Enums(generated, sent, paid, partial, overdue, cancelled)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        unit_id query string false "Unit ID" format(uuid)
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        month query string false "Billing month (YYYY-MM)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]billingapp.RentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rent-invoices [get]
func (h *RentInvoiceHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter billingapp.RentInvoiceListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, invoices, total, filter.ToDomain())
}

// MarkPaid godoc
// @ID           payRentInvoice
// @Summary      Record a payment against an invoice
// @Description  Sets the paid amount; the status becomes paid or partial
// @Tags         rent-invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body billingapp.PayInvoiceRequest true "Payment"
// @Success      200 {object} APIResponse[billingapp.RentInvoiceResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rent-invoices/{id}/pay [post]
func (h *RentInvoiceHandler) MarkPaid(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.PayInvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, invoice)
}

// PDF godoc
// @ID           getRentInvoicePdf
// @Summary      Render the invoice PDF
// @Description  Renders the invoice with its template, stores the PDF and returns a presigned download URL
// @Tags         rent-invoices
// @Produce      json
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.PDFResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /rent-invoices/{id}/pdf [get]
func (h *RentInvoiceHandler) PDF(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	pdf, err := h.invoiceService.PDF(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, pdf)
}
