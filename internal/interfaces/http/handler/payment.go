package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rentquote/backend/internal/application/billing"
)

// PaymentHandler handles unified payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create godoc
// @ID           createPayment
// @Summary      Record a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreatePaymentRequest true "Payment"
// @Success      201 {object} APIResponse[billingapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req billingapp.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	payment, err := h.paymentService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, payment)
}

// GetByID godoc
// @ID           getPaymentById
// @Summary      Get a payment
// @Tags         payments
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.PaymentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// List godoc
// @ID           listPayments
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Param        search query string false "Search by number or reference"
// @Param        payment_type query string false "Type" Enums(rent, maintenance_expense, security_refund, fee, other_income, other_outgoing)
// @Param        status query string false "Status"
// @Param        flow_direction query string false "Direction" Enums(income, outgoing)
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        date_from query string false "From (YYYY-MM-DD)"
// @Param        date_to query string false "To (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]billingapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter billingapp.PaymentListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	payments, total, err := h.paymentService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, payments, total, filter.ToDomain())
}

// Summary godoc
// @ID           getPaymentSummary
// @Summary      Income versus outgoing totals
// @Tags         payments
// @Produce      json
// @Param        date_from query string false "From (YYYY-MM-DD)"
// @Param        date_to query string false "To (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[billing.PaymentSummary]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/summary [get]
func (h *PaymentHandler) Summary(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter billingapp.PaymentSummaryFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	summary, err := h.paymentService.Summary(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}

// Capture godoc
// @ID           capturePayment
// @Summary      Capture a payment
// @Description  Completes (or partially completes) a payment and assigns its receipt number
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body billingapp.CapturePaymentRequest true "Capture details"
// @Success      200 {object} APIResponse[billingapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/capture [post]
func (h *PaymentHandler) Capture(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.CapturePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Capture(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}

// Void godoc
// @ID           voidPayment
// @Summary      Void a payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        id path string true "Payment ID" format(uuid)
// @Param        request body billingapp.VoidPaymentRequest true "Reason"
// @Success      200 {object} APIResponse[billingapp.PaymentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /payments/{id}/void [post]
func (h *PaymentHandler) Void(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.VoidPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Void(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, payment)
}
