package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	quotationapp "github.com/rentquote/backend/internal/application/quotation"
)

// QuotationHandler handles quotation endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *quotationapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *quotationapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{quotationService: quotationService}
}

// Create godoc
// @ID           createQuotation
// @Summary      Create a quotation
// @Description  Create a draft quotation. The number is assigned from the customer's resort code and the yearly sequence.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.CreateQuotationRequest true "Quotation creation request"
// @Success      201 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req quotationapp.CreateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	quote, err := h.quotationService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// GetByID godoc
// @ID           getQuotationById
// @Summary      Get a quotation
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotationService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// List godoc
// @ID           listQuotations
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        search query string false "Search by number or notes"
// @Param        status query string false "Status" Enums(draft, sent, accepted, rejected, expired)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        date_from query string false "Created from (YYYY-MM-DD)"
// @Param        date_to query string false "Created to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter quotationapp.QuotationListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	quotes, total, err := h.quotationService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, quotes, total, filter.ToDomain())
}

// PreviewNumber godoc
// @ID           previewQuotationNumber
// @Summary      Preview the next quotation number
// @Description  Shows the number the next quotation would get without consuming the sequence
// @Tags         quotations
// @Produce      json
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.NumberPreviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/preview-number [get]
func (h *QuotationHandler) PreviewNumber(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var customerID *uuid.UUID
	if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid customer_id format")
			return
		}
		customerID = &id
	}

	preview, err := h.quotationService.PreviewNumber(c.Request.Context(), accountID, customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, preview)
}

// Update godoc
// @ID           updateQuotation
// @Summary      Update a quotation
// @Description  Only draft quotations can be edited
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body quotationapp.UpdateQuotationRequest true "Quotation update request"
// @Success      200 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req quotationapp.UpdateQuotationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotationService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Delete godoc
// @ID           deleteQuotation
// @Summary      Delete a quotation
// @Tags         quotations
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// AddItem godoc
// @ID           addQuotationItem
// @Summary      Add a line item
// @Description  Adds a line and recalculates the quotation totals
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body quotationapp.ItemInput true "Line item"
// @Success      201 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items [post]
func (h *QuotationHandler) AddItem(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var in quotationapp.ItemInput
	if !h.bindJSON(c, &in) {
		return
	}

	quote, err := h.quotationService.AddItem(c.Request.Context(), accountID, id, in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}

// UpdateItem godoc
// @ID           updateQuotationItem
// @Summary      Update a line item
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Param        request body quotationapp.ItemInput true "Line item"
// @Success      200 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items/{itemId} [put]
func (h *QuotationHandler) UpdateItem(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}
	var in quotationapp.ItemInput
	if !h.bindJSON(c, &in) {
		return
	}

	quote, err := h.quotationService.UpdateItem(c.Request.Context(), accountID, id, itemID, in)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// RemoveItem godoc
// @ID           removeQuotationItem
// @Summary      Remove a line item
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/items/{itemId} [delete]
func (h *QuotationHandler) RemoveItem(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(c, "itemId")
	if !ok {
		return
	}

	quote, err := h.quotationService.RemoveItem(c.Request.Context(), accountID, id, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// ChangeStatus godoc
// @ID           changeQuotationStatus
// @Summary      Change the quotation status
// @Description  Moves a quotation along draft, sent, accepted, rejected or expired
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Param        request body quotationapp.ChangeStatusRequest true "Target status"
// @Success      200 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/status [patch]
func (h *QuotationHandler) ChangeStatus(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req quotationapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.quotationService.ChangeStatus(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, quote)
}

// Duplicate godoc
// @ID           duplicateQuotation
// @Summary      Duplicate a quotation
// @Description  Copies the quotation with its items into a new draft with a fresh number
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID" format(uuid)
// @Success      201 {object} APIResponse[quotationapp.QuotationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotations/{id}/duplicate [post]
func (h *QuotationHandler) Duplicate(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	quote, err := h.quotationService.Duplicate(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, quote)
}
