package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rentquote/backend/internal/application/billing"
)

// NumberHandler hands out document numbers
type NumberHandler struct {
	BaseHandler
	numberService *billingapp.NumberService
}

// NewNumberHandler creates a new NumberHandler
func NewNumberHandler(numberService *billingapp.NumberService) *NumberHandler {
	return &NumberHandler{numberService: numberService}
}

// Next godoc
// @ID           nextDocumentNumber
// @Summary      Issue the next document number
// @Description  Consumes the next value of the monthly sequence of the type
// @Tags         numbers
// @Produce      json
// @Param        type path string true "Document type" Enums(rent_invoice, maintenance_invoice, financial_invoice, maintenance_request, service_invoice, security_deposit_refund, receipt)
// @Success      200 {object} APIResponse[billingapp.NumberResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /numbers/{type}/next [post]
func (h *NumberHandler) Next(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	number, err := h.numberService.Next(c.Request.Context(), accountID, c.Param("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, number)
}

// Preview godoc
// @ID           previewDocumentNumber
// @Summary      Preview the next document number
// @Tags         numbers
// @Produce      json
// @Param        type path string true "Document type" Enums(rent_invoice, maintenance_invoice, financial_invoice, maintenance_request, service_invoice, security_deposit_refund, receipt)
// @Success      200 {object} APIResponse[billingapp.NumberResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /numbers/{type}/preview [get]
func (h *NumberHandler) Preview(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	number, err := h.numberService.Preview(c.Request.Context(), accountID, c.Param("type"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, number)
}
