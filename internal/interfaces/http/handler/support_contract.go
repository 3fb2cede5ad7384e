package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	quotationapp "github.com/rentquote/backend/internal/application/quotation"
)

// SupportContractHandler handles support contract endpoints
type SupportContractHandler struct {
	BaseHandler
	contractService *quotationapp.ContractService
}

// NewSupportContractHandler creates a new SupportContractHandler
func NewSupportContractHandler(contractService *quotationapp.ContractService) *SupportContractHandler {
	return &SupportContractHandler{contractService: contractService}
}

// Create godoc
// @ID           createSupportContract
// @Summary      Create a support contract
// @Tags         support-contracts
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.CreateContractRequest true "Support contract"
// @Success      201 {object} APIResponse[quotationapp.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts [post]
func (h *SupportContractHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req quotationapp.CreateContractRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	contract, err := h.contractService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, contract)
}

// GetByID godoc
// @ID           getSupportContractById
// @Summary      Get a support contract
// @Tags         support-contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.ContractResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts/{id} [get]
func (h *SupportContractHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contract, err := h.contractService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// List godoc
// @ID           listSupportContracts
// @Summary      List support contracts
// @Tags         support-contracts
// @Produce      json
// @Param        search query string false "Search by contract number or type"
// @Param        status query string false "Status" Enums(active, expired, manually_inactive)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        expiring query bool false "Only contracts expiring within 30 days"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]quotationapp.ContractResponse]
// @Security     BearerAuth
// @Router       /support-contracts [get]
func (h *SupportContractHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter quotationapp.ContractListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	contracts, total, err := h.contractService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, contracts, total, filter.ToDomain())
}

// Update godoc
// @ID           updateSupportContract
// @Summary      Update a support contract
// @Tags         support-contracts
// @Accept       json
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Param        request body quotationapp.UpdateContractRequest true "Support contract"
// @Success      200 {object} APIResponse[quotationapp.ContractResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts/{id} [put]
func (h *SupportContractHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req quotationapp.UpdateContractRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contract, err := h.contractService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// Deactivate godoc
// @ID           deactivateSupportContract
// @Summary      Deactivate a support contract
// @Tags         support-contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.ContractResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts/{id}/deactivate [post]
func (h *SupportContractHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.contractService.Deactivate)
}

// Reactivate godoc
// @ID           reactivateSupportContract
// @Summary      Reactivate a support contract
// @Description  Contracts past their expiry date cannot be reactivated
// @Tags         support-contracts
// @Produce      json
// @Param        id path string true "Contract ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.ContractResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts/{id}/reactivate [post]
func (h *SupportContractHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.contractService.Reactivate)
}

type contractTransition func(ctx context.Context, accountID, id uuid.UUID) (*quotationapp.ContractResponse, error)

func (h *SupportContractHandler) transition(c *gin.Context, fn contractTransition) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contract, err := fn(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, contract)
}

// Delete godoc
// @ID           deleteSupportContract
// @Summary      Delete a support contract
// @Tags         support-contracts
// @Param        id path string true "Contract ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support-contracts/{id} [delete]
func (h *SupportContractHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contractService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
