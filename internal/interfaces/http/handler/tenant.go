package handler

import (
	"github.com/gin-gonic/gin"
	propertyapp "github.com/rentquote/backend/internal/application/property"
)

// TenantHandler handles renter endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *propertyapp.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *propertyapp.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @ID           createTenant
// @Summary      Create a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreateTenantRequest true "Tenant"
// @Success      201 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req propertyapp.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	tenant, err := h.tenantService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tenant)
}

// GetByID godoc
// @ID           getTenantById
// @Summary      Get a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tenant, err := h.tenantService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tenant)
}

// List godoc
// @ID           listTenants
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        search query string false "Search by name, email, phone or ID number"
// @Param        status query string false "Status" Enums(active, inactive, former)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]propertyapp.TenantResponse]
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter propertyapp.TenantListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	tenants, total, err := h.tenantService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, tenants, total, filter.ToDomain())
}

// Update godoc
// @ID           updateTenant
// @Summary      Update a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID" format(uuid)
// @Param        request body propertyapp.UpdateTenantRequest true "Tenant"
// @Success      200 {object} APIResponse[propertyapp.TenantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Delete godoc
// @ID           deleteTenant
// @Summary      Delete a tenant
// @Description  Tenants with an active lease cannot be deleted
// @Tags         tenants
// @Param        id path string true "Tenant ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
