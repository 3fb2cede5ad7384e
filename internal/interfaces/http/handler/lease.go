package handler

import (
	"github.com/gin-gonic/gin"
	propertyapp "github.com/rentquote/backend/internal/application/property"
)

// LeaseHandler handles tenant-unit (lease) endpoints
type LeaseHandler struct {
	BaseHandler
	leaseService *propertyapp.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leaseService *propertyapp.LeaseService) *LeaseHandler {
	return &LeaseHandler{leaseService: leaseService}
}

// Create godoc
// @ID           createLease
// @Summary      Assign a tenant to a unit
// @Description  Starts a lease and marks the unit occupied. A unit holds at most one active lease.
// @Tags         tenant-units
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreateLeaseRequest true "Lease"
// @Success      201 {object} APIResponse[propertyapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-units [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req propertyapp.CreateLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	lease, err := h.leaseService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, lease)
}

// GetByID godoc
// @ID           getLeaseById
// @Summary      Get a lease
// @Tags         tenant-units
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.LeaseResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-units/{id} [get]
func (h *LeaseHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	lease, err := h.leaseService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lease)
}

// List godoc
// @ID           listLeases
// @Summary      List leases
// @Tags         tenant-units
// @Produce      json
// @Param        tenant_id query string false "Tenant ID" format(uuid)
// @Param        unit_id query string false "Unit ID" format(uuid)
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status query string false "Status" Enums(active, ended, cancelled)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]propertyapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-units [get]
func (h *LeaseHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter propertyapp.LeaseListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	leases, total, err := h.leaseService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, leases, total, filter.ToDomain())
}

// Update godoc
// @ID           updateLease
// @Summary      Update lease terms
// @Tags         tenant-units
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body propertyapp.UpdateLeaseRequest true "Lease terms"
// @Success      200 {object} APIResponse[propertyapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-units/{id} [put]
func (h *LeaseHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.UpdateLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lease)
}

// End godoc
// @ID           endLease
// @Summary      End a lease
// @Description  Records the move-out, frees the unit and publishes LeaseEnded
// @Tags         tenant-units
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body propertyapp.EndLeaseRequest true "Move-out details"
// @Success      200 {object} APIResponse[propertyapp.LeaseResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant-units/{id}/end [post]
func (h *LeaseHandler) End(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.EndLeaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	lease, err := h.leaseService.End(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, lease)
}
