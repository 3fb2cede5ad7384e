package handler

import (
	"github.com/gin-gonic/gin"
	propertyapp "github.com/rentquote/backend/internal/application/property"
)

// UnitHandler handles rentable unit endpoints
type UnitHandler struct {
	BaseHandler
	unitService *propertyapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService *propertyapp.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// Create godoc
// @ID           createUnit
// @Summary      Create a unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreateUnitRequest true "Unit"
// @Success      201 {object} APIResponse[propertyapp.UnitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req propertyapp.CreateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	unit, err := h.unitService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, unit)
}

// GetByID godoc
// @ID           getUnitById
// @Summary      Get a unit
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.UnitResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [get]
func (h *UnitHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	unit, err := h.unitService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, unit)
}

// List godoc
// @ID           listUnits
// @Summary      List units
// @Tags         units
// @Produce      json
// @Param        search query string false "Search by unit number"
// @Param        property_id query string false "Property ID" format(uuid)
// @Param        status query string false "Status" Enums(available, occupied, maintenance)
// @Param        is_occupied query bool false "Occupied flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]propertyapp.UnitResponse]
// @Security     BearerAuth
// @Router       /units [get]
func (h *UnitHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter propertyapp.UnitListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	units, total, err := h.unitService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, units, total, filter.ToDomain())
}

// OccupancyHistory godoc
// @ID           getUnitOccupancyHistory
// @Summary      Unit occupancy history
// @Description  Every lease of the unit with its tenant, newest first
// @Tags         units
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Success      200 {object} APIResponse[[]propertyapp.OccupancyEntryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id}/occupancy-history [get]
func (h *UnitHandler) OccupancyHistory(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.unitService.OccupancyHistory(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, history)
}

// Update godoc
// @ID           updateUnit
// @Summary      Update a unit
// @Tags         units
// @Accept       json
// @Produce      json
// @Param        id path string true "Unit ID" format(uuid)
// @Param        request body propertyapp.UpdateUnitRequest true "Unit"
// @Success      200 {object} APIResponse[propertyapp.UnitResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [put]
func (h *UnitHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.UpdateUnitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, unit)
}

// Delete godoc
// @ID           deleteUnit
// @Summary      Delete a unit
// @Description  Occupied units cannot be deleted
// @Tags         units
// @Param        id path string true "Unit ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /units/{id} [delete]
func (h *UnitHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
