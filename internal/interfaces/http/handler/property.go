package handler

import (
	"github.com/gin-gonic/gin"
	propertyapp "github.com/rentquote/backend/internal/application/property"
)

// PropertyHandler handles property endpoints
type PropertyHandler struct {
	BaseHandler
	propertyService *propertyapp.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(propertyService *propertyapp.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create godoc
// @ID           createProperty
// @Summary      Create a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        request body propertyapp.CreatePropertyRequest true "Property"
// @Success      201 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties [post]
func (h *PropertyHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req propertyapp.CreatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	p, err := h.propertyService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, p)
}

// GetByID godoc
// @ID           getPropertyById
// @Summary      Get a property
// @Tags         properties
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [get]
func (h *PropertyHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	p, err := h.propertyService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// List godoc
// @ID           listProperties
// @Summary      List properties
// @Tags         properties
// @Produce      json
// @Param        search query string false "Search by name or address"
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        property_type query string false "Type" Enums(residential, commercial)
// @Param        island query string false "Island"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]propertyapp.PropertyResponse]
// @Security     BearerAuth
// @Router       /properties [get]
func (h *PropertyHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter propertyapp.PropertyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	properties, total, err := h.propertyService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, properties, total, filter.ToDomain())
}

// Update godoc
// @ID           updateProperty
// @Summary      Update a property
// @Tags         properties
// @Accept       json
// @Produce      json
// @Param        id path string true "Property ID" format(uuid)
// @Param        request body propertyapp.UpdatePropertyRequest true "Property"
// @Success      200 {object} APIResponse[propertyapp.PropertyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [put]
func (h *PropertyHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req propertyapp.UpdatePropertyRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.propertyService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, p)
}

// Delete godoc
// @ID           deleteProperty
// @Summary      Delete a property
// @Description  Properties that still have units cannot be deleted
// @Tags         properties
// @Param        id path string true "Property ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /properties/{id} [delete]
func (h *PropertyHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
