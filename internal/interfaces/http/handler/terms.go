package handler

import (
	"github.com/gin-gonic/gin"
	quotationapp "github.com/rentquote/backend/internal/application/quotation"
)

// TermsHandler handles terms and conditions template endpoints
type TermsHandler struct {
	BaseHandler
	termsService *quotationapp.TermsService
}

// NewTermsHandler creates a new TermsHandler
func NewTermsHandler(termsService *quotationapp.TermsService) *TermsHandler {
	return &TermsHandler{termsService: termsService}
}

// Create godoc
// @ID           createTermsTemplate
// @Summary      Create a terms template
// @Tags         terms-templates
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.CreateTermsTemplateRequest true "Terms template"
// @Success      201 {object} APIResponse[quotationapp.TermsTemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /terms-templates [post]
func (h *TermsHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req quotationapp.CreateTermsTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	tmpl, err := h.termsService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tmpl)
}

// GetByID godoc
// @ID           getTermsTemplateById
// @Summary      Get a terms template
// @Tags         terms-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.TermsTemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /terms-templates/{id} [get]
func (h *TermsHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.termsService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// List godoc
// @ID           listTermsTemplates
// @Summary      List terms templates
// @Tags         terms-templates
// @Produce      json
// @Param        search query string false "Search by title or content"
// @Param        category_type query string false "Category" Enums(general, hardware, service, amc)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]quotationapp.TermsTemplateResponse]
// @Security     BearerAuth
// @Router       /terms-templates [get]
func (h *TermsHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter quotationapp.TermsTemplateListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	templates, total, err := h.termsService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, templates, total, filter.ToDomain())
}

// GetByCategory godoc
// @ID           getTermsTemplatesByCategory
// @Summary      Active templates of a category
// @Tags         terms-templates
// @Produce      json
// @Param        category path string true "Category"
// @Success      200 {object} APIResponse[[]quotationapp.TermsTemplateResponse]
// @Security     BearerAuth
// @Router       /terms-templates/category/{category} [get]
func (h *TermsHandler) GetByCategory(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	templates, err := h.termsService.GetByCategory(c.Request.Context(), accountID, c.Param("category"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, templates)
}

// Update godoc
// @ID           updateTermsTemplate
// @Summary      Update a terms template
// @Tags         terms-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body quotationapp.UpdateTermsTemplateRequest true "Terms template"
// @Success      200 {object} APIResponse[quotationapp.TermsTemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /terms-templates/{id} [put]
func (h *TermsHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req quotationapp.UpdateTermsTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tmpl, err := h.termsService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// SetDefault godoc
// @ID           setDefaultTermsTemplate
// @Summary      Make a template the default of its category
// @Tags         terms-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[quotationapp.TermsTemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /terms-templates/{id}/default [post]
func (h *TermsHandler) SetDefault(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.termsService.SetDefault(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// Delete godoc
// @ID           deleteTermsTemplate
// @Summary      Delete a terms template
// @Tags         terms-templates
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /terms-templates/{id} [delete]
func (h *TermsHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.termsService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
