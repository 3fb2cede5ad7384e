package handler

import (
	"github.com/gin-gonic/gin"
	billingapp "github.com/rentquote/backend/internal/application/billing"
)

// InvoiceTemplateHandler handles invoice template endpoints
type InvoiceTemplateHandler struct {
	BaseHandler
	templateService *billingapp.TemplateService
}

// NewInvoiceTemplateHandler creates a new InvoiceTemplateHandler
func NewInvoiceTemplateHandler(templateService *billingapp.TemplateService) *InvoiceTemplateHandler {
	return &InvoiceTemplateHandler{templateService: templateService}
}

// Create godoc
// @ID           createInvoiceTemplate
// @Summary      Create an invoice template
// @Description  HTML with {{variable}} placeholders. A default template replaces the previous default of its type.
// @Tags         invoice-templates
// @Accept       json
// @Produce      json
// @Param        request body billingapp.CreateTemplateRequest true "Invoice template"
// @Success      201 {object} APIResponse[billingapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates [post]
func (h *InvoiceTemplateHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req billingapp.CreateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	tmpl, err := h.templateService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tmpl)
}

// GetByID godoc
// @ID           getInvoiceTemplateById
// @Summary      Get an invoice template
// @Tags         invoice-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id} [get]
func (h *InvoiceTemplateHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.templateService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// List godoc
// @ID           listInvoiceTemplates
// @Summary      List invoice templates
// @Tags         invoice-templates
// @Produce      json
// @Param        search query string false "Search by name"
// @Param        template_type query string false "Type" Enums(rent, maintenance, both)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Success      200 {object} APIResponse[[]billingapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /invoice-templates [get]
func (h *InvoiceTemplateHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter billingapp.TemplateListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	templates, total, err := h.templateService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, templates, total, filter.ToDomain())
}

// Variables godoc
// @ID           listInvoiceTemplateVariables
// @Summary      Available template variables
// @Tags         invoice-templates
// @Produce      json
// @Success      200 {object} APIResponse[[]billing.Variable]
// @Security     BearerAuth
// @Router       /invoice-templates/variables [get]
func (h *InvoiceTemplateHandler) Variables(c *gin.Context) {
	h.Success(c, h.templateService.Variables())
}

// Update godoc
// @ID           updateInvoiceTemplate
// @Summary      Update an invoice template
// @Tags         invoice-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body billingapp.UpdateTemplateRequest true "Invoice template"
// @Success      200 {object} APIResponse[billingapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id} [put]
func (h *InvoiceTemplateHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.UpdateTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tmpl, err := h.templateService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// SetDefault godoc
// @ID           setDefaultInvoiceTemplate
// @Summary      Make a template the default of its type
// @Tags         invoice-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[billingapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id}/default [post]
func (h *InvoiceTemplateHandler) SetDefault(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	tmpl, err := h.templateService.SetDefault(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tmpl)
}

// Preview godoc
// @ID           previewInvoiceTemplate
// @Summary      Render a template with sample data
// @Description  Substitutes every known variable with sample or supplied values. Unknown placeholders render empty.
// @Tags         invoice-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body billingapp.PreviewRequest false "Preview overrides"
// @Success      200 {object} APIResponse[billingapp.PreviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id}/preview [post]
func (h *InvoiceTemplateHandler) Preview(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.PreviewRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	preview, err := h.templateService.Preview(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, preview)
}

// LogoUploadURL godoc
// @ID           getInvoiceTemplateLogoUploadUrl
// @Summary      Presigned logo upload URL
// @Description  Returns a short-lived URL the client PUTs the logo image to
// @Tags         invoice-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body billingapp.UploadURLRequest true "Image content type"
// @Success      200 {object} APIResponse[billingapp.UploadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id}/logo-upload-url [post]
func (h *InvoiceTemplateHandler) LogoUploadURL(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req billingapp.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}

	upload, err := h.templateService.LogoUploadURL(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, upload)
}

// Delete godoc
// @ID           deleteInvoiceTemplate
// @Summary      Delete an invoice template
// @Description  The default template of a type cannot be deleted
// @Tags         invoice-templates
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /invoice-templates/{id} [delete]
func (h *InvoiceTemplateHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
