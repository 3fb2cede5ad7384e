package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/rentquote/backend/internal/application/catalog"
)

// CategoryHandler handles product category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Description  Create a category under a parent, or under the root of its category type
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category creation request"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var req catalogapp.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = h.createdBy(c)

	category, err := h.categoryService.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, category)
}

// GetByID godoc
// @ID           getCategoryById
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// List godoc
// @ID           listCategories
// @Summary      List categories
// @Description  Paginated category list with search and filters
// @Tags         categories
// @Produce      json
// @Param        search query string false "Search by name or description"
// @Param        category_type query string false "Category type" Enums(services, hardware, software, spare_parts)
// @Param        parent_id query string false "Parent category ID" format(uuid)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(15) maximum(100)
// @Param        order_by query string false "Sort field" default(sort_order)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	var filter catalogapp.CategoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	categories, total, err := h.categoryService.List(c.Request.Context(), accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.BaseHandler.List(c, categories, total, filter.ToDomain())
}

// GetTree godoc
// @ID           getCategoryTree
// @Summary      Get the category tree
// @Description  Nested categories starting from the four type roots
// @Tags         categories
// @Produce      json
// @Param        active_only query bool false "Only active categories"
// @Success      200 {object} APIResponse[[]catalogapp.CategoryTreeNode]
// @Security     BearerAuth
// @Router       /categories/tree [get]
func (h *CategoryHandler) GetTree(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	tree, err := h.categoryService.GetTree(c.Request.Context(), accountID, c.Query("active_only") == "true")
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tree)
}

// GetOptions godoc
// @ID           getCategoryOptions
// @Summary      Get category options
// @Description  Flat list of active categories with indented labels, for selects
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryOption]
// @Security     BearerAuth
// @Router       /categories/options [get]
func (h *CategoryHandler) GetOptions(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}

	options, err := h.categoryService.GetOptions(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, options)
}

// GetPath godoc
// @ID           getCategoryPath
// @Summary      Get the full category path
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[PathData]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id}/path [get]
func (h *CategoryHandler) GetPath(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	path, err := h.categoryService.GetFullPath(c.Request.Context(), accountID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, PathData{Path: path})
}

// Update godoc
// @ID           updateCategory
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Category update request"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), accountID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category
// @Description  Root categories and categories with children or products cannot be deleted
// @Tags         categories
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	accountID, ok := h.accountID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), accountID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
