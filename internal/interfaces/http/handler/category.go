package handler

import (
	"context"

	propertyapp "github.com/fnbcost/backend/internal/application/property"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryHandler serves the cost category endpoints.
type CategoryHandler struct {
	BaseHandler
	categoryService *propertyapp.CategoryService
}

func NewCategoryHandler(categoryService *propertyapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// Create adds a cost category to the tenant's catalog.
func (h *CategoryHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req propertyapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}
	if actorID, err := getUserID(c); err == nil {
		req.CreatedBy = &actorID
	}

	category, err := h.categoryService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

func (h *CategoryHandler) GetByID(c *gin.Context) {
	categoryID, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// List returns the tenant's categories, optionally narrowed to one cost type.
func (h *CategoryHandler) List(c *gin.Context) {
	categoryType := c.Query("type")
	if categoryType != "" && categoryType != "food" && categoryType != "beverage" {
		h.BadRequest(c, "Type must be food or beverage")
		return
	}

	categories, err := h.categoryService.List(c.Request.Context(), categoryType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Update changes a category's name or description.
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}

	var req propertyapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), categoryID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

func (h *CategoryHandler) Activate(c *gin.Context) {
	h.toggle(c, h.categoryService.Activate)
}

func (h *CategoryHandler) Deactivate(c *gin.Context) {
	h.toggle(c, h.categoryService.Deactivate)
}

func (h *CategoryHandler) toggle(c *gin.Context, op func(context.Context, uuid.UUID) (*propertyapp.CategoryResponse, error)) {
	categoryID, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}

	category, err := op(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete removes a category. Categories referenced by entry lines are
// rejected by the service.
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, ok := h.pathUUID(c, "id", "category")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
