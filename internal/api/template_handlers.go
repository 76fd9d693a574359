// Package api - template handlers
package api

import (
	"net/http"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
)

// TemplateHandler handles template endpoints.
type TemplateHandler struct {
	store *engine.Store
	guard *engine.LifecycleGuard
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(store *engine.Store, guard *engine.LifecycleGuard) *TemplateHandler {
	return &TemplateHandler{store: store, guard: guard}
}

// List returns templates, most recently updated first.
// GET /api/v1/templates?status=
func (h *TemplateHandler) List(c *gin.Context) {
	status := models.TemplateStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		s, body := apperrors.ToHTTPError(apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, active, archived"}))
		c.JSON(s, body)
		return
	}

	templates, err := h.store.ListTemplates(status)
	if err != nil {
		s, body := apperrors.ToHTTPError(err)
		c.JSON(s, body)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// Get returns a single template.
// GET /api/v1/templates/:public_id
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.store.TemplateByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, template)
}

// Create creates a new template.
// POST /api/v1/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var input struct {
		Name           string                   `json:"name" binding:"required,min=3,max=100"`
		Description    string                   `json:"description"`
		Content        string                   `json:"content" binding:"required"`
		EditableFields []models.FieldDescriptor `json:"editable_fields"`
		Status         models.TemplateStatus    `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	if input.Status == "" {
		input.Status = models.TemplateDraft
	}
	if !input.Status.Valid() {
		status, body := apperrors.ToHTTPError(apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, active, archived"}))
		c.JSON(status, body)
		return
	}

	template := &models.Template{
		Name:           input.Name,
		Description:    input.Description,
		Content:        input.Content,
		EditableFields: models.FieldList(input.EditableFields),
		Status:         input.Status,
	}
	if user := currentUser(c); user != nil {
		template.CreatedBy = &user.ID
	}

	if err := h.store.CreateTemplate(template); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, template)
}

// Update updates an existing template.
// PUT /api/v1/templates/:public_id
func (h *TemplateHandler) Update(c *gin.Context) {
	template, err := h.store.TemplateByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	var input struct {
		Name           *string                   `json:"name" binding:"omitempty,min=3,max=100"`
		Description    *string                   `json:"description"`
		Content        *string                   `json:"content"`
		EditableFields *[]models.FieldDescriptor `json:"editable_fields"`
		Status         *models.TemplateStatus    `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	if input.Status != nil && !input.Status.Valid() {
		status, body := apperrors.ToHTTPError(apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, active, archived"}))
		c.JSON(status, body)
		return
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.Description != nil {
		template.Description = *input.Description
	}
	if input.Content != nil {
		template.Content = *input.Content
	}
	if input.EditableFields != nil {
		template.EditableFields = models.FieldList(*input.EditableFields)
	}
	if input.Status != nil {
		template.Status = *input.Status
	}

	if err := h.store.SaveTemplate(template); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, template)
}

// Delete removes a template unless documents still reference it.
// DELETE /api/v1/templates/:public_id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.guard.DeleteTemplate(c.Param("public_id")); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "template deleted successfully"})
}
