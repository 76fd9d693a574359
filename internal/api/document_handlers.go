// Package api - document handlers
package api

import (
	"net/http"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	store      *engine.Store
	transition *engine.TransitionEngine
	ledger     *engine.HistoryLedger
	guard      *engine.LifecycleGuard
	renderer   *renderer
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(store *engine.Store, transition *engine.TransitionEngine, ledger *engine.HistoryLedger, guard *engine.LifecycleGuard) *DocumentHandler {
	return &DocumentHandler{
		store:      store,
		transition: transition,
		ledger:     ledger,
		guard:      guard,
		renderer:   newRenderer(store),
	}
}

// List returns documents, most recently updated first. Foreign-key
// filters take public ids.
// GET /api/v1/documents?status=&template_id=&station_id=
func (h *DocumentHandler) List(c *gin.Context) {
	status := models.DocumentStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		s, body := apperrors.ToHTTPError(apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, submitted, approved, rejected"}))
		c.JSON(s, body)
		return
	}

	documents, err := h.store.ListDocuments(engine.DocumentFilter{
		Status:           status,
		TemplatePublicID: c.Query("template_id"),
		StationPublicID:  c.Query("station_id"),
	})
	if err != nil {
		s, body := apperrors.ToHTTPError(err)
		c.JSON(s, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.documents(documents))
}

// Get returns a single document.
// GET /api/v1/documents/:public_id
func (h *DocumentHandler) Get(c *gin.Context) {
	document, err := h.store.DocumentByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.document(document))
}

// Create creates a new document from a template.
// POST /api/v1/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var input struct {
		Name             string                `json:"name" binding:"required,min=3,max=100"`
		Content          string                `json:"content"`
		TemplateID       string                `json:"template_id" binding:"required"`
		Status           models.DocumentStatus `json:"status"`
		CurrentStationID *string               `json:"current_station_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	document, err := h.transition.CreateDocument(engine.CreateDocumentInput{
		Name:             input.Name,
		Content:          input.Content,
		TemplatePublicID: input.TemplateID,
		Status:           input.Status,
		StationPublicID:  input.CurrentStationID,
	}, currentUser(c))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, h.renderer.document(document))
}

// Update applies a partial update through the transition engine. A
// station change produces a "moved" history entry; anything else an
// "updated" one.
// PUT /api/v1/documents/:public_id
func (h *DocumentHandler) Update(c *gin.Context) {
	var input struct {
		Name             *string                `json:"name" binding:"omitempty,min=3,max=100"`
		Content          *string                `json:"content"`
		Status           *models.DocumentStatus `json:"status"`
		CurrentStationID *string                `json:"current_station_id"`
	}

	// Distinguish "current_station_id": null (remove from station) from
	// the key being absent.
	var raw map[string]interface{}
	if err := c.ShouldBindBodyWithJSON(&raw); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}
	if err := c.ShouldBindBodyWithJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}
	_, stationSupplied := raw["current_station_id"]

	document, err := h.transition.ApplyUpdate(c.Param("public_id"), engine.DocumentChanges{
		Name:            input.Name,
		Content:         input.Content,
		Status:          input.Status,
		StationSupplied: stationSupplied,
		StationPublicID: input.CurrentStationID,
	}, currentUser(c))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.document(document))
}

// Delete removes a document and its history.
// DELETE /api/v1/documents/:public_id
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.guard.DeleteDocument(c.Param("public_id")); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document deleted successfully"})
}

// History returns the document's audit trail, most recent first.
// GET /api/v1/documents/:public_id/history
func (h *DocumentHandler) History(c *gin.Context) {
	document, err := h.store.DocumentByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	entries, err := h.ledger.ListFor(document.ID)
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.histories(entries))
}
