// Package api - station handlers
package api

import (
	"net/http"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
)

// StationHandler handles station endpoints.
type StationHandler struct {
	store    *engine.Store
	guard    *engine.LifecycleGuard
	renderer *renderer
}

// NewStationHandler creates a new station handler.
func NewStationHandler(store *engine.Store, guard *engine.LifecycleGuard) *StationHandler {
	return &StationHandler{store: store, guard: guard, renderer: newRenderer(store)}
}

// List returns all stations ordered by name.
// GET /api/v1/stations?type=
func (h *StationHandler) List(c *gin.Context) {
	stations, err := h.store.ListStations(c.Query("type"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, stations)
}

// Get returns a single station.
// GET /api/v1/stations/:public_id
func (h *StationHandler) Get(c *gin.Context) {
	station, err := h.store.StationByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, station)
}

// Create creates a new station.
// POST /api/v1/stations
func (h *StationHandler) Create(c *gin.Context) {
	var input struct {
		Name            string `json:"name" binding:"required,min=3,max=100"`
		Description     string `json:"description"`
		Type            string `json:"type" binding:"required,min=3,max=50"`
		ResponsibleRole string `json:"responsible_role" binding:"omitempty,min=3,max=50"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	station := &models.Station{
		Name:            input.Name,
		Description:     input.Description,
		Type:            input.Type,
		ResponsibleRole: input.ResponsibleRole,
	}
	if err := h.store.CreateStation(station); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, station)
}

// Update updates an existing station.
// PUT /api/v1/stations/:public_id
func (h *StationHandler) Update(c *gin.Context) {
	station, err := h.store.StationByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	var input struct {
		Name            *string `json:"name" binding:"omitempty,min=3,max=100"`
		Description     *string `json:"description"`
		Type            *string `json:"type" binding:"omitempty,min=3,max=50"`
		ResponsibleRole *string `json:"responsible_role" binding:"omitempty,min=3,max=50"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	if input.Name != nil {
		station.Name = *input.Name
	}
	if input.Description != nil {
		station.Description = *input.Description
	}
	if input.Type != nil {
		station.Type = *input.Type
	}
	if input.ResponsibleRole != nil {
		station.ResponsibleRole = *input.ResponsibleRole
	}

	if err := h.store.SaveStation(station); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, station)
}

// Delete removes a station unless the lifecycle guard rejects it.
// DELETE /api/v1/stations/:public_id
func (h *StationHandler) Delete(c *gin.Context) {
	if err := h.guard.DeleteStation(c.Param("public_id")); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "station deleted successfully"})
}

// Documents returns the documents currently at a station.
// GET /api/v1/stations/:public_id/documents?status=
func (h *StationHandler) Documents(c *gin.Context) {
	station, err := h.store.StationByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	documents, err := h.store.ListDocuments(engine.DocumentFilter{
		Status:           models.DocumentStatus(c.Query("status")),
		CurrentStationID: &station.ID,
	})
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.documents(documents))
}
