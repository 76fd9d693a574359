// Package api - flow and flow step handlers
package api

import (
	"net/http"
	"strings"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"github.com/gin-gonic/gin"
)

// FlowHandler handles flow and flow step endpoints.
type FlowHandler struct {
	store    *engine.Store
	graph    *engine.FlowGraph
	guard    *engine.LifecycleGuard
	renderer *renderer
}

// NewFlowHandler creates a new flow handler.
func NewFlowHandler(store *engine.Store, graph *engine.FlowGraph, guard *engine.LifecycleGuard) *FlowHandler {
	return &FlowHandler{store: store, graph: graph, guard: guard, renderer: newRenderer(store)}
}

// List returns flows ordered by name.
// GET /api/v1/flows?active=
func (h *FlowHandler) List(c *gin.Context) {
	var active *bool
	if v := c.Query("active"); v != "" {
		b := parseBoolish(v)
		active = &b
	}

	flows, err := h.store.ListFlows(active)
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.flows(flows))
}

// Get returns a single flow with its steps in canonical order.
// GET /api/v1/flows/:public_id
func (h *FlowHandler) Get(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	steps, err := h.graph.StepsOf(flow)
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.flow(flow, steps))
}

// Create creates a new flow.
// POST /api/v1/flows
func (h *FlowHandler) Create(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required,min=3,max=100"`
		Description string `json:"description"`
		IsActive    *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	flow := &models.Flow{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		flow.IsActive = *input.IsActive
	}
	if user := currentUser(c); user != nil {
		flow.CreatedBy = &user.ID
	}

	if err := h.store.CreateFlow(flow); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, h.renderer.flow(flow, nil))
}

// Update updates an existing flow.
// PUT /api/v1/flows/:public_id
func (h *FlowHandler) Update(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	var input struct {
		Name        *string `json:"name" binding:"omitempty,min=3,max=100"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	if input.Name != nil {
		flow.Name = *input.Name
	}
	if input.Description != nil {
		flow.Description = *input.Description
	}
	if input.IsActive != nil {
		flow.IsActive = *input.IsActive
	}

	if err := h.store.SaveFlow(flow); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.flow(flow, nil))
}

// Delete removes a flow and its steps, steps first.
// DELETE /api/v1/flows/:public_id
func (h *FlowHandler) Delete(c *gin.Context) {
	if err := h.guard.DeleteFlow(c.Param("public_id")); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flow deleted successfully"})
}

// ListSteps returns the steps of a flow in canonical order.
// GET /api/v1/flows/:public_id/steps
func (h *FlowHandler) ListSteps(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	steps, err := h.graph.StepsOf(flow)
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.flowSteps(steps))
}

// AddStep creates a step under a flow. Both stations must resolve.
// POST /api/v1/flows/:public_id/steps
func (h *FlowHandler) AddStep(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	var input struct {
		FromStationID string `json:"from_station_id" binding:"required"`
		ToStationID   string `json:"to_station_id" binding:"required"`
		Condition     string `json:"condition"`
		Order         int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	step, err := h.store.AddFlowStep(flow, engine.FlowStepInput{
		FromStationPublicID: input.FromStationID,
		ToStationPublicID:   input.ToStationID,
		Condition:           input.Condition,
		Order:               input.Order,
	})
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, h.renderer.flowStep(step))
}

// UpdateStep updates a step of a flow.
// PUT /api/v1/flows/:public_id/steps/:step_id
func (h *FlowHandler) UpdateStep(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	step, err := h.store.FlowStepByPublicID(flow, c.Param("step_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	var input struct {
		FromStationID *string `json:"from_station_id"`
		ToStationID   *string `json:"to_station_id"`
		Condition     *string `json:"condition"`
		Order         *int    `json:"order"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		status, body := apperrors.ToHTTPError(apperrors.FromBinding(err))
		c.JSON(status, body)
		return
	}

	if input.FromStationID != nil {
		from, err := h.store.StationByPublicID(*input.FromStationID)
		if err != nil {
			status, body := apperrors.ToHTTPError(apperrors.NewNotFoundError("from station"))
			c.JSON(status, body)
			return
		}
		step.FromStationID = from.ID
	}
	if input.ToStationID != nil {
		to, err := h.store.StationByPublicID(*input.ToStationID)
		if err != nil {
			status, body := apperrors.ToHTTPError(apperrors.NewNotFoundError("to station"))
			c.JSON(status, body)
			return
		}
		step.ToStationID = to.ID
	}
	if input.Condition != nil {
		step.Condition = *input.Condition
	}
	if input.Order != nil {
		step.Order = *input.Order
	}

	if err := h.store.SaveFlowStep(step); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, h.renderer.flowStep(step))
}

// DeleteStep removes a single step of a flow.
// DELETE /api/v1/flows/:public_id/steps/:step_id
func (h *FlowHandler) DeleteStep(c *gin.Context) {
	flow, err := h.store.FlowByPublicID(c.Param("public_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	step, err := h.store.FlowStepByPublicID(flow, c.Param("step_id"))
	if err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}

	if err := h.store.DeleteFlowStep(step); err != nil {
		status, body := apperrors.ToHTTPError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "flow step deleted successfully"})
}

func parseBoolish(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "t", "y", "yes":
		return true
	}
	return false
}
