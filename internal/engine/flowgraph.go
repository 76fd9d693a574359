// Package engine - flow graph queries
package engine

import (
	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"gorm.io/gorm"
)

// FlowGraph is the queryable representation of a flow as a directed
// graph over stations: nodes are the stations its steps reference, edges
// are the steps themselves. It is descriptive, not prescriptive - no
// cycle detection, no path validation, and the transition engine does
// not consult it to authorize moves.
type FlowGraph struct {
	db *gorm.DB
}

// NewFlowGraph creates a new flow graph over the store.
func NewFlowGraph(db *gorm.DB) *FlowGraph {
	return &FlowGraph{db: db}
}

// StepsOf returns the steps of a flow in canonical presentation order:
// step order ascending, insertion order breaking ties.
func (g *FlowGraph) StepsOf(flow *models.Flow) ([]models.FlowStep, error) {
	var steps []models.FlowStep
	err := g.db.Where("flow_id = ?", flow.ID).
		Order("step_order ASC, id ASC").
		Find(&steps).Error
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return steps, nil
}

// OutgoingSteps returns the steps of a flow leaving the given station,
// in canonical order.
func (g *FlowGraph) OutgoingSteps(flow *models.Flow, station *models.Station) ([]models.FlowStep, error) {
	var steps []models.FlowStep
	err := g.db.Where("flow_id = ? AND from_station_id = ?", flow.ID, station.ID).
		Order("step_order ASC, id ASC").
		Find(&steps).Error
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return steps, nil
}
