// Package api - response shaping
//
// Internal ids never cross the wire; entity references are rendered as
// public ids. Weak references that no longer resolve are rendered as
// absent, never as errors.
package api

import (
	"time"

	"github.com/aethra/docflow/internal/engine"
	"github.com/aethra/docflow/internal/models"
	"gorm.io/gorm"
)

// DocumentResponse is the wire form of a document.
type DocumentResponse struct {
	PublicID         string                `json:"public_id"`
	Name             string                `json:"name"`
	Content          string                `json:"content"`
	TemplateID       string                `json:"template_id"`
	Status           models.DocumentStatus `json:"status"`
	CurrentStationID *string               `json:"current_station_id"`
	CreatedBy        *string               `json:"created_by,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// FlowStepResponse is the wire form of a flow step.
type FlowStepResponse struct {
	PublicID      string    `json:"public_id"`
	FlowID        string    `json:"flow_id"`
	FromStationID string    `json:"from_station_id"`
	ToStationID   string    `json:"to_station_id"`
	Condition     string    `json:"condition"`
	Order         int       `json:"order"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HistoryResponse is the wire form of a history entry.
type HistoryResponse struct {
	PublicID    string               `json:"public_id"`
	Action      models.HistoryAction `json:"action"`
	Description string               `json:"description"`
	UserID      *string              `json:"user_id"`
	StationID   *string              `json:"station_id"`
	CreatedAt   time.Time            `json:"created_at"`
}

// FlowResponse is the wire form of a flow, optionally with its steps in
// canonical order.
type FlowResponse struct {
	PublicID    string             `json:"public_id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	IsActive    bool               `json:"is_active"`
	CreatedBy   *string            `json:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Steps       []FlowStepResponse `json:"steps,omitempty"`
}

// renderer resolves internal references to public ids for responses.
type renderer struct {
	db *gorm.DB
}

func newRenderer(store *engine.Store) *renderer {
	return &renderer{db: store.DB()}
}

// stationPublicID resolves a station reference; dangling ids come back
// nil.
func (r *renderer) stationPublicID(id *uint) *string {
	if id == nil {
		return nil
	}
	var station models.Station
	if err := r.db.First(&station, "id = ?", *id).Error; err != nil {
		return nil
	}
	return &station.PublicID
}

func (r *renderer) userPublicID(id *uint) *string {
	if id == nil {
		return nil
	}
	var user models.User
	if err := r.db.First(&user, "id = ?", *id).Error; err != nil {
		return nil
	}
	return &user.PublicID
}

func (r *renderer) templatePublicID(id uint) string {
	var template models.Template
	if err := r.db.First(&template, "id = ?", id).Error; err != nil {
		return ""
	}
	return template.PublicID
}

func (r *renderer) flowPublicID(id uint) string {
	var flow models.Flow
	if err := r.db.First(&flow, "id = ?", id).Error; err != nil {
		return ""
	}
	return flow.PublicID
}

func (r *renderer) document(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		PublicID:         doc.PublicID,
		Name:             doc.Name,
		Content:          doc.Content,
		TemplateID:       r.templatePublicID(doc.TemplateID),
		Status:           doc.Status,
		CurrentStationID: r.stationPublicID(doc.CurrentStationID),
		CreatedBy:        r.userPublicID(doc.CreatedBy),
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func (r *renderer) documents(docs []models.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, r.document(&docs[i]))
	}
	return out
}

func (r *renderer) flowStep(step *models.FlowStep) FlowStepResponse {
	from := r.stationPublicID(&step.FromStationID)
	to := r.stationPublicID(&step.ToStationID)
	resp := FlowStepResponse{
		PublicID:  step.PublicID,
		FlowID:    r.flowPublicID(step.FlowID),
		Condition: step.Condition,
		Order:     step.Order,
		CreatedAt: step.CreatedAt,
		UpdatedAt: step.UpdatedAt,
	}
	if from != nil {
		resp.FromStationID = *from
	}
	if to != nil {
		resp.ToStationID = *to
	}
	return resp
}

func (r *renderer) flowSteps(steps []models.FlowStep) []FlowStepResponse {
	out := make([]FlowStepResponse, 0, len(steps))
	for i := range steps {
		out = append(out, r.flowStep(&steps[i]))
	}
	return out
}

func (r *renderer) flow(flow *models.Flow, steps []models.FlowStep) FlowResponse {
	resp := FlowResponse{
		PublicID:    flow.PublicID,
		Name:        flow.Name,
		Description: flow.Description,
		IsActive:    flow.IsActive,
		CreatedBy:   r.userPublicID(flow.CreatedBy),
		CreatedAt:   flow.CreatedAt,
		UpdatedAt:   flow.UpdatedAt,
	}
	if steps != nil {
		resp.Steps = r.flowSteps(steps)
	}
	return resp
}

func (r *renderer) flows(flows []models.Flow) []FlowResponse {
	out := make([]FlowResponse, 0, len(flows))
	for i := range flows {
		out = append(out, r.flow(&flows[i], nil))
	}
	return out
}

func (r *renderer) history(entry *models.DocumentHistory) HistoryResponse {
	return HistoryResponse{
		PublicID:    entry.PublicID,
		Action:      entry.Action,
		Description: entry.Description,
		UserID:      r.userPublicID(entry.UserID),
		StationID:   r.stationPublicID(entry.StationID),
		CreatedAt:   entry.CreatedAt,
	}
}

func (r *renderer) histories(entries []models.DocumentHistory) []HistoryResponse {
	out := make([]HistoryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, r.history(&entries[i]))
	}
	return out
}
