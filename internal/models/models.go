// Package models contains the docflow data structures.
// Every entity carries an internal ordinal id (never serialized) and an
// opaque public_id minted at creation, which is the only identifier the
// API exposes.
package models

import (
	"time"
)

// UserRole is the closed set of user roles.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Valid reports whether r is a member of the role enum.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// TemplateStatus is the closed set of template statuses.
type TemplateStatus string

const (
	TemplateDraft    TemplateStatus = "draft"
	TemplateActive   TemplateStatus = "active"
	TemplateArchived TemplateStatus = "archived"
)

// Valid reports whether s is a member of the template status enum.
func (s TemplateStatus) Valid() bool {
	return s == TemplateDraft || s == TemplateActive || s == TemplateArchived
}

// DocumentStatus is the closed set of document statuses.
type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentSubmitted DocumentStatus = "submitted"
	DocumentApproved  DocumentStatus = "approved"
	DocumentRejected  DocumentStatus = "rejected"
)

// Valid reports whether s is a member of the document status enum.
func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentDraft, DocumentSubmitted, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

// HistoryAction tags a document history entry. The set is extensible;
// these are the actions the engine itself records.
type HistoryAction string

const (
	ActionCreated HistoryAction = "created"
	ActionUpdated HistoryAction = "updated"
	ActionMoved   HistoryAction = "moved"
)

// User represents a system user.
type User struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	PublicID     string    `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:80"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:120"`
	PasswordHash string    `json:"-" gorm:"not null;size:256"`
	Role         UserRole  `json:"role" gorm:"not null;default:'user';size:20"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Template is a reusable document blueprint.
type Template struct {
	ID             uint           `json:"-" gorm:"primaryKey"`
	PublicID       string         `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	Name           string         `json:"name" gorm:"not null;size:100"`
	Description    string         `json:"description"`
	Content        string         `json:"content" gorm:"not null"`
	EditableFields FieldList      `json:"editable_fields" gorm:"type:text"`
	Status         TemplateStatus `json:"status" gorm:"not null;default:'draft';size:20"`
	CreatedBy      *uint          `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Weak reference: the creator may have been deleted.
	Creator *User `json:"-" gorm:"foreignKey:CreatedBy"`
}

// TableName returns the table name for Template.
func (Template) TableName() string {
	return "templates"
}

// Document is a materialized copy of a template moving through stations.
// TemplateID is set at creation and never changes afterwards.
type Document struct {
	ID               uint           `json:"-" gorm:"primaryKey"`
	PublicID         string         `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	Name             string         `json:"name" gorm:"not null;size:100"`
	Content          string         `json:"content" gorm:"not null"`
	TemplateID       uint           `json:"-" gorm:"not null"`
	Status           DocumentStatus `json:"status" gorm:"not null;default:'draft';size:20"`
	CurrentStationID *uint          `json:"-"`
	CreatedBy        *uint          `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	Template       *Template `json:"-" gorm:"foreignKey:TemplateID"`
	CurrentStation *Station  `json:"-" gorm:"foreignKey:CurrentStationID"`
	Creator        *User     `json:"-" gorm:"foreignKey:CreatedBy"`
}

// TableName returns the table name for Document.
func (Document) TableName() string {
	return "documents"
}

// Station is a checkpoint in a workflow where a document may reside.
// ResponsibleRole is advisory: the engine records it but never checks it
// against the acting user before a transition.
type Station struct {
	ID              uint      `json:"-" gorm:"primaryKey"`
	PublicID        string    `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	Name            string    `json:"name" gorm:"not null;size:100"`
	Description     string    `json:"description"`
	Type            string    `json:"type" gorm:"not null;size:50"`
	ResponsibleRole string    `json:"responsible_role" gorm:"size:50"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the table name for Station.
func (Station) TableName() string {
	return "stations"
}

// Flow is a named collection of permitted station-to-station transitions.
// Its steps are owned: deleting a flow deletes the steps first.
type Flow struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	PublicID    string    `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedBy   *uint     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Steps   []FlowStep `json:"steps,omitempty" gorm:"foreignKey:FlowID"`
	Creator *User      `json:"-" gorm:"foreignKey:CreatedBy"`
}

// TableName returns the table name for Flow.
func (Flow) TableName() string {
	return "flows"
}

// FlowStep is one directed transition rule between two stations.
// Both station references must resolve at write time. Condition is an
// opaque predicate string; nothing evaluates it yet.
type FlowStep struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	PublicID      string    `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	FlowID        uint      `json:"-" gorm:"not null;index"`
	FromStationID uint      `json:"-" gorm:"not null"`
	ToStationID   uint      `json:"-" gorm:"not null"`
	Condition     string    `json:"condition" gorm:"size:255"`
	Order         int       `json:"order" gorm:"column:step_order;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	FromStation *Station `json:"-" gorm:"foreignKey:FromStationID"`
	ToStation   *Station `json:"-" gorm:"foreignKey:ToStationID"`
}

// TableName returns the table name for FlowStep.
func (FlowStep) TableName() string {
	return "flow_steps"
}

// DocumentHistory is an immutable audit record of one lifecycle event on
// a document. Rows are never mutated after creation and are removed only
// as a cascade of deleting the parent document.
type DocumentHistory struct {
	ID          uint          `json:"-" gorm:"primaryKey"`
	PublicID    string        `json:"public_id" gorm:"uniqueIndex;not null;size:36"`
	DocumentID  uint          `json:"-" gorm:"not null;index"`
	Action      HistoryAction `json:"action" gorm:"not null;size:50"`
	Description string        `json:"description"`
	UserID      *uint         `json:"-"`
	StationID   *uint         `json:"-"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	User    *User    `json:"-" gorm:"foreignKey:UserID"`
	Station *Station `json:"-" gorm:"foreignKey:StationID"`
}

// TableName returns the table name for DocumentHistory.
func (DocumentHistory) TableName() string {
	return "document_history"
}
