// Package engine contains the docflow core: the entity store, the flow
// graph, the transition engine, the history ledger and the lifecycle
// guard. Everything here is request-scoped and synchronous; each
// mutating operation commits as a single transaction or not at all.
package engine

import (
	"errors"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the entity store: durable records addressed by public id.
// It mints public ids at creation and keeps list queries
// deterministic-ordered so pagination and tests are reproducible.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new entity store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for components that share the store's
// transaction discipline.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// MintPublicID returns a fresh opaque public identifier.
func MintPublicID() string {
	return uuid.NewString()
}

func notFoundOr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource)
	}
	return apperrors.NewInternalError(err)
}

// =============================================================================
// USERS
// =============================================================================

// UserByPublicID returns the user with the given public id.
func (s *Store) UserByPublicID(publicID string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "public_id = ?", publicID).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// UserByUsername returns the user with the given username.
func (s *Store) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, notFoundOr(err, "user")
	}
	return &user, nil
}

// CreateUser persists a new user, minting its public id. Duplicate
// username or email surfaces as Conflict.
func (s *Store) CreateUser(user *models.User) error {
	user.PublicID = MintPublicID()

	var count int64
	s.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count)
	if count > 0 {
		return apperrors.NewConflictError("user", "username already exists")
	}
	s.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return apperrors.NewConflictError("user", "email already exists")
	}

	if err := s.db.Create(user).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListUsers returns all users ordered by username.
func (s *Store) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("username").Find(&users).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// =============================================================================
// STATIONS
// =============================================================================

// StationByPublicID returns the station with the given public id.
func (s *Store) StationByPublicID(publicID string) (*models.Station, error) {
	var station models.Station
	if err := s.db.First(&station, "public_id = ?", publicID).Error; err != nil {
		return nil, notFoundOr(err, "station")
	}
	return &station, nil
}

// CreateStation persists a new station, minting its public id.
func (s *Store) CreateStation(station *models.Station) error {
	station.PublicID = MintPublicID()
	if err := s.db.Create(station).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// SaveStation persists changes to an existing station.
func (s *Store) SaveStation(station *models.Station) error {
	if err := s.db.Save(station).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListStations returns stations ordered by name, optionally filtered by
// type.
func (s *Store) ListStations(stationType string) ([]models.Station, error) {
	query := s.db.Order("name")
	if stationType != "" {
		query = query.Where("type = ?", stationType)
	}
	var stations []models.Station
	if err := query.Find(&stations).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return stations, nil
}

// =============================================================================
// TEMPLATES
// =============================================================================

// TemplateByPublicID returns the template with the given public id.
func (s *Store) TemplateByPublicID(publicID string) (*models.Template, error) {
	var template models.Template
	if err := s.db.First(&template, "public_id = ?", publicID).Error; err != nil {
		return nil, notFoundOr(err, "template")
	}
	return &template, nil
}

// CreateTemplate persists a new template, minting its public id.
func (s *Store) CreateTemplate(template *models.Template) error {
	template.PublicID = MintPublicID()
	if err := s.db.Create(template).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// SaveTemplate persists changes to an existing template.
func (s *Store) SaveTemplate(template *models.Template) error {
	if err := s.db.Save(template).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListTemplates returns templates ordered by last update (most recent
// first), optionally filtered by status.
func (s *Store) ListTemplates(status models.TemplateStatus) ([]models.Template, error) {
	query := s.db.Order("updated_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var templates []models.Template
	if err := query.Find(&templates).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return templates, nil
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// DocumentFilter narrows a document listing. Foreign-key filters take
// public ids and are resolved to internal ids first; an id that does not
// resolve yields an empty result rather than an error.
type DocumentFilter struct {
	Status            models.DocumentStatus
	TemplatePublicID  string
	StationPublicID   string
	CurrentStationID  *uint
}

// DocumentByPublicID returns the document with the given public id.
func (s *Store) DocumentByPublicID(publicID string) (*models.Document, error) {
	var document models.Document
	if err := s.db.First(&document, "public_id = ?", publicID).Error; err != nil {
		return nil, notFoundOr(err, "document")
	}
	return &document, nil
}

// ListDocuments returns documents ordered by last update (most recent
// first), narrowed by the filter.
func (s *Store) ListDocuments(filter DocumentFilter) ([]models.Document, error) {
	query := s.db.Order("updated_at DESC")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TemplatePublicID != "" {
		template, err := s.TemplateByPublicID(filter.TemplatePublicID)
		if err != nil {
			return []models.Document{}, nil
		}
		query = query.Where("template_id = ?", template.ID)
	}
	if filter.StationPublicID != "" {
		station, err := s.StationByPublicID(filter.StationPublicID)
		if err != nil {
			return []models.Document{}, nil
		}
		query = query.Where("current_station_id = ?", station.ID)
	}
	if filter.CurrentStationID != nil {
		query = query.Where("current_station_id = ?", *filter.CurrentStationID)
	}

	var documents []models.Document
	if err := query.Find(&documents).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return documents, nil
}

// =============================================================================
// FLOWS AND STEPS
// =============================================================================

// FlowByPublicID returns the flow with the given public id.
func (s *Store) FlowByPublicID(publicID string) (*models.Flow, error) {
	var flow models.Flow
	if err := s.db.First(&flow, "public_id = ?", publicID).Error; err != nil {
		return nil, notFoundOr(err, "flow")
	}
	return &flow, nil
}

// CreateFlow persists a new flow, minting its public id.
func (s *Store) CreateFlow(flow *models.Flow) error {
	flow.PublicID = MintPublicID()
	if err := s.db.Create(flow).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// SaveFlow persists changes to an existing flow.
func (s *Store) SaveFlow(flow *models.Flow) error {
	if err := s.db.Save(flow).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ListFlows returns flows ordered by name, optionally filtered on the
// active flag.
func (s *Store) ListFlows(active *bool) ([]models.Flow, error) {
	query := s.db.Order("name")
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}
	var flows []models.Flow
	if err := query.Find(&flows).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return flows, nil
}

// FlowStepInput is the write contract for a flow step. Station
// references are public ids and must resolve at write time.
type FlowStepInput struct {
	FromStationPublicID string
	ToStationPublicID   string
	Condition           string
	Order               int
}

// AddFlowStep creates a step under an existing flow. Both stations must
// exist.
func (s *Store) AddFlowStep(flow *models.Flow, input FlowStepInput) (*models.FlowStep, error) {
	from, err := s.StationByPublicID(input.FromStationPublicID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("from station")
	}
	to, err := s.StationByPublicID(input.ToStationPublicID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("to station")
	}

	step := &models.FlowStep{
		PublicID:      MintPublicID(),
		FlowID:        flow.ID,
		FromStationID: from.ID,
		ToStationID:   to.ID,
		Condition:     input.Condition,
		Order:         input.Order,
	}
	if err := s.db.Create(step).Error; err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return step, nil
}

// FlowStepByPublicID returns a step of the given flow by public id.
func (s *Store) FlowStepByPublicID(flow *models.Flow, publicID string) (*models.FlowStep, error) {
	var step models.FlowStep
	if err := s.db.First(&step, "public_id = ? AND flow_id = ?", publicID, flow.ID).Error; err != nil {
		return nil, notFoundOr(err, "flow step")
	}
	return &step, nil
}

// SaveFlowStep persists changes to an existing step.
func (s *Store) SaveFlowStep(step *models.FlowStep) error {
	if err := s.db.Save(step).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// DeleteFlowStep removes a single step. Flow-level cascade lives in the
// lifecycle guard.
func (s *Store) DeleteFlowStep(step *models.FlowStep) error {
	if err := s.db.Delete(step).Error; err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
