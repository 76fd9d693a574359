// Package engine - transition engine
package engine

import (
	"errors"
	"fmt"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"gorm.io/gorm"
)

// TransitionEngine applies document state changes - status and/or
// station - atomically, and derives the matching history entry. It does
// not consult the flow graph: any existing station (or none) is a legal
// move target, and responsible_role is never checked against the acting
// user. Both behaviors are deliberate and documented.
type TransitionEngine struct {
	db     *gorm.DB
	ledger *HistoryLedger
}

// NewTransitionEngine creates a new transition engine.
func NewTransitionEngine(db *gorm.DB, ledger *HistoryLedger) *TransitionEngine {
	return &TransitionEngine{db: db, ledger: ledger}
}

// CreateDocumentInput is the write contract for document creation.
// TemplatePublicID must resolve; the template's content is materialized
// into the document as a copy unless Content overrides it.
type CreateDocumentInput struct {
	Name             string
	Content          string
	TemplatePublicID string
	Status           models.DocumentStatus
	StationPublicID  *string
}

// DocumentChanges is a partial set of document fields to change. Nil
// pointer fields are left untouched. The station change is carried
// separately because "set to no station" and "not supplied" differ.
type DocumentChanges struct {
	Name    *string
	Content *string
	Status  *models.DocumentStatus

	// StationSupplied marks current_station_id as part of the change
	// set; StationPublicID is the target, nil meaning "remove from
	// station".
	StationSupplied bool
	StationPublicID *string
}

// CreateDocument creates a document against an existing template and
// appends its "created" history entry in the same transaction.
func (e *TransitionEngine) CreateDocument(input CreateDocumentInput, actor *models.User) (*models.Document, error) {
	if input.Status == "" {
		input.Status = models.DocumentDraft
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, submitted, approved, rejected"})
	}

	var document *models.Document
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := tx.First(&template, "public_id = ?", input.TemplatePublicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("template")
			}
			return apperrors.NewInternalError(err)
		}

		var stationID *uint
		if input.StationPublicID != nil {
			var station models.Station
			if err := tx.First(&station, "public_id = ?", *input.StationPublicID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperrors.NewNotFoundError("station")
				}
				return apperrors.NewInternalError(err)
			}
			stationID = &station.ID
		}

		content := input.Content
		if content == "" {
			content = template.Content
		}

		document = &models.Document{
			PublicID:         MintPublicID(),
			Name:             input.Name,
			Content:          content,
			TemplateID:       template.ID,
			Status:           input.Status,
			CurrentStationID: stationID,
			CreatedBy:        actorID(actor),
		}
		if err := tx.Create(document).Error; err != nil {
			return apperrors.NewInternalError(err)
		}

		if err := e.ledger.Append(tx, document.ID, models.ActionCreated, "Document created", actorID(actor), stationID); err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}

// ApplyUpdate applies a partial document update and appends exactly one
// history entry describing it, all in one transaction. The template
// reference is immutable and not part of the change set.
func (e *TransitionEngine) ApplyUpdate(publicID string, changes DocumentChanges, actor *models.User) (*models.Document, error) {
	if changes.Status != nil && !changes.Status.Valid() {
		return nil, apperrors.NewValidationError("validation error",
			apperrors.FieldError{Field: "status", Message: "must be one of draft, submitted, approved, rejected"})
	}

	var document *models.Document
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.First(&doc, "public_id = ?", publicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("document")
			}
			return apperrors.NewInternalError(err)
		}

		oldStationID := doc.CurrentStationID

		if changes.Name != nil {
			doc.Name = *changes.Name
		}
		if changes.Content != nil {
			doc.Content = *changes.Content
		}
		if changes.Status != nil {
			doc.Status = *changes.Status
		}
		if changes.StationSupplied {
			if changes.StationPublicID != nil {
				var station models.Station
				if err := tx.First(&station, "public_id = ?", *changes.StationPublicID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return apperrors.NewNotFoundError("station")
					}
					return apperrors.NewInternalError(err)
				}
				doc.CurrentStationID = &station.ID
			} else {
				doc.CurrentStationID = nil
			}
		}

		if err := tx.Save(&doc).Error; err != nil {
			return apperrors.NewInternalError(err)
		}

		action := models.ActionUpdated
		description := "Document updated"
		if changes.StationSupplied && !sameStation(oldStationID, doc.CurrentStationID) {
			action = models.ActionMoved
			description = moveDescription(tx, oldStationID, doc.CurrentStationID)
		}

		if err := e.ledger.Append(tx, doc.ID, action, description, actorID(actor), doc.CurrentStationID); err != nil {
			return apperrors.NewInternalError(err)
		}

		document = &doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return document, nil
}

// moveDescription derives the human-readable text for a move. A station
// id that no longer resolves is treated as absent, never as an error.
func moveDescription(tx *gorm.DB, oldID, newID *uint) string {
	oldStation := stationByID(tx, oldID)
	newStation := stationByID(tx, newID)

	switch {
	case oldStation != nil && newStation != nil:
		return fmt.Sprintf("Moved from %s to %s", oldStation.Name, newStation.Name)
	case newStation != nil:
		return fmt.Sprintf("Moved to %s", newStation.Name)
	default:
		return "Removed from station"
	}
}

func stationByID(tx *gorm.DB, id *uint) *models.Station {
	if id == nil {
		return nil
	}
	var station models.Station
	if err := tx.First(&station, "id = ?", *id).Error; err != nil {
		return nil
	}
	return &station
}

func sameStation(a, b *uint) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func actorID(actor *models.User) *uint {
	if actor == nil {
		return nil
	}
	return &actor.ID
}
