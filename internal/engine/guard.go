// Package engine - lifecycle guard
package engine

import (
	"errors"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"gorm.io/gorm"
)

// LifecycleGuard runs the pre-delete checks that keep references intact.
// Existence checks and the delete they guard run in the same transaction
// so a concurrent move cannot slip a document into a station between the
// count and the delete; the schema's foreign keys are the backstop.
type LifecycleGuard struct {
	db *gorm.DB
}

// NewLifecycleGuard creates a new lifecycle guard.
func NewLifecycleGuard(db *gorm.DB) *LifecycleGuard {
	return &LifecycleGuard{db: db}
}

func findForDelete[T any](tx *gorm.DB, publicID, resource string, out *T) error {
	if err := tx.First(out, "public_id = ?", publicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(resource)
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// DeleteStation removes a station unless documents currently sit at it
// or flow steps reference it.
func (g *LifecycleGuard) DeleteStation(publicID string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var station models.Station
		if err := findForDelete(tx, publicID, "station", &station); err != nil {
			return err
		}

		var docCount int64
		if err := tx.Model(&models.Document{}).Where("current_station_id = ?", station.ID).Count(&docCount).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		if docCount > 0 {
			return apperrors.NewConflictError("station", "cannot delete station with active documents")
		}

		var stepCount int64
		if err := tx.Model(&models.FlowStep{}).
			Where("from_station_id = ? OR to_station_id = ?", station.ID, station.ID).
			Count(&stepCount).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		if stepCount > 0 {
			return apperrors.NewConflictError("station", "cannot delete station referenced by flow steps")
		}

		if err := tx.Delete(&station).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
}

// DeleteFlow removes a flow and its steps; steps go first so no orphan
// step ever exists.
func (g *LifecycleGuard) DeleteFlow(publicID string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var flow models.Flow
		if err := findForDelete(tx, publicID, "flow", &flow); err != nil {
			return err
		}

		if err := tx.Where("flow_id = ?", flow.ID).Delete(&models.FlowStep{}).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		if err := tx.Delete(&flow).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
}

// DeleteDocument removes a document and its history; history rows go
// first because the store has no cascade of its own.
func (g *LifecycleGuard) DeleteDocument(publicID string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var document models.Document
		if err := findForDelete(tx, publicID, "document", &document); err != nil {
			return err
		}

		if err := tx.Where("document_id = ?", document.ID).Delete(&models.DocumentHistory{}).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		if err := tx.Delete(&document).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
}

// DeleteTemplate removes a template unless documents still reference it.
// Document.template_id is required and immutable, so a dangling template
// could never be repaired afterwards.
func (g *LifecycleGuard) DeleteTemplate(publicID string) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		var template models.Template
		if err := findForDelete(tx, publicID, "template", &template); err != nil {
			return err
		}

		var docCount int64
		if err := tx.Model(&models.Document{}).Where("template_id = ?", template.ID).Count(&docCount).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		if docCount > 0 {
			return apperrors.NewConflictError("template", "cannot delete template with existing documents")
		}

		if err := tx.Delete(&template).Error; err != nil {
			return apperrors.NewInternalError(err)
		}
		return nil
	})
}
