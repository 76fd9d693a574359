// Package engine - history ledger
package engine

import (
	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"gorm.io/gorm"
)

// HistoryLedger is the append-only log of document lifecycle events.
// Entries are never mutated or reordered after creation; they are
// removed only as a cascade of deleting the parent document.
type HistoryLedger struct {
	db *gorm.DB
}

// NewHistoryLedger creates a new history ledger.
func NewHistoryLedger(db *gorm.DB) *HistoryLedger {
	return &HistoryLedger{db: db}
}

// Append records one lifecycle event for a document. It runs on the
// caller's transaction so the entry commits atomically with the
// mutation it describes.
func (l *HistoryLedger) Append(tx *gorm.DB, documentID uint, action models.HistoryAction, description string, userID, stationID *uint) error {
	entry := &models.DocumentHistory{
		PublicID:    MintPublicID(),
		DocumentID:  documentID,
		Action:      action,
		Description: description,
		UserID:      userID,
		StationID:   stationID,
	}
	return tx.Create(entry).Error
}

// ListFor returns the history of a document, most recent first. The id
// tiebreak keeps the order stable for entries sharing a timestamp.
func (l *HistoryLedger) ListFor(documentID uint) ([]models.DocumentHistory, error) {
	var entries []models.DocumentHistory
	err := l.db.Where("document_id = ?", documentID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return entries, nil
}
