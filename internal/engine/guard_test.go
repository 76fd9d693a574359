package engine

import (
	"errors"
	"testing"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T) (*Store, *TransitionEngine, *LifecycleGuard) {
	t.Helper()
	db := newTestDB(t)
	store := NewStore(db)
	return store, NewTransitionEngine(db, NewHistoryLedger(db)), NewLifecycleGuard(db)
}

func TestDeleteStationBlockedByResidentDocument(t *testing.T) {
	store, engine, guard := newGuard(t)
	template := seedTemplate(t, store, "Invoice")
	intake := seedStation(t, store, "Intake")

	doc, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
		StationPublicID:  &intake.PublicID,
	}, nil)
	require.NoError(t, err)

	err = guard.DeleteStation(intake.PublicID)
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "station", conflict.Resource)

	// the station survives intact
	fresh, err := store.StationByPublicID(intake.PublicID)
	require.NoError(t, err)
	assert.Equal(t, "Intake", fresh.Name)

	// clearing the station unblocks the delete
	_, err = engine.ApplyUpdate(doc.PublicID, DocumentChanges{StationSupplied: true}, nil)
	require.NoError(t, err)
	require.NoError(t, guard.DeleteStation(intake.PublicID))

	_, err = store.StationByPublicID(intake.PublicID)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestDeleteStationBlockedByFlowStep(t *testing.T) {
	store, _, guard := newGuard(t)
	from := seedStation(t, store, "Intake")
	to := seedStation(t, store, "Review")
	flow := seedFlow(t, store, "Approval")

	_, err := store.AddFlowStep(flow, FlowStepInput{
		FromStationPublicID: from.PublicID,
		ToStationPublicID:   to.PublicID,
	})
	require.NoError(t, err)

	for _, station := range []*models.Station{from, to} {
		err := guard.DeleteStation(station.PublicID)
		var conflict *apperrors.ConflictError
		require.True(t, errors.As(err, &conflict))
	}

	// removing the flow releases both stations
	require.NoError(t, guard.DeleteFlow(flow.PublicID))
	require.NoError(t, guard.DeleteStation(from.PublicID))
	require.NoError(t, guard.DeleteStation(to.PublicID))
}

func TestDeleteStationNotFound(t *testing.T) {
	_, _, guard := newGuard(t)

	err := guard.DeleteStation(MintPublicID())
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestDeleteFlowRemovesSteps(t *testing.T) {
	store, _, guard := newGuard(t)
	from := seedStation(t, store, "Intake")
	to := seedStation(t, store, "Review")
	flow := seedFlow(t, store, "Approval")

	_, err := store.AddFlowStep(flow, FlowStepInput{
		FromStationPublicID: from.PublicID,
		ToStationPublicID:   to.PublicID,
	})
	require.NoError(t, err)

	require.NoError(t, guard.DeleteFlow(flow.PublicID))

	var steps int64
	store.DB().Model(&models.FlowStep{}).Count(&steps)
	assert.Zero(t, steps)
}

func TestDeleteDocumentRemovesHistory(t *testing.T) {
	store, engine, guard := newGuard(t)
	template := seedTemplate(t, store, "Invoice")
	intake := seedStation(t, store, "Intake")

	doc, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)
	_, err = engine.ApplyUpdate(doc.PublicID, DocumentChanges{
		StationSupplied: true,
		StationPublicID: &intake.PublicID,
	}, nil)
	require.NoError(t, err)
	require.EqualValues(t, 2, historyCount(t, store, doc.ID))

	require.NoError(t, guard.DeleteDocument(doc.PublicID))
	assert.EqualValues(t, 0, historyCount(t, store, doc.ID))

	_, err = store.DocumentByPublicID(doc.PublicID)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestDeleteTemplateBlockedByDocuments(t *testing.T) {
	store, engine, guard := newGuard(t)
	template := seedTemplate(t, store, "Invoice")

	doc, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)

	err = guard.DeleteTemplate(template.PublicID)
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "template", conflict.Resource)

	require.NoError(t, guard.DeleteDocument(doc.PublicID))
	require.NoError(t, guard.DeleteTemplate(template.PublicID))
}
