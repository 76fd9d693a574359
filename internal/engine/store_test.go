package engine

import (
	"errors"
	"testing"

	"github.com/aethra/docflow/internal/apperrors"
	"github.com/aethra/docflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicIDsAreUniqueAcrossEntities(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	seen := map[string]bool{}
	record := func(id string) {
		require.NotEmpty(t, id)
		require.False(t, seen[id], "public id minted twice: %s", id)
		seen[id] = true
	}

	for _, name := range []string{"Intake", "Review", "Archive"} {
		record(seedStation(t, store, name).PublicID)
	}
	for _, name := range []string{"Invoice", "Receipt"} {
		record(seedTemplate(t, store, name).PublicID)
	}
	record(seedFlow(t, store, "Approval").PublicID)
	record(seedUser(t, store, "alice").PublicID)
	assert.Len(t, seen, 7)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	seedUser(t, store, "alice")

	err := store.CreateUser(&models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	})

	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "user", conflict.Resource)
}

func TestListStationsFiltersByType(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	intake := &models.Station{Name: "Intake", Type: "entry"}
	require.NoError(t, store.CreateStation(intake))
	seedStation(t, store, "Review")
	seedStation(t, store, "Audit")

	stations, err := store.ListStations("")
	require.NoError(t, err)
	require.Len(t, stations, 3)
	// ordered by name
	assert.Equal(t, "Audit", stations[0].Name)
	assert.Equal(t, "Intake", stations[1].Name)
	assert.Equal(t, "Review", stations[2].Name)

	stations, err = store.ListStations("entry")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "Intake", stations[0].Name)
}

func TestListDocumentsUnresolvableFilterIsEmpty(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	engine := NewTransitionEngine(db, NewHistoryLedger(db))
	template := seedTemplate(t, store, "Invoice")

	_, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)

	docs, err := store.ListDocuments(DocumentFilter{TemplatePublicID: MintPublicID()})
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = store.ListDocuments(DocumentFilter{StationPublicID: MintPublicID()})
	require.NoError(t, err)
	assert.Empty(t, docs)

	docs, err = store.ListDocuments(DocumentFilter{TemplatePublicID: template.PublicID})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestListDocumentsByStatusAndStation(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	engine := NewTransitionEngine(db, NewHistoryLedger(db))
	template := seedTemplate(t, store, "Invoice")
	intake := seedStation(t, store, "Intake")

	_, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Draft one",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)
	_, err = engine.CreateDocument(CreateDocumentInput{
		Name:             "At intake",
		TemplatePublicID: template.PublicID,
		Status:           models.DocumentSubmitted,
		StationPublicID:  &intake.PublicID,
	}, nil)
	require.NoError(t, err)

	docs, err := store.ListDocuments(DocumentFilter{Status: models.DocumentSubmitted})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "At intake", docs[0].Name)

	docs, err = store.ListDocuments(DocumentFilter{CurrentStationID: &intake.ID})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "At intake", docs[0].Name)
}

func TestListFlowsActiveFilter(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)

	seedFlow(t, store, "Live")
	dormant := &models.Flow{Name: "Dormant", IsActive: false}
	require.NoError(t, store.CreateFlow(dormant))

	active := true
	flows, err := store.ListFlows(&active)
	require.NoError(t, err)
	require.Len(t, flows, 1)
	assert.Equal(t, "Live", flows[0].Name)

	flows, err = store.ListFlows(nil)
	require.NoError(t, err)
	assert.Len(t, flows, 2)
}

func TestAddFlowStepRequiresBothStations(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	intake := seedStation(t, store, "Intake")
	flow := seedFlow(t, store, "Approval")

	_, err := store.AddFlowStep(flow, FlowStepInput{
		FromStationPublicID: MintPublicID(),
		ToStationPublicID:   intake.PublicID,
	})
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "from station", nf.Resource)

	_, err = store.AddFlowStep(flow, FlowStepInput{
		FromStationPublicID: intake.PublicID,
		ToStationPublicID:   MintPublicID(),
	})
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "to station", nf.Resource)
}

func TestFlowStepScopedToFlow(t *testing.T) {
	db := newTestDB(t)
	store := NewStore(db)
	a := seedStation(t, store, "A")
	b := seedStation(t, store, "B")
	flow := seedFlow(t, store, "Approval")
	other := seedFlow(t, store, "Other")

	step, err := store.AddFlowStep(flow, FlowStepInput{
		FromStationPublicID: a.PublicID,
		ToStationPublicID:   b.PublicID,
	})
	require.NoError(t, err)

	_, err = store.FlowStepByPublicID(other, step.PublicID)
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))

	found, err := store.FlowStepByPublicID(flow, step.PublicID)
	require.NoError(t, err)
	assert.Equal(t, step.ID, found.ID)
}
