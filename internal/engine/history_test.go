package engine

import (
	"testing"

	"github.com/aethra/docflow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForMostRecentFirst(t *testing.T) {
	store, engine, ledger := newEngine(t)
	template := seedTemplate(t, store, "Invoice")
	intake := seedStation(t, store, "Intake")
	review := seedStation(t, store, "Review")

	doc, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
		StationPublicID:  &intake.PublicID,
	}, nil)
	require.NoError(t, err)

	_, err = engine.ApplyUpdate(doc.PublicID, DocumentChanges{
		StationSupplied: true,
		StationPublicID: &review.PublicID,
	}, nil)
	require.NoError(t, err)

	name := "renamed"
	_, err = engine.ApplyUpdate(doc.PublicID, DocumentChanges{Name: &name}, nil)
	require.NoError(t, err)

	entries, err := ledger.ListFor(doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.ActionUpdated, entries[0].Action)
	assert.Equal(t, models.ActionMoved, entries[1].Action)
	assert.Equal(t, models.ActionCreated, entries[2].Action)
}

func TestListForIsReadOnly(t *testing.T) {
	store, engine, ledger := newEngine(t)
	template := seedTemplate(t, store, "Invoice")

	doc, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "Invoice 1",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)

	first, err := ledger.ListFor(doc.ID)
	require.NoError(t, err)
	second, err := ledger.ListFor(doc.ID)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].PublicID, second[i].PublicID)
		assert.Equal(t, first[i].Description, second[i].Description)
	}
	assert.EqualValues(t, int64(len(first)), historyCount(t, store, doc.ID))
}

func TestListForScopedToDocument(t *testing.T) {
	store, engine, ledger := newEngine(t)
	template := seedTemplate(t, store, "Invoice")

	a, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "A",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)
	b, err := engine.CreateDocument(CreateDocumentInput{
		Name:             "B",
		TemplatePublicID: template.PublicID,
	}, nil)
	require.NoError(t, err)

	name := "A renamed"
	_, err = engine.ApplyUpdate(a.PublicID, DocumentChanges{Name: &name}, nil)
	require.NoError(t, err)

	entries, err := ledger.ListFor(b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionCreated, entries[0].Action)
}
