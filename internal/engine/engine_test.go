package engine

import (
	"testing"

	"github.com/aethra/docflow/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Template{},
		&models.Station{},
		&models.Document{},
		&models.Flow{},
		&models.FlowStep{},
		&models.DocumentHistory{},
	))
	return db
}

func seedStation(t *testing.T, store *Store, name string) *models.Station {
	t.Helper()
	station := &models.Station{Name: name, Type: "approval"}
	require.NoError(t, store.CreateStation(station))
	return station
}

func seedTemplate(t *testing.T, store *Store, name string) *models.Template {
	t.Helper()
	template := &models.Template{
		Name:    name,
		Content: "<p>Hello {{name}}</p>",
		Status:  models.TemplateActive,
		EditableFields: models.FieldList{
			{Name: "name", Type: "string", Required: true},
		},
	}
	require.NoError(t, store.CreateTemplate(template))
	return template
}

func seedFlow(t *testing.T, store *Store, name string) *models.Flow {
	t.Helper()
	flow := &models.Flow{Name: name, IsActive: true}
	require.NoError(t, store.CreateFlow(flow))
	return flow
}

func seedUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		IsActive:     true,
	}
	require.NoError(t, store.CreateUser(user))
	return user
}
