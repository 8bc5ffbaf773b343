package audit

import (
	"testing"

	"matrium-backend/internal/database"
	"matrium-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	old := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = old })
}

func TestWriteLog(t *testing.T) {
	setupTestDB(t)

	err := WriteLog(LogOptions{
		EntityType:  "product",
		EntityID:    7,
		Action:      models.AuditActionUpdate,
		Description: "Product updated: Steel Rod",
		After:       map[string]any{"quantity": 12},
	})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, database.DB.First(&log).Error)
	assert.Equal(t, "product", log.EntityType)
	assert.EqualValues(t, 7, log.EntityID)
	assert.Equal(t, models.AuditActionUpdate, log.Action)
	assert.Equal(t, "null", log.BeforeData)
	assert.JSONEq(t, `{"quantity":12}`, log.AfterData)
}

func TestWriteLogWithoutStates(t *testing.T) {
	setupTestDB(t)

	err := WriteLog(LogOptions{
		EntityType: "delivery",
		EntityID:   1,
		Action:     models.AuditActionDelete,
	})
	require.NoError(t, err)

	var log models.AuditLog
	require.NoError(t, database.DB.First(&log).Error)
	assert.Equal(t, "null", log.BeforeData)
	assert.Equal(t, "null", log.AfterData)
}
