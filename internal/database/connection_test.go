package database

import (
	"path/filepath"
	"testing"

	"invoice_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoices.db")

	db, err := Initialize("sqlite://" + path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.Equal(t, "sqlite", db.Dialector.Name())
	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
}

func TestOpenDoesNotMigrate(t *testing.T) {
	db, err := Open("sqlite://" + filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	assert.False(t, db.Migrator().HasTable(&models.Invoice{}))
}
