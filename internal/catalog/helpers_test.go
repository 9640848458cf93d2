package catalog

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	mydb "naomitex/internal/db"
	"naomitex/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mydb.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, caps ...models.Capability) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "irrelevant",
		IsActive:     true,
		Capabilities: caps,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
