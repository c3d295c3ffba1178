package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaashuyko/wishlist-api/internal/database"
	"github.com/vaashuyko/wishlist-api/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createTestUser(t *testing.T, svc *UserService, idx string) models.User {
	t.Helper()

	user, err := svc.CreateUser("user"+idx+"@example.com", "user"+idx, "password123")
	require.NoError(t, err)
	return user
}
