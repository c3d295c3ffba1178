package maintenance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaashuyko/wishlist-api/internal/database"
)

func TestNew_RejectsBadSchedule(t *testing.T) {
	t.Parallel()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = New(db, "not a cron spec")
	require.Error(t, err)

	_, err = New(db, "@hourly")
	require.NoError(t, err)
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	runner, err := New(db, "@hourly")
	require.NoError(t, err)

	// Must not error or panic against a live schema.
	runner.runOnce()
}
