// Package testutil builds fixtures shared by tests: worklist pages and a
// migrated local database.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"recworklist/internal/infrastructure/sqlite"
)

// NewTestDB opens a migrated database in a temp directory. It is closed
// when the test ends.
func NewTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(filepath.Join(t.TempDir(), "worklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}
