package repositories

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewDB_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	for _, table := range []string{"users", "chat_sessions", "messages"} {
		var name string
		err := db.Get(&name, `SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table)
		assert.NoError(t, err, "table %s should exist", table)
	}

	// The additive columns must be present on users.
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM pragma_table_info('users') WHERE name IN ('auth_token','token_expiry','last_login')`)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	// Second and third runs hit "duplicate column name" on every
	// additive statement; that must be swallowed.
	assert.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db))
}

func TestNewDB_ForeignKeysEnforced(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Exec(
		`INSERT INTO chat_sessions (id, user_id, title, created_at, updated_at)
		 VALUES ('s1', 'no-such-user', 't', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
	)
	assert.Error(t, err, "session insert without owning user must violate the foreign key")
}
