package repositories

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/hc-chat-history/internal/logger"

	_ "modernc.org/sqlite"
)

// busyTimeoutMS is how long a writer waits on the database lock before
// failing with a contention error.
const busyTimeoutMS = 30000

// NewDB opens the sqlite database at path, configures it for concurrent
// use (WAL, busy timeout, foreign keys) and applies the schema. The
// returned handle is held for the process lifetime.
func NewDB(path string) (*sqlx.DB, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, busyTimeoutMS,
	)

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}

// schema creates the three tables. username and email are NOCASE so
// both uniqueness and lookups compare case-insensitively. Foreign keys
// cascade deletes user -> session -> message.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES chat_sessions(id) ON DELETE CASCADE,
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	image_url TEXT,
	extracted_symptoms TEXT,
	grounding_sources TEXT,
	analysis_results TEXT,
	created_at TIMESTAMP NOT NULL
);
`

// addedColumns are additive migrations for user rows created before the
// token lifecycle existed. They run unconditionally on every start;
// "duplicate column name" is the expected outcome on all but the first.
var addedColumns = []string{
	`ALTER TABLE users ADD COLUMN auth_token TEXT`,
	`ALTER TABLE users ADD COLUMN token_expiry TIMESTAMP`,
	`ALTER TABLE users ADD COLUMN last_login TIMESTAMP`,
}

// Migrate creates the tables if absent and applies the additive column
// migrations, suppressing only "column already exists" failures.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	for _, stmt := range addedColumns {
		if _, err := db.Exec(stmt); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("adding column: %w", err)
		}
		logger.Log.Infow("applied additive migration", "statement", stmt)
	}

	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}
