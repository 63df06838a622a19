package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
)

const sessionColumns = `id, user_id, title, created_at, updated_at`

// SessionReadRepository handles chat session read operations.
type SessionReadRepository struct {
	db *sqlx.DB
}

func NewSessionReadRepository(db *sqlx.DB) *SessionReadRepository {
	return &SessionReadRepository{db: db}
}

// GetByID fetches a session by identifier. Returns nil without error
// when no session matches.
func (r *SessionReadRepository) GetByID(ctx context.Context, id string) (*models.SessionDB, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM chat_sessions
		WHERE id = ?
		LIMIT 1
	`

	var session models.SessionDB
	err := r.db.GetContext(ctx, &session, query, id)

	logger.Log.Infow("session query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{id},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// ListByUserID returns the user's sessions, most recently updated
// first. This ordering is driven by the touch on every message save.
func (r *SessionReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.SessionDB, error) {
	const query = `
		SELECT ` + sessionColumns + `
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`

	var sessions []models.SessionDB
	err := r.db.SelectContext(ctx, &sessions, query, userID)

	logger.Log.Infow("session list query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"count", len(sessions),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return sessions, nil
}

// SessionWriteRepository handles chat session write operations.
type SessionWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewSessionWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *SessionWriteRepository {
	return &SessionWriteRepository{db: db, txGetter: txGetter}
}

func (r *SessionWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Save inserts a new session row.
func (r *SessionWriteRepository) Save(ctx context.Context, session models.SessionDB) error {
	const query = `
		INSERT INTO chat_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`
	args := []any{session.ID, session.UserID, session.Title, session.CreatedAt, session.UpdatedAt}

	_, err := r.executor(ctx).ExecContext(ctx, query, args...)

	logger.Log.Infow("session insert",
		"query", strings.Join(strings.Fields(query), " "),
		"session_id", session.ID,
		"error", err,
	)

	return err
}

// UpdateTitle sets the session title. Updating a missing session
// affects no rows and is not an error.
func (r *SessionWriteRepository) UpdateTitle(ctx context.Context, id, title string, now time.Time) error {
	const query = `
		UPDATE chat_sessions
		SET title = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.executor(ctx).ExecContext(ctx, query, title, now, id)

	logger.Log.Infow("session title update",
		"query", strings.Join(strings.Fields(query), " "),
		"session_id", id,
		"error", err,
	)

	return err
}

// Touch bumps the session's updated_at, which moves it to the top of
// the user's session list.
func (r *SessionWriteRepository) Touch(ctx context.Context, id string, now time.Time) error {
	const query = `
		UPDATE chat_sessions
		SET updated_at = ?
		WHERE id = ?
	`
	_, err := r.executor(ctx).ExecContext(ctx, query, now, id)

	logger.Log.Infow("session touch",
		"query", strings.Join(strings.Fields(query), " "),
		"session_id", id,
		"error", err,
	)

	return err
}

// Delete removes a session; its messages go with it via the cascade.
// Deleting a missing session is a no-op.
func (r *SessionWriteRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM chat_sessions WHERE id = ?`

	res, err := r.executor(ctx).ExecContext(ctx, query, id)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("session delete",
		"query", query,
		"session_id", id,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// DeleteByUserID removes all of a user's sessions and, via the
// cascade, their messages. Idempotent.
func (r *SessionWriteRepository) DeleteByUserID(ctx context.Context, userID string) error {
	const query = `DELETE FROM chat_sessions WHERE user_id = ?`

	res, err := r.executor(ctx).ExecContext(ctx, query, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("session delete by user",
		"query", query,
		"user_id", userID,
		"result", rowsAffected,
		"error", err,
	)

	return err
}
