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

const userColumns = `id, username, password_hash, name, email, auth_token, token_expiry, last_login, created_at, updated_at`

// UserReadRepository handles user read operations.
type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByUsername fetches a user by username. The comparison is
// case-insensitive (NOCASE collation on the column). Returns nil
// without error when no user matches.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE username = ?
		LIMIT 1
	`
	return r.getOne(ctx, query, username)
}

// GetByEmail fetches a user by email, case-insensitively. Returns nil
// without error when no user matches.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = ?
		LIMIT 1
	`
	return r.getOne(ctx, query, email)
}

// GetByID fetches a user by identifier. Returns nil without error when
// no user matches.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserDB, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = ?
		LIMIT 1
	`
	return r.getOne(ctx, query, id)
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, arg)

	logger.Log.Infow("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{arg},
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// UserWriteRepository handles user write operations.
type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user row.
func (r *UserWriteRepository) Save(ctx context.Context, user models.UserDB) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	args := []any{
		user.ID, user.Username, user.PasswordHash, user.Name, user.Email,
		user.AuthToken, user.TokenExpiry, user.LastLogin, user.CreatedAt, user.UpdatedAt,
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	logger.Log.Infow("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", user.ID,
		"result", rowsAffected,
		"error", err,
	)

	return err
}

// SetToken stores a freshly issued token with its expiry and records
// the login instant.
func (r *UserWriteRepository) SetToken(ctx context.Context, userID, authToken string, expiry, now time.Time) error {
	const query = `
		UPDATE users
		SET auth_token = ?, token_expiry = ?, last_login = ?, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, authToken, expiry, now, now, userID)

	logger.Log.Infow("user token update",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	return err
}

// ClearToken revokes the stored token. A no-op when none is set.
func (r *UserWriteRepository) ClearToken(ctx context.Context, userID string, now time.Time) error {
	const query = `
		UPDATE users
		SET auth_token = NULL, token_expiry = NULL, updated_at = ?
		WHERE id = ?
	`
	_, err := r.db.ExecContext(ctx, query, now, userID)

	logger.Log.Infow("user token clear",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"error", err,
	)

	return err
}
