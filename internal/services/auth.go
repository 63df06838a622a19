package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
	"github.com/sbilibin2017/hc-chat-history/internal/token"
)

// Error variables
var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRateLimited        = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
)

// bcryptCost is the password hashing work factor.
const bcryptCost = 12

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, id string) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user models.UserDB) error
	SetToken(ctx context.Context, userID, authToken string, expiry, now time.Time) error
	ClearToken(ctx context.Context, userID string, now time.Time) error
}

// LoginLimiter throttles login attempts per identifier.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// AuthService handles signup, login, verification and logout.
type AuthService struct {
	reader  UserReader
	writer  UserWriter
	limiter LoginLimiter
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserWriter, limiter LoginLimiter) *AuthService {
	return &AuthService{
		reader:  reader,
		writer:  writer,
		limiter: limiter,
	}
}

// Signup validates the input, enforces username/email uniqueness,
// hashes the password and persists the user with a fresh token.
// Returns the public projection, the token and its lifetime in ms.
func (svc *AuthService) Signup(ctx context.Context, username, password, name, email string) (*models.User, string, int64, error) {
	if err := validateSignup(username, password, name, email); err != nil {
		return nil, "", 0, err
	}

	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to check username", "err", err)
		return nil, "", 0, err
	}
	if existing != nil {
		return nil, "", 0, ErrUserExists
	}

	existing, err = svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check email", "err", err)
		return nil, "", 0, err
	}
	if existing != nil {
		return nil, "", 0, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, "", 0, err
	}

	tok, err := token.New()
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", 0, err
	}

	now := time.Now().UTC()
	expiry := now.Add(token.TTL)
	user := models.UserDB{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashed),
		Name:         name,
		Email:        email,
		AuthToken:    &tok,
		TokenExpiry:  &expiry,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := svc.writer.Save(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, "", 0, err
	}

	public := user.Public()
	return &public, tok, token.ExpiresInMS(), nil
}

// Login authenticates a user and rotates their token. Unknown username
// and wrong password produce the same error so callers cannot
// enumerate accounts. The rate limiter is consulted before the store.
func (svc *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, int64, error) {
	if username == "" || password == "" {
		return nil, "", 0, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	allowed, err := svc.limiter.Allow(ctx, username)
	if err != nil {
		logger.Log.Errorw("rate limiter failure", "err", err)
		return nil, "", 0, err
	}
	if !allowed {
		logger.Log.Warnw("login rate limited", "username", username)
		return nil, "", 0, ErrRateLimited
	}

	user, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, "", 0, err
	}
	if user == nil {
		return nil, "", 0, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Warnw("invalid credentials", "username", username)
		return nil, "", 0, ErrInvalidCredentials
	}

	tok, err := token.New()
	if err != nil {
		logger.Log.Errorw("failed to generate token", "err", err)
		return nil, "", 0, err
	}

	now := time.Now().UTC()
	expiry := now.Add(token.TTL)
	if err := svc.writer.SetToken(ctx, user.ID, tok, expiry, now); err != nil {
		logger.Log.Errorw("failed to store token", "err", err)
		return nil, "", 0, err
	}

	user.AuthToken = &tok
	user.TokenExpiry = &expiry
	user.LastLogin = &now

	public := user.Public()
	return &public, tok, token.ExpiresInMS(), nil
}

// Verify confirms the identifier still resolves to a user and returns
// the public projection. It does not compare the stored token or its
// expiry; that check belongs to the gateway presenting the token.
func (svc *AuthService) Verify(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	public := user.Public()
	return &public, nil
}

// Logout clears the stored token and expiry. Idempotent whether or not
// a token existed.
func (svc *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", ErrValidation)
	}

	if err := svc.writer.ClearToken(ctx, userID, time.Now().UTC()); err != nil {
		logger.Log.Errorw("failed to clear token", "err", err)
		return err
	}

	return nil
}

// validateSignup applies the signup rules in order; the first
// violation wins.
func validateSignup(username, password, name, email string) error {
	switch {
	case username == "" || password == "" || name == "" || email == "":
		return fmt.Errorf("%w: username, password, name and email are required", ErrValidation)
	case !emailPattern.MatchString(email):
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	case len(username) < 3:
		return fmt.Errorf("%w: username must be at least 3 characters", ErrValidation)
	case !usernamePattern.MatchString(username):
		return fmt.Errorf("%w: username may only contain letters, digits, '_' and '-'", ErrValidation)
	case len(password) < 8:
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	case !containsCase(password):
		return fmt.Errorf("%w: password must contain both lowercase and uppercase letters", ErrValidation)
	case !containsDigit(password):
		return fmt.Errorf("%w: password must contain at least one digit", ErrValidation)
	}
	return nil
}

func containsCase(s string) bool {
	var lower, upper bool
	for _, r := range s {
		if unicode.IsLower(r) {
			lower = true
		}
		if unicode.IsUpper(r) {
			upper = true
		}
	}
	return lower && upper
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
