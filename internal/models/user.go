package models

import (
	"time"
)

// UserDB represents a user record in the database
type UserDB struct {
	ID           string     `json:"id" db:"id"`                 // Primary key (UUID string)
	Username     string     `json:"username" db:"username"`     // Unique username (case-insensitive)
	PasswordHash string     `json:"-" db:"password_hash"`       // Bcrypt password hash, never serialized
	Name         string     `json:"name" db:"name"`             // Display name
	Email        string     `json:"email" db:"email"`           // Unique email (case-insensitive)
	AuthToken    *string    `json:"-" db:"auth_token"`          // Current bearer token, nil when logged out
	TokenExpiry  *time.Time `json:"-" db:"token_expiry"`        // Token expiry, nil when logged out
	LastLogin    *time.Time `json:"last_login" db:"last_login"` // Last successful login
	CreatedAt    time.Time  `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"` // Last update timestamp
}

// User is the public projection of a user returned by the API.
// It never carries the password hash or the stored token.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Public returns the API projection of the user record.
func (u *UserDB) Public() User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
