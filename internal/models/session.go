package models

import "time"

// SessionDB represents a chat session record in the database
type SessionDB struct {
	ID        string    `json:"id" db:"id"`                 // Primary key (UUID string)
	UserID    string    `json:"user_id" db:"user_id"`       // Owning user, cascade-deleted with the user
	Title     string    `json:"title" db:"title"`           // Session title
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"` // Bumped on every message save
}

// Session is the API projection of a chat session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SessionWithMessages bundles a session with its messages in
// timestamp order, as returned by the history listing.
type SessionWithMessages struct {
	Session
	Messages []Message `json:"messages"`
}

// Public returns the API projection of the session record.
func (s *SessionDB) Public() Session {
	return Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
