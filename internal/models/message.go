package models

import "time"

// MessageDB represents a message record in the database.
// The three optional structured payloads are stored as JSON text
// and unmarshalled by the history service on read.
type MessageDB struct {
	ID                string    `json:"id" db:"id"`                                 // Primary key (UUID string or client-supplied)
	SessionID         string    `json:"session_id" db:"session_id"`                 // Owning session, cascade-deleted with it
	Role              string    `json:"role" db:"role"`                             // Free-form role tag ("user", "assistant")
	Content           string    `json:"content" db:"content"`                       // Message text
	ImageURL          *string   `json:"image_url" db:"image_url"`                   // Optional image reference
	ExtractedSymptoms *string   `json:"extracted_symptoms" db:"extracted_symptoms"` // JSON text or nil
	GroundingSources  *string   `json:"grounding_sources" db:"grounding_sources"`   // JSON text or nil
	AnalysisResults   *string   `json:"analysis_results" db:"analysis_results"`     // JSON text or nil
	CreatedAt         time.Time `json:"created_at" db:"created_at"`                 // Message timestamp
}

// Message is the API projection of a message, with the structured
// payloads decoded back into JSON values.
type Message struct {
	ID                string    `json:"id"`
	SessionID         string    `json:"sessionId"`
	Role              string    `json:"role"`
	Content           string    `json:"content"`
	ImageURL          *string   `json:"imageUrl,omitempty"`
	ExtractedSymptoms any       `json:"extractedSymptoms,omitempty"`
	GroundingSources  any       `json:"groundingSources,omitempty"`
	AnalysisResults   any       `json:"analysisResults,omitempty"`
	CreatedAt         time.Time `json:"timestamp"`
}

// MessageSavedEvent is the envelope published to Kafka after a
// successful message save. Downstream consumers (the analysis
// pipeline) key on the session id.
type MessageSavedEvent struct {
	Type      string    `json:"type"` // always "message.saved"
	SessionID string    `json:"sessionId"`
	MessageID string    `json:"messageId"`
	Role      string    `json:"role"`
	SavedAt   time.Time `json:"savedAt"`
}
