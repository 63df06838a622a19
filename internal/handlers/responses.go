package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/hc-chat-history/internal/models"
)

// ErrorResponse is the body of every failure response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// SuccessResponse acknowledges an operation with no payload
// swagger:model SuccessResponse
type SuccessResponse struct {
	// default: true
	Success bool `json:"success"`
}

// AuthResponse is returned by signup and login. This is the only place
// the raw token ever appears in a payload.
// swagger:model AuthResponse
type AuthResponse struct {
	// Public user projection
	User models.User `json:"user"`

	// Bearer token
	Token string `json:"token"`

	// Token lifetime in milliseconds
	// default: 2592000000
	ExpiresIn int64 `json:"expiresIn"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
