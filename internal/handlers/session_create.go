package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

// SessionCreator defines the interface that the history service must implement.
type SessionCreator interface {
	CreateSession(ctx context.Context, userID, title string) (*models.SessionWithMessages, error)
}

// CreateSessionRequest represents the JSON body for session creation
// swagger:model CreateSessionRequest
type CreateSessionRequest struct {
	// Owning user identifier
	// required: true
	UserID string `json:"userId"`

	// Session title; defaults to "New Consultation" when omitted
	Title string `json:"title"`
}

// CreateSessionResponse carries the created session
// swagger:model CreateSessionResponse
type CreateSessionResponse struct {
	Session models.SessionWithMessages `json:"session"`
}

// NewSessionCreateHandler returns an HTTP handler creating a session.
// @Summary Create a chat session
// @Description Creates an empty session for the user. A missing or blank title defaults to "New Consultation".
// @Tags history
// @Accept json
// @Produce json
// @Param createSessionRequest body handlers.CreateSessionRequest true "Session creation request"
// @Success 201 {object} handlers.CreateSessionResponse "Session created"
// @Failure 400 {object} handlers.ErrorResponse "Missing userId"
// @Router /history/session [post]
func NewSessionCreateHandler(svc SessionCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSessionRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		session, err := svc.CreateSession(r.Context(), req.UserID, req.Title)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, CreateSessionResponse{Session: *session})
	}
}
