package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/models"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

// SessionGetter defines the interface that the history service must implement.
type SessionGetter interface {
	GetSession(ctx context.Context, sessionID string) (*models.SessionWithMessages, error)
}

// SessionResponse carries one session and its messages
// swagger:model SessionResponse
type SessionResponse struct {
	Session  models.Session   `json:"session"`
	Messages []models.Message `json:"messages"`
}

// NewSessionGetHandler returns an HTTP handler fetching one session.
// @Summary Get a chat session
// @Description Returns the session and its messages in timestamp order.
// @Tags history
// @Produce json
// @Param sessionID path string true "Session identifier"
// @Success 200 {object} handlers.SessionResponse "Session returned"
// @Failure 400 {object} handlers.ErrorResponse "Missing sessionID"
// @Failure 404 {object} handlers.ErrorResponse "Session not found"
// @Router /history/session/{sessionID} [get]
func NewSessionGetHandler(svc SessionGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		session, err := svc.GetSession(r.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrSessionNotFound):
				writeError(w, http.StatusNotFound, "Session not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{
			Session:  session.Session,
			Messages: session.Messages,
		})
	}
}
