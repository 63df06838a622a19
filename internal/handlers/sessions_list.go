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

// SessionLister defines the interface that the history service must implement.
type SessionLister interface {
	ListSessions(ctx context.Context, userID string) ([]models.SessionWithMessages, error)
}

// SessionListResponse carries a user's sessions, most recently updated
// first, each with its messages in timestamp order
// swagger:model SessionListResponse
type SessionListResponse struct {
	Sessions []models.SessionWithMessages `json:"sessions"`
}

// NewSessionListHandler returns an HTTP handler listing a user's sessions.
// @Summary List chat sessions
// @Description Returns the user's sessions ordered by last update, each with its full message history.
// @Tags history
// @Produce json
// @Param userID path string true "User identifier"
// @Success 200 {object} handlers.SessionListResponse "Sessions returned"
// @Failure 400 {object} handlers.ErrorResponse "Missing userID"
// @Router /history/sessions/{userID} [get]
func NewSessionListHandler(svc SessionLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}

		sessions, err := svc.ListSessions(r.Context(), userID)
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

		writeJSON(w, http.StatusOK, SessionListResponse{Sessions: sessions})
	}
}
