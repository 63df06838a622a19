package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
)

// SessionDeleter defines the interface that the history service must implement.
type SessionDeleter interface {
	DeleteSession(ctx context.Context, sessionID string) error
}

// NewSessionDeleteHandler returns an HTTP handler deleting a chat session
// and its messages.
// @Summary Delete a chat session
// @Tags history
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} handlers.SuccessResponse "Session deleted"
// @Failure 400 {object} handlers.ErrorResponse "Missing session id"
// @Router /history/session/{sessionID} [delete]
func NewSessionDeleteHandler(svc SessionDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		if err := svc.DeleteSession(r.Context(), sessionID); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
