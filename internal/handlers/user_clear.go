package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
)

// UserDataClearer defines the interface that the history service must implement.
type UserDataClearer interface {
	ClearUserData(ctx context.Context, userID string) error
}

// NewUserClearHandler returns an HTTP handler removing all chat history
// owned by a user.
// @Summary Clear a user's chat history
// @Tags history
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} handlers.SuccessResponse "History cleared"
// @Failure 400 {object} handlers.ErrorResponse "Missing user id"
// @Router /history/user/{userID} [delete]
func NewUserClearHandler(svc UserDataClearer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if userID == "" {
			writeError(w, http.StatusBadRequest, "userId is required")
			return
		}

		if err := svc.ClearUserData(r.Context(), userID); err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
