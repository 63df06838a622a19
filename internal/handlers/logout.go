package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, userID string) error
}

// LogoutRequest represents the JSON body for logout
// swagger:model LogoutRequest
type LogoutRequest struct {
	// User identifier
	// required: true
	UserID string `json:"userId"`
}

// NewLogoutHandler returns an HTTP handler for logout.
// @Summary Log a user out
// @Description Clears the stored bearer token and its expiry. Idempotent.
// @Tags auth
// @Accept json
// @Produce json
// @Param logoutRequest body handlers.LogoutRequest true "Logout request"
// @Success 200 {object} handlers.SuccessResponse "Token cleared"
// @Failure 400 {object} handlers.ErrorResponse "Missing userId"
// @Router /auth/logout [post]
func NewLogoutHandler(svc Logouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogoutRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.Logout(r.Context(), req.UserID); err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
	}
}
