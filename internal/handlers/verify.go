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

// Verifier defines the interface that the verify service must implement.
type Verifier interface {
	Verify(ctx context.Context, userID string) (*models.User, error)
}

// VerifyRequest represents the JSON body for token verification
// swagger:model VerifyRequest
type VerifyRequest struct {
	// User identifier
	// required: true
	UserID string `json:"userId"`
}

// VerifyResponse carries the verified user
// swagger:model VerifyResponse
type VerifyResponse struct {
	User models.User `json:"user"`
}

// NewVerifyHandler returns an HTTP handler that checks a user id still
// resolves to an account. Stored-token comparison is the gateway's job.
// @Summary Verify a user
// @Description Confirms the user identifier resolves to an account and returns its public projection.
// @Tags auth
// @Accept json
// @Produce json
// @Param verifyRequest body handlers.VerifyRequest true "Verify request"
// @Success 200 {object} handlers.VerifyResponse "User found"
// @Failure 400 {object} handlers.ErrorResponse "Missing userId"
// @Failure 401 {object} handlers.ErrorResponse "User not found"
// @Router /auth/verify [post]
func NewVerifyHandler(svc Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := svc.Verify(r.Context(), req.UserID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusUnauthorized, "User not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, VerifyResponse{User: *user})
	}
}
