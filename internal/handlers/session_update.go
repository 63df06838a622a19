package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sbilibin2017/hc-chat-history/internal/logger"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

// SessionTitleUpdater defines the interface that the history service must implement.
type SessionTitleUpdater interface {
	UpdateSessionTitle(ctx context.Context, sessionID, title string) error
}

// UpdateSessionTitleRequest represents the JSON body for renaming a session.
// swagger:model UpdateSessionTitleRequest
type UpdateSessionTitleRequest struct {
	// New session title
	// required: true
	Title string `json:"title"`
}

// NewSessionUpdateHandler returns an HTTP handler renaming a chat session.
// @Summary Rename a chat session
// @Tags history
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param updateSessionTitleRequest body handlers.UpdateSessionTitleRequest true "Title update request"
// @Success 200 {object} handlers.SuccessResponse "Title updated"
// @Failure 400 {object} handlers.ErrorResponse "Missing title"
// @Router /history/session/{sessionID} [put]
func NewSessionUpdateHandler(svc SessionTitleUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		if sessionID == "" {
			writeError(w, http.StatusBadRequest, "sessionId is required")
			return
		}

		var req UpdateSessionTitleRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.UpdateSessionTitle(r.Context(), sessionID, req.Title); err != nil {
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
