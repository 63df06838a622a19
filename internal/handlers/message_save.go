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

// MessageSaver defines the interface that the history service must implement.
type MessageSaver interface {
	SaveMessage(ctx context.Context, params services.SaveMessageParams) (*models.Message, error)
}

// SaveMessageRequest represents the JSON body for saving a message.
// Supplying messageId makes the save an upsert: a retry with the same
// id updates the row instead of duplicating it.
// swagger:model SaveMessageRequest
type SaveMessageRequest struct {
	// Owning session identifier
	// required: true
	SessionID string `json:"sessionId"`

	// Author role tag
	// required: true
	// default: user
	Role string `json:"role"`

	// Message text
	// required: true
	Content string `json:"content"`

	// Optional image reference
	ImageURL *string `json:"imageUrl"`

	// Optional structured payloads, stored as JSON
	ExtractedSymptoms any `json:"extractedSymptoms"`
	GroundingSources  any `json:"groundingSources"`
	AnalysisResults   any `json:"analysisResults"`

	// Optional client-generated message identifier
	MessageID string `json:"messageId"`
}

// SaveMessageResponse carries the saved message
// swagger:model SaveMessageResponse
type SaveMessageResponse struct {
	Message models.Message `json:"message"`
}

// NewMessageSaveHandler returns an HTTP handler saving a message.
// @Summary Save a message
// @Description Upserts a message by id and bumps the parent session's updated timestamp.
// @Tags history
// @Accept json
// @Produce json
// @Param saveMessageRequest body handlers.SaveMessageRequest true "Message save request"
// @Success 201 {object} handlers.SaveMessageResponse "Message saved"
// @Failure 400 {object} handlers.ErrorResponse "Missing required fields"
// @Router /history/message [post]
func NewMessageSaveHandler(svc MessageSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveMessageRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		msg, err := svc.SaveMessage(r.Context(), services.SaveMessageParams{
			SessionID:         req.SessionID,
			Role:              req.Role,
			Content:           req.Content,
			ImageURL:          req.ImageURL,
			ExtractedSymptoms: req.ExtractedSymptoms,
			GroundingSources:  req.GroundingSources,
			AnalysisResults:   req.AnalysisResults,
			MessageID:         req.MessageID,
		})
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

		writeJSON(w, http.StatusCreated, SaveMessageResponse{Message: *msg})
	}
}
