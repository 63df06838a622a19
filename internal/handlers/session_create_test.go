package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/hc-chat-history/internal/models"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

func TestSessionCreateHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	session := &models.SessionWithMessages{
		Session: models.Session{
			ID:        "s-1",
			UserID:    "u-1",
			Title:     "Knee pain",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Messages: []models.Message{},
	}

	tests := []struct {
		name         string
		reqBody      CreateSessionRequest
		rawBody      bool
		mockSetup    func(m *MockSessionCreator)
		expectedCode int
		expectedErr  string
	}{
		{
			name:    "success",
			reqBody: CreateSessionRequest{UserID: "u-1", Title: "Knee pain"},
			mockSetup: func(m *MockSessionCreator) {
				m.EXPECT().CreateSession(gomock.Any(), "u-1", "Knee pain").Return(session, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:    "missing user id",
			reqBody: CreateSessionRequest{Title: "Knee pain"},
			mockSetup: func(m *MockSessionCreator) {
				m.EXPECT().CreateSession(gomock.Any(), "", "Knee pain").Return(nil, services.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  services.ErrValidation.Error(),
		},
		{
			name:    "internal server error",
			reqBody: CreateSessionRequest{UserID: "u-1", Title: "Knee pain"},
			mockSetup: func(m *MockSessionCreator) {
				m.EXPECT().CreateSession(gomock.Any(), "u-1", "Knee pain").Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
		{
			name:         "invalid json",
			rawBody:      true,
			expectedCode: http.StatusBadRequest,
			expectedErr:  "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSessionCreator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewSessionCreateHandler(mockSvc)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/history/session", bytes.NewBufferString("not json"))
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				req = httptest.NewRequest(http.MethodPost, "/history/session", bytes.NewBuffer(bodyBytes))
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var resp CreateSessionResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, session.Session, resp.Session.Session)
			assert.NotNil(t, resp.Session.Messages)
		})
	}
}
