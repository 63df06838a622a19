package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/hc-chat-history/internal/models"
	"github.com/sbilibin2017/hc-chat-history/internal/services"
)

func TestVerifyHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.User{ID: "u-1", Username: "john", Email: "john@example.com"}

	tests := []struct {
		name         string
		reqBody      VerifyRequest
		rawBody      bool
		mockSetup    func(m *MockVerifier)
		expectedCode int
		expectedErr  string
	}{
		{
			name:    "success",
			reqBody: VerifyRequest{UserID: "u-1"},
			mockSetup: func(m *MockVerifier) {
				m.EXPECT().Verify(gomock.Any(), "u-1").Return(user, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "missing user id",
			reqBody: VerifyRequest{},
			mockSetup: func(m *MockVerifier) {
				m.EXPECT().Verify(gomock.Any(), "").Return(nil, services.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  services.ErrValidation.Error(),
		},
		{
			name:    "unknown user",
			reqBody: VerifyRequest{UserID: "ghost"},
			mockSetup: func(m *MockVerifier) {
				m.EXPECT().Verify(gomock.Any(), "ghost").Return(nil, services.ErrUserNotFound)
			},
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "User not found",
		},
		{
			name:    "internal server error",
			reqBody: VerifyRequest{UserID: "u-1"},
			mockSetup: func(m *MockVerifier) {
				m.EXPECT().Verify(gomock.Any(), "u-1").Return(nil, errors.New("db down"))
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
			mockSvc := NewMockVerifier(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewVerifyHandler(mockSvc)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewBufferString("not json"))
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				req = httptest.NewRequest(http.MethodPost, "/auth/verify", bytes.NewBuffer(bodyBytes))
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

			var resp VerifyResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, *user, resp.User)
		})
	}
}
