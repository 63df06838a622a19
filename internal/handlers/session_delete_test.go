package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestSessionDeleteHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		sessionID    string
		mockSetup    func(m *MockSessionDeleter)
		expectedCode int
		expectedErr  string
	}{
		{
			name:      "success",
			sessionID: "s-1",
			mockSetup: func(m *MockSessionDeleter) {
				m.EXPECT().DeleteSession(gomock.Any(), "s-1").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:      "missing session is still success",
			sessionID: "ghost",
			mockSetup: func(m *MockSessionDeleter) {
				m.EXPECT().DeleteSession(gomock.Any(), "ghost").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing session id",
			sessionID:    "",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "sessionId is required",
		},
		{
			name:      "internal server error",
			sessionID: "s-1",
			mockSetup: func(m *MockSessionDeleter) {
				m.EXPECT().DeleteSession(gomock.Any(), "s-1").Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSessionDeleter(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewSessionDeleteHandler(mockSvc)

			req := httptest.NewRequest(http.MethodDelete, "/history/session/"+tt.sessionID, nil)
			req = withURLParam(req, "sessionID", tt.sessionID)

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedErr != "" {
				var resp ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
				return
			}

			var resp SuccessResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.True(t, resp.Success)
		})
	}
}
