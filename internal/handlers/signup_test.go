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

func TestSignupHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.User{
		ID:       "u-1",
		Username: "john",
		Name:     "John",
		Email:    "john@example.com",
	}

	tests := []struct {
		name         string
		reqBody      SignupRequest
		rawBody      bool
		mockSetup    func(m *MockSignuper)
		expectedCode int
		expectedErr  string
	}{
		{
			name: "success",
			reqBody: SignupRequest{
				Username: "john",
				Password: "Password1",
				Name:     "John",
				Email:    "john@example.com",
			},
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "john", "Password1", "John", "john@example.com").
					Return(user, "deadbeef", int64(2592000000), nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name: "validation error",
			reqBody: SignupRequest{
				Username: "jo",
				Password: "Password1",
				Email:    "john@example.com",
			},
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "jo", "Password1", "", "john@example.com").
					Return(nil, "", int64(0), services.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
			expectedErr:  services.ErrValidation.Error(),
		},
		{
			name: "username taken",
			reqBody: SignupRequest{
				Username: "john",
				Password: "Password1",
				Email:    "john@example.com",
			},
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "john", "Password1", "", "john@example.com").
					Return(nil, "", int64(0), services.ErrUserExists)
			},
			expectedCode: http.StatusConflict,
			expectedErr:  services.ErrUserExists.Error(),
		},
		{
			name: "email taken",
			reqBody: SignupRequest{
				Username: "john",
				Password: "Password1",
				Email:    "john@example.com",
			},
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "john", "Password1", "", "john@example.com").
					Return(nil, "", int64(0), services.ErrEmailExists)
			},
			expectedCode: http.StatusConflict,
			expectedErr:  services.ErrEmailExists.Error(),
		},
		{
			name: "internal server error",
			reqBody: SignupRequest{
				Username: "john",
				Password: "Password1",
				Email:    "john@example.com",
			},
			mockSetup: func(m *MockSignuper) {
				m.EXPECT().
					Signup(gomock.Any(), "john", "Password1", "", "john@example.com").
					Return(nil, "", int64(0), errors.New("db down"))
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
			mockSvc := NewMockSignuper(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewSignupHandler(mockSvc)

			var req *http.Request
			if tt.rawBody {
				req = httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString("{invalid json}"))
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				req = httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBuffer(bodyBytes))
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

			var resp AuthResponse
			assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, *user, resp.User)
			assert.Equal(t, "deadbeef", resp.Token)
			assert.Equal(t, int64(2592000000), resp.ExpiresIn)
		})
	}
}
