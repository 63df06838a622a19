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

func TestUserClearHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		userID       string
		mockSetup    func(m *MockUserDataClearer)
		expectedCode int
		expectedErr  string
	}{
		{
			name:   "success",
			userID: "u-1",
			mockSetup: func(m *MockUserDataClearer) {
				m.EXPECT().ClearUserData(gomock.Any(), "u-1").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "missing user id",
			userID:       "",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "userId is required",
		},
		{
			name:   "internal server error",
			userID: "u-1",
			mockSetup: func(m *MockUserDataClearer) {
				m.EXPECT().ClearUserData(gomock.Any(), "u-1").Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockUserDataClearer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewUserClearHandler(mockSvc)

			req := httptest.NewRequest(http.MethodDelete, "/history/user/"+tt.userID, nil)
			req = withURLParam(req, "userID", tt.userID)

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
