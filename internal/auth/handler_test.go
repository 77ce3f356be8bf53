package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syrilster/attendance-grid/internal/attendanceapi"
	"github.com/syrilster/attendance-grid/internal/model"
)

type MockLoginClient struct {
	mock.Mock
}

func (m *MockLoginClient) Login(ctx context.Context, email string, password string) (*model.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*model.LoginResponse)
	return resp, args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *MockLoginClient)
		wantStatus int
		wantBody   string
	}{
		{
			name: "success",
			body: `{"email":"boss@example.com","password":"secret"}`,
			setup: func(m *MockLoginClient) {
				m.On("Login", mock.Anything, "boss@example.com", "secret").Return(&model.LoginResponse{Token: "jwt"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"token":"jwt"}`,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid request body"}`,
		},
		{
			name:       "oversized body",
			body:       `{"email":"` + strings.Repeat("a", 2<<20) + `@example.com","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid request body"}`,
		},
		{
			name:       "invalid email",
			body:       `{"email":"boss","password":"secret"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"invalid request: email failed on email"}`,
		},
		{
			name: "wrong credentials",
			body: `{"email":"boss@example.com","password":"wrong"}`,
			setup: func(m *MockLoginClient) {
				m.On("Login", mock.Anything, "boss@example.com", "wrong").
					Return(nil, fmt.Errorf("failed to call Login with cause 401 %w", attendanceapi.ErrUnauthorized))
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Invalid email or password"}`,
		},
		{
			name: "api down",
			body: `{"email":"boss@example.com","password":"secret"}`,
			setup: func(m *MockLoginClient) {
				m.On("Login", mock.Anything, "boss@example.com", "secret").Return(nil, errors.New("connection refused"))
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"message":"Login failed, please try again later"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockLoginClient)
			if tt.setup != nil {
				tt.setup(m)
			}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(tt.body))
			Route(NewAuthService(m)).Handler(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
			m.AssertExpectations(t)
		})
	}
}
