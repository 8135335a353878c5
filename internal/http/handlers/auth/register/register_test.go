package register

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agroclima/agroclima-pro/internal/errs"
)

type AccountServiceMock struct {
	mock.Mock
}

func (m *AccountServiceMock) Register(ctx context.Context, email, password, fullName string) (string, error) {
	args := m.Called(ctx, email, password, fullName)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	accountMock := new(AccountServiceMock)
	logger := newNoopLogger()

	handler := New(logger, accountMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUID        string
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name:           "valid registration",
			requestBody:    Request{Email: "farmer@test.com", Password: "password123", FullName: "João Silva"},
			mockUID:        "uid-1",
			wantStatusCode: http.StatusOK,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name:           "validation error - short password",
			requestBody:    Request{Email: "farmer@test.com", Password: "123"},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is too short",
			wantStatus:     "Error",
		},
		{
			name:           "email already registered",
			requestBody:    Request{Email: "farmer@test.com", Password: "password123"},
			mockErr:        errs.ErrEmailTaken,
			wantStatusCode: http.StatusConflict,
			wantError:      "this email is already registered",
			wantStatus:     "Error",
		},
		{
			name:           "backend not configured",
			requestBody:    Request{Email: "farmer@test.com", Password: "password123"},
			mockErr:        errs.ErrNotConfigured,
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service is not configured",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accountMock.ExpectedCalls = nil
			accountMock.Calls = nil

			if tt.mockUID != "" || tt.mockErr != nil {
				req := tt.requestBody.(Request)
				accountMock.On("Register", mock.Anything, req.Email, req.Password, req.FullName).
					Return(tt.mockUID, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "uid-1", data["user_uid"])
			}

			if tt.mockUID != "" || tt.mockErr != nil {
				accountMock.AssertExpectations(t)
			}
		})
	}
}
