package cancel

import (
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
	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) Cancel(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCancelHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		userUID        string
		mockErr        error
		mockCalled     bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "active subscription cancelled",
			userUID:        "uid-1",
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "no active subscription is still ok",
			userUID:        "uid-1",
			mockCalled:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing user identification",
			userUID:        "",
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
		},
		{
			name:       "record flipped but profile update failed",
			userUID:    "uid-1",
			mockCalled: true,
			mockErr: &errs.PartialFailure{
				RecordID: "rec-1",
				Step:     "profile update",
				Err:      errs.ErrTransient,
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "subscription was cancelled but the profile update failed, please retry",
		},
		{
			name:           "backend not configured",
			userUID:        "uid-1",
			mockCalled:     true,
			mockErr:        errs.ErrNotConfigured,
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service is not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subMock := new(SubscriptionServiceMock)
			handler := New(logger, subMock)

			if tt.mockCalled {
				subMock.On("Cancel", mock.Anything, tt.userUID).Return(tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodDelete, "/subscriptions", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
			if tt.userUID != "" {
				ctx = context.WithValue(ctx, middlewarectx.UserUID, tt.userUID)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err := json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				assert.Equal(t, tt.wantError, got["error"])
			} else {
				assert.Equal(t, "OK", got["status"])
			}

			subMock.AssertExpectations(t)
		})
	}
}
