package create

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
	"github.com/agroclima/agroclima-pro/internal/models"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func (m *SubscriptionServiceMock) Create(ctx context.Context, userID, paymentMethod string) (*models.SubscriptionRecord, error) {
	args := m.Called(ctx, userID, paymentMethod)
	rec, _ := args.Get(0).(*models.SubscriptionRecord)
	return rec, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreateHandler_ServeHTTP(t *testing.T) {
	logger := newNoopLogger()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	record := &models.SubscriptionRecord{
		ID:        "rec-1",
		UserID:    "uid-1",
		Status:    models.SubscriptionActive,
		Plan:      models.TierPremium,
		Price:     models.PremiumMonthlyPrice,
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
	}

	tests := []struct {
		name           string
		userUID        string
		requestBody    string
		mockRecord     *models.SubscriptionRecord
		mockErr        error
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "valid subscription",
			userUID:        "uid-1",
			requestBody:    `{"payment_method":"card"}`,
			mockRecord:     record,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "empty body is allowed",
			userUID:        "uid-1",
			requestBody:    "",
			mockRecord:     record,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "missing user identification",
			userUID:        "",
			requestBody:    `{}`,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "user identification missing",
		},
		{
			name:           "invalid json body",
			userUID:        "uid-1",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "backend not configured",
			userUID:        "uid-1",
			requestBody:    `{}`,
			mockErr:        errs.ErrNotConfigured,
			wantStatusCode: http.StatusServiceUnavailable,
			wantError:      "service is not configured",
		},
		{
			name:        "ledger write ok but profile update failed",
			userUID:     "uid-1",
			requestBody: `{}`,
			mockErr: &errs.PartialFailure{
				RecordID: "rec-1",
				Step:     "profile update",
				Err:      errs.ErrTransient,
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "subscription was recorded but activation failed, please retry",
		},
		{
			name:           "profile not found",
			userUID:        "uid-1",
			requestBody:    `{}`,
			mockErr:        errs.ErrNotFound,
			wantStatusCode: http.StatusNotFound,
			wantError:      "profile not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subMock := new(SubscriptionServiceMock)
			handler := New(logger, subMock)

			if tt.mockRecord != nil || tt.mockErr != nil {
				subMock.On("Create", mock.Anything, tt.userUID, mock.Anything).
					Return(tt.mockRecord, tt.mockErr).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", bytes.NewReader([]byte(tt.requestBody)))
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
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				sub, ok := data["subscription"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "rec-1", sub["id"])
			}

			subMock.AssertExpectations(t)
		})
	}
}
