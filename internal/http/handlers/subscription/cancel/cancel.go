// Package cancel implements the HTTP handler that cancels the
// authenticated user's active subscription. Cancelling without an active
// subscription is a no-op, not an error.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
)

// Service describes the cancel operation.
type Service interface {
	Cancel(ctx context.Context, userID string) error
}

type Handler struct {
	log           *slog.Logger
	subscriptions Service
}

func New(log *slog.Logger, subscriptions Service) *Handler {
	return &Handler{
		log:           log,
		subscriptions: subscriptions,
	}
}

// ServeHTTP godoc
// @Summary Cancel subscription
// @Description Cancels the active subscription and downgrades the profile to the free tier. Idempotent.
// @Tags Subscription
// @Produce  json
// @Success 200 {object} map[string]any "Cancelled"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /subscriptions [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	if err := h.subscriptions.Cancel(r.Context(), userUID); err != nil {
		var partial *errs.PartialFailure
		switch {
		case errors.Is(err, errs.ErrNotConfigured):
			log.Error("backend is not configured", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service is not configured"))
		case errors.As(err, &partial):
			log.Error("cancellation partially completed",
				slog.String("record_id", partial.RecordID),
				slog.String("step", partial.Step),
				sl.Err(partial.Err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("subscription was cancelled but the profile update failed, please retry"))
		default:
			log.Error("failed to cancel subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to cancel subscription"))
		}
		return
	}

	log.Info("subscription cancelled", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "subscription cancelled",
	}))
}
