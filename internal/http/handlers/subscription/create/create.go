// Package create implements the HTTP handler that subscribes the
// authenticated user to the premium plan.
//
// An existing active subscription is superseded, not stacked: the old
// record is cancelled before the new one is written. When the ledger
// record lands but the profile update fails, the reply names the orphaned
// record so support can reconcile it.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// Request holds the optional subscription input. The body may be empty.
type Request struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=64"`
}

// Service describes the premium subscribe operation.
type Service interface {
	Create(ctx context.Context, userID, paymentMethod string) (*models.SubscriptionRecord, error)
}

type Handler struct {
	log           *slog.Logger
	subscriptions Service
	validate      *validator.Validate
}

func New(log *slog.Logger, subscriptions Service) *Handler {
	return &Handler{
		log:           log,
		subscriptions: subscriptions,
		validate:      validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Subscribe to premium
// @Description Writes a one-month premium subscription record and upgrades the profile. Supersedes any active subscription.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Param request body Request false "Payment method"
// @Success 200 {object} map[string]any "Subscription record"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 404 {object} response.ErrorResponse "Profile not found"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	rec, err := h.subscriptions.Create(r.Context(), userUID, req.PaymentMethod)
	if err != nil {
		var partial *errs.PartialFailure
		switch {
		case errors.Is(err, errs.ErrNotConfigured):
			log.Error("backend is not configured", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service is not configured"))
		case errors.Is(err, errs.ErrNotFound):
			log.Error("profile not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		case errors.As(err, &partial):
			log.Error("subscription partially completed",
				slog.String("record_id", partial.RecordID),
				slog.String("step", partial.Step),
				sl.Err(partial.Err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("subscription was recorded but activation failed, please retry"))
		default:
			log.Error("failed to create subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create subscription"))
		}
		return
	}

	log.Info("subscription created",
		slog.String("user_uid", userUID),
		slog.String("record_id", rec.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": rec,
	}))
}
