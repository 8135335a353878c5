// Package check implements the HTTP handler answering whether the
// authenticated user currently has premium access.
package check

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

// Service evaluates the premium entitlement for a user.
type Service interface {
	HasPremiumAccess(ctx context.Context, userUID string) (bool, error)
}

type Handler struct {
	log          *slog.Logger
	entitlements Service
}

func New(log *slog.Logger, entitlements Service) *Handler {
	return &Handler{
		log:          log,
		entitlements: entitlements,
	}
}

// ServeHTTP godoc
// @Summary Check premium entitlement
// @Description Evaluates the caller's profile against the current time and reports whether premium features are available.
// @Tags Entitlement
// @Produce  json
// @Success 200 {object} map[string]any "Entitlement result"
// @Failure 404 {object} response.ErrorResponse "Profile not found"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /entitlement [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entitlement.check"

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

	premium, err := h.entitlements.HasPremiumAccess(r.Context(), userUID)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotConfigured):
			log.Error("backend is not configured", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service is not configured"))
		case errors.Is(err, errs.ErrNotFound):
			log.Error("profile not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("profile not found"))
		default:
			log.Error("failed to evaluate entitlement", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("entitlement evaluated", slog.String("user_uid", userUID), slog.Bool("premium", premium))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"premium": premium,
	}))
}
