// Package get implements the HTTP handler returning the authenticated
// user's profile.
package get

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
	"github.com/agroclima/agroclima-pro/internal/models"
)

// Service describes the profile read operation.
type Service interface {
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

type Handler struct {
	log      *slog.Logger
	accounts Service
}

func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{
		log:      log,
		accounts: accounts,
	}
}

// ServeHTTP godoc
// @Summary Get own profile
// @Tags Profile
// @Produce  json
// @Success 200 {object} map[string]any "Profile"
// @Failure 404 {object} response.ErrorResponse "Profile not found"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"

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

	profile, err := h.accounts.GetProfile(r.Context(), userUID)
	if err != nil {
		writeProfileError(w, r, log, err)
		return
	}

	log.Info("profile fetched", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile": profile,
	}))
}

// writeProfileError maps account service failures onto HTTP statuses.
func writeProfileError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
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
		log.Error("failed to fetch profile", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
	}
}
