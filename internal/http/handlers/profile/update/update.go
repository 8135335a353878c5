// Package update implements the HTTP handler for partial profile edits.
// Only the display fields are writable here; subscription columns are
// managed by the subscription service alone.
package update

import (
	"context"
	"encoding/json"
	"errors"
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

// Request holds the editable profile fields. Absent fields keep their
// stored values.
type Request struct {
	FullName *string `json:"full_name" validate:"omitempty,max=120"`
	Location *string `json:"location" validate:"omitempty,max=120"`
}

// Service describes the profile edit operation.
type Service interface {
	UpdateProfile(ctx context.Context, userUID string, fields models.ProfileUpdate) (*models.Profile, error)
}

type Handler struct {
	log      *slog.Logger
	accounts Service
	validate *validator.Validate
}

func New(log *slog.Logger, accounts Service) *Handler {
	return &Handler{
		log:      log,
		accounts: accounts,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Update own profile
// @Tags Profile
// @Accept  json
// @Produce  json
// @Param request body Request true "Fields to update"
// @Success 200 {object} map[string]any "Updated profile"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 404 {object} response.ErrorResponse "Profile not found"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
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

	profile, err := h.accounts.UpdateProfile(r.Context(), userUID, models.ProfileUpdate{
		FullName: req.FullName,
		Location: req.Location,
	})
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
			log.Error("failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("profile updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile": profile,
	}))
}
