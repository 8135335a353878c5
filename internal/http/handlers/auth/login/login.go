// Package login implements the HTTP handler for authentication requests.
//
// It defines the Request structure for the input data, decodes the JSON
// body, validates the fields and delegates the sign-in to the account
// service. A successful login returns the session token together with
// the profile and the computed premium flag.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/agroclima/agroclima-pro/internal/entitlement"
	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
	"github.com/agroclima/agroclima-pro/internal/models"
)

// Request holds the sign-in input.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service describes the sign-in operation of the account service.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.Profile, error)
}

// Handler serves sign-in requests.
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
// @Summary Sign in
// @Description Authenticates a user by email and password. Returns the session token, the profile and the premium flag.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "User credentials"
// @Success 200 {object} map[string]any "Successful sign-in"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("email", req.Email))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	token, profile, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotConfigured):
			log.Error("backend is not configured", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service is not configured"))
		case errors.Is(err, errs.ErrInvalidCredentials):
			log.Error("login rejected", sl.Err(err))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
		default:
			log.Error("login failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
		}
		return
	}

	log.Info("login success", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":   token,
		"profile": profile,
		"premium": entitlement.HasPremiumAccess(profile, time.Now()),
	}))
}
