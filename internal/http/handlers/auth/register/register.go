// Package register implements the HTTP handler for account sign-up.
//
// It defines the Request structure for the input data, decodes the JSON
// body, validates the fields and delegates account creation to the
// account service. A fresh account always starts on the free tier.
package register

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
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
)

// Request holds the sign-up input. Password must be at least 6 characters.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=120"`
}

// Service describes the account creation operation.
type Service interface {
	Register(ctx context.Context, email, password, fullName string) (string, error)
}

// Handler serves sign-up requests.
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
// @Summary Register a new account
// @Description Creates an account and its profile on the free tier.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Account credentials"
// @Success 200 {object} map[string]any "Account created"
// @Failure 400 {object} response.ErrorResponse "Malformed JSON"
// @Failure 409 {object} response.ErrorResponse "Email already registered"
// @Failure 503 {object} response.ErrorResponse "Service is not configured"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	userUID, err := h.accounts.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotConfigured):
			log.Error("backend is not configured", sl.Err(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("service is not configured"))
		case errors.Is(err, errs.ErrEmailTaken):
			log.Error("email already registered", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("this email is already registered"))
		default:
			log.Error("registration failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to register user"))
		}
		return
	}

	log.Info("account created", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user_uid": userUID,
		"email":    req.Email,
		"message":  "account created successfully",
	}))
}
