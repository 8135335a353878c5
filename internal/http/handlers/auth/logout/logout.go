// Package logout implements the HTTP handler for ending a session.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
)

// Service describes the session teardown operation.
type Service interface {
	EndSession(ctx context.Context, userUID string) error
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

// ServeHTTP ends the session of the authenticated user. Tokens are
// stateless, so the call drops the cached profile; the reply is OK even
// when the cache is unreachable, the client discards its token either way.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	if err := h.accounts.EndSession(r.Context(), userUID); err != nil {
		log.Error("failed to end session cleanly", sl.Err(err))
	}

	log.Info("session ended", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"message": "signed out",
	}))
}
