package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/http/response"
)

type Handler struct {
	log   *slog.Logger
	check func() error // record store readiness probe, nil when unconfigured
}

func New(log *slog.Logger, check func() error) *Handler {
	return &Handler{
		log:   log,
		check: check,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		if err := h.check(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("database is not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"status": "ok",
	}))
}
