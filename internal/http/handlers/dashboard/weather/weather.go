// Package weather implements the HTTP handler for the weather panel.
// The panel is available on the free tier.
package weather

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/dashboard"
	"github.com/agroclima/agroclima-pro/internal/http/response"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Weather panel
// @Description Returns current conditions, the weekly forecast and agronomic alerts. Free tier.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Weather report"
// @Security BearerAuth
// @Router /dashboard/weather [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.weather"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("weather panel served")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"weather": dashboard.Weather(),
	}))
}
