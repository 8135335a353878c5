// Package scenario implements the HTTP handler for the scenario analysis
// panel. Premium only; gating happens in the route middleware.
package scenario

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
// @Summary Scenario analysis
// @Description Returns climate, market and production scenarios with recommendations. Premium only.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Scenario groups"
// @Failure 403 {object} response.ErrorResponse "Premium subscription required"
// @Security BearerAuth
// @Router /dashboard/scenarios [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.scenario"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("scenario panel served")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"scenarios": dashboard.Scenarios(),
	}))
}
