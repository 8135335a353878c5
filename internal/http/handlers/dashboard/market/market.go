// Package market implements the HTTP handler for the commodity price
// panel. Premium only; gating happens in the route middleware.
package market

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
// @Summary Market prices
// @Description Returns commodity quotes with daily movement. Premium only.
// @Tags Dashboard
// @Produce  json
// @Success 200 {object} map[string]any "Market quotes"
// @Failure 403 {object} response.ErrorResponse "Premium subscription required"
// @Security BearerAuth
// @Router /dashboard/market [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard.market"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	log.Info("market panel served")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"prices": dashboard.MarketPrices(),
	}))
}
