// Package agroclima registers the HTTP routes of the application.
package agroclima

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/agroclima/agroclima-pro/internal/http/handlers/auth/login"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/auth/logout"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/auth/register"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/dashboard/market"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/dashboard/scenario"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/dashboard/weather"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/entitlement/check"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/health"
	profileget "github.com/agroclima/agroclima-pro/internal/http/handlers/profile/get"
	profileupdate "github.com/agroclima/agroclima-pro/internal/http/handlers/profile/update"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/subscription/cancel"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/subscription/create"
	"github.com/agroclima/agroclima-pro/internal/http/handlers/subscription/history"
	"github.com/agroclima/agroclima-pro/internal/http/middlewarectx"
	"github.com/agroclima/agroclima-pro/internal/lib/jwt"
	accountservice "github.com/agroclima/agroclima-pro/internal/services/account"
	subservice "github.com/agroclima/agroclima-pro/internal/services/subscription"
)

// RegisterRoutes registers every route of the application.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	accountService *accountservice.AccountService, subscriptionService *subservice.SubscriptionService,
	readyCheck func() error) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", register.New(logger, accountService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, accountService).ServeHTTP)
		r.Get("/health", health.New(logger, readyCheck).ServeHTTP)

		// Everything below requires a session token
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/auth/logout", logout.New(logger, accountService).ServeHTTP)
			r.Get("/profile", profileget.New(logger, accountService).ServeHTTP)
			r.Put("/profile", profileupdate.New(logger, accountService).ServeHTTP)
			r.Get("/entitlement", check.New(logger, accountService).ServeHTTP)
			r.Post("/subscriptions", create.New(logger, subscriptionService).ServeHTTP)
			r.Delete("/subscriptions", cancel.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/history", history.New(logger, subscriptionService).ServeHTTP)
			r.Get("/dashboard/weather", weather.New(logger).ServeHTTP)

			// Premium panels, gated per request
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.PremiumMiddleware(logger, accountService))
				r.Get("/dashboard/market", market.New(logger).ServeHTTP)
				r.Get("/dashboard/scenarios", scenario.New(logger).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
