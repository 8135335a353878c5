package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/errs"
	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
)

// EntitlementService decides whether a user currently has premium access.
type EntitlementService interface {
	HasPremiumAccess(ctx context.Context, userUID string) (bool, error)
}

// PremiumMiddleware creates middleware that gates premium-only routes.
// The decision is made per request against the current profile, so an
// expired or cancelled subscription locks the user out immediately.
func PremiumMiddleware(log *slog.Logger, entitlements EntitlementService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			allowed, err := entitlements.HasPremiumAccess(r.Context(), userUID)
			if err != nil {
				switch {
				case errors.Is(err, errs.ErrNotConfigured):
					log.Error("backend is not configured", sl.Err(err))
					render.Status(r, http.StatusServiceUnavailable)
					render.JSON(w, r, response.Error("service is not configured"))
				case errors.Is(err, errs.ErrNotFound):
					log.Error("profile not found", sl.Err(err))
					render.Status(r, http.StatusNotFound)
					render.JSON(w, r, response.Error("profile not found"))
				default:
					log.Error("failed to evaluate premium access", sl.Err(err))
					render.Status(r, http.StatusInternalServerError)
					render.JSON(w, r, response.Error("internal service error"))
				}
				return
			}

			if !allowed {
				log.Info("premium access denied", slog.String("user_uid", userUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("premium subscription required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
