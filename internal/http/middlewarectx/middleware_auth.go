// Package middlewarectx contains the HTTP middleware for session token
// verification and premium gating.
//
// JWTMiddleware checks the Authorization header for a valid bearer token,
// parses it and, on success, puts the user uid and email into the request
// context for downstream handlers. Verification failures answer with
// HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agroclima/agroclima-pro/internal/http/response"
	"github.com/agroclima/agroclima-pro/internal/lib/jwt"
	"github.com/agroclima/agroclima-pro/internal/lib/sl"
)

// Key is the type for HTTP request context keys.
type Key string

const (
	// UserUID is the context key holding the authenticated user's uid.
	UserUID Key = "user_uid"
	// UserEmail is the context key holding the authenticated user's email.
	UserEmail Key = "user_email"
)

// TokenParser verifies a session token and returns its claims.
type TokenParser interface {
	ParseToken(tokenStr string) (*jwt.SessionClaims, error)
}

// JWTMiddleware returns HTTP middleware that verifies the bearer token in
// the Authorization header.
//
// On success the user uid and email are added to the request context,
// otherwise the request is rejected with 401 Unauthorized.
func JWTMiddleware(maker TokenParser, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := maker.ParseToken(tokenStr)
			if err != nil {
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), UserUID, claims.UserUID)
			ctx = context.WithValue(ctx, UserEmail, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
