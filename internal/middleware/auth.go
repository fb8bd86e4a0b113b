package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"encounters-server/internal/auth"
	"encounters-server/internal/shared/errors"
	"encounters-server/internal/shared/response"
)

type contextKey string

const UserContextKey contextKey = "user"

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// JWTMiddleware authenticates requests carrying an
// "Authorization: Bearer <token>" header.
func JWTMiddleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := slog.With(
				"middleware", "jwt",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			logger.Debug("Processing JWT authentication")

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.Error(w, r, logger, errors.Unauthorized("authentication required"))
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("Rejected bearer token", "error", err)
				response.Error(w, r, logger, errors.Unauthorized("invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			logger.Debug("JWT authentication successful",
				"subject", claims.Subject,
				"role", claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserFromContext(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(UserContextKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// RequireRandomizer lets through authenticated editors and admins.
func RequireRandomizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := slog.With(
			"middleware", "role",
			"method", r.Method,
			"path", r.URL.Path,
		)

		claims := GetUserFromContext(r)
		if claims == nil {
			response.Error(w, r, logger, errors.Unauthorized("authentication required"))
			return
		}

		if !claims.CanRandomize() {
			logger.Warn("Token without randomize rights attempted a run",
				"subject", claims.Subject,
				"role", claims.Role)
			response.Error(w, r, logger, errors.Forbidden("editor access required"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
