package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tallyhq/tallybook/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

// UserIDContextKey is the context key for the authenticated user's ID.
const UserIDContextKey ContextKey = "user_id"

// Auth creates an authentication middleware. Every mutation is attributed to
// the authenticated user, so the token's subject becomes the acting user ID.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderAuth trusts the X-User-ID header as the acting user. It stands in
// for Auth when token verification is disabled, for internal callers that
// terminate authentication upstream.
func HeaderAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get("X-User-ID"); id != "" {
			ctx := context.WithValue(r.Context(), UserIDContextKey, id)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// UserIDFromContext extracts the authenticated user's ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDContextKey).(string)
	return id, ok && id != ""
}
