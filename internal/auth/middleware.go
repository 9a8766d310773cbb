package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/aromeroh/usuarios-api/internal/models"
)

// TokenValidator resolves a presented bearer token to its status.
type TokenValidator interface {
	Check(token string) (models.TokenStatus, error)
}

type contextKey string

// SessionContextKey is the context key for the validated token status.
const SessionContextKey = contextKey("session")

// Middleware protects routes with bearer-token authentication. The
// validated session is passed down via the request context; there is no
// ambient/global session state.
func Middleware(validator TokenValidator, onUnauthorized func(w http.ResponseWriter, msg string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				onUnauthorized(w, "missing auth token")
				return
			}

			status, err := validator.Check(token)
			if err != nil {
				onUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, status)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the validated session placed by Middleware.
func SessionFromContext(ctx context.Context) (models.TokenStatus, bool) {
	status, ok := ctx.Value(SessionContextKey).(models.TokenStatus)
	return status, ok
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
