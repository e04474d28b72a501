package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexanderramin/studenttracker/internal/domain"
)

type userKey struct{}

// UserResolver resolves the owner of a bearer access token.
type UserResolver interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// UserFromContext returns the authenticated user, if present.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(userKey{}).(*domain.User)
	return u, ok && u != nil
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, domain.ServerErrorBody{
					Error:   "Unauthorized",
					Details: "Missing bearer token",
				})
				return
			}

			u, err := resolver.Authenticate(r.Context(), token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, domain.ServerErrorBody{
					Error:   "Unauthorized",
					Details: "Invalid or expired bearer token",
				})
				return
			}

			ctx := context.WithValue(r.Context(), userKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}
