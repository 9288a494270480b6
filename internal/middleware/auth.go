package middleware

import (
	"net/http"
	"strings"

	"github.com/photogallery/backend/internal/auth"
)

// AuthMiddleware validates the JWT bearer token on mutating endpoints.
// A nil tokenGenerator disables authentication and passes every request through.
func AuthMiddleware(tokenGenerator *auth.TokenGenerator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenGenerator == nil {
				next.ServeHTTP(w, r)
				return
			}

			var token string

			// Expected format: "Bearer <token>"
			authHeader := r.Header.Get("Authorization")
			if authHeader != "" {
				parts := strings.Split(authHeader, " ")
				if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
					token = parts[1]
				}
			}

			if token == "" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"authentication required"}`))
				return
			}

			if _, err := tokenGenerator.ValidateToken(token); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"invalid or expired token"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
