package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/photogallery/backend/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	generator := auth.NewTokenGenerator("test-secret", time.Hour)
	token, err := generator.GenerateToken("admin")
	require.NoError(t, err)

	tests := []struct {
		name           string
		generator      *auth.TokenGenerator
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "nil generator passes everything through",
			generator:      nil,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "valid bearer token",
			generator:      generator,
			authHeader:     "Bearer " + token,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			generator:      generator,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			generator:      generator,
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			generator:      generator,
			authHeader:     "Bearer not-a-jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(tt.generator)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("DELETE", "/api/photos/abc", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
