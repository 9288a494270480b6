package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		requestOrigin  string
		allowedOrigins []string
		expected       string
	}{
		{
			name:           "exact match",
			requestOrigin:  "http://localhost:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			expected:       "http://localhost:3000",
		},
		{
			name:           "case insensitive match",
			requestOrigin:  "http://LOCALHOST:3000",
			allowedOrigins: []string{"http://localhost:3000"},
			expected:       "http://LOCALHOST:3000",
		},
		{
			name:           "wildcard",
			requestOrigin:  "http://anywhere.example.com",
			allowedOrigins: []string{"*"},
			expected:       "*",
		},
		{
			name:           "not in list",
			requestOrigin:  "http://evil.example.com",
			allowedOrigins: []string{"http://localhost:3000"},
			expected:       "",
		},
		{
			name:           "no origin header",
			requestOrigin:  "",
			allowedOrigins: []string{"*"},
			expected:       "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, getAllowedOrigin(tt.requestOrigin, tt.allowedOrigins))
		})
	}
}

func TestCORSMiddleware_SetsHeaders(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/photos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSMiddleware_DisallowedOriginGetsNoHeader(t *testing.T) {
	handler := CORSMiddleware([]string{"http://localhost:3000"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/photos", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_PreflightShortCircuits(t *testing.T) {
	nextCalled := false
	handler := CORSMiddleware([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/photos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, nextCalled)
}
